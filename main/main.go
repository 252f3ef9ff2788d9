package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "walkersim",
	Short: "Simulate walkers stepping over terrain",
	Long: `walkersim drives one or more simulated walkers along a route over a
terrain profile, placing and stepping their feet every tick.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level, err := cmd.Flags().GetString("log-level")
		if err != nil {
			return err
		}

		lvl, err := logrus.ParseLevel(level)
		if err != nil {
			return fmt.Errorf("bad --log-level: %w", err)
		}

		logrus.SetLevel(lvl)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("config", "walkersim.yaml", "path to the simulator config; defaults are used if it doesn't exist")

	runCmd.Flags().Int("ticks", 600, "number of ticks to run for, or zero to run until interrupted")
	runCmd.Flags().Int("walkers", 0, "number of walkers, overriding the config")
	runCmd.Flags().Bool("realtime", false, "tick at the configured rate, rather than as fast as possible")
	runCmd.Flags().Bool("watch", false, "restart the simulation when the config file changes")
	rootCmd.AddCommand(runCmd)

	rootCmd.AddCommand(configCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
