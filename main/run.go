package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adammck/walker/config"
	"github.com/adammck/walker/herd"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var log = logrus.WithFields(logrus.Fields{
	"pkg": "main",
})

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation",
	RunE:  runRun,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective simulator config, defaults included",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := cmd.Flags().GetString("config")
		if err != nil {
			return err
		}

		cfg, err := config.LoadSim(path)
		if err != nil {
			return err
		}

		out, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("encoding config: %w", err)
		}

		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

type runOpts struct {
	config   string
	ticks    int
	walkers  int
	realtime bool
	watch    bool
}

func runRun(cmd *cobra.Command, args []string) error {
	opts := runOpts{}
	var err error

	if opts.config, err = cmd.Flags().GetString("config"); err != nil {
		return err
	}
	if opts.ticks, err = cmd.Flags().GetInt("ticks"); err != nil {
		return err
	}
	if opts.walkers, err = cmd.Flags().GetInt("walkers"); err != nil {
		return err
	}
	if opts.realtime, err = cmd.Flags().GetBool("realtime"); err != nil {
		return err
	}
	if opts.watch, err = cmd.Flags().GetBool("watch"); err != nil {
		return err
	}

	if opts.ticks == 0 && !opts.realtime {
		return fmt.Errorf("--ticks=0 needs --realtime")
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	// Catch both SIGINT (ctrl+c) and SIGTERM (kill/systemd), to finish the
	// current tick and report before exiting.
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(c)
	go func() {
		for range c {
			log.Info("caught signal, shutting down")
			cancel()
		}
	}()

	return simulate(ctx, opts)
}

// sim is a running simulation: a herd built from one config.
type sim struct {
	cfg  config.Sim
	herd *herd.Herd
	sims []*herd.Sim
}

func load(opts runOpts) (*sim, error) {
	cfg, err := config.LoadSim(opts.config)
	if err != nil {
		return nil, err
	}

	if opts.walkers > 0 {
		cfg.Walkers = opts.walkers
	}

	ground := herd.Ground(cfg)
	s := &sim{cfg: cfg, herd: herd.New(0)}

	for i := 0; i < cfg.Walkers; i++ {
		hs, err := herd.Spawn(cfg, ground, herd.Start(cfg, i))
		if err != nil {
			return nil, err
		}

		s.sims = append(s.sims, hs)
		s.herd.Add(hs.Walker)
	}

	if err := s.herd.Boot(); err != nil {
		return nil, err
	}

	log.Infof("loaded %d walkers at %d Hz", cfg.Walkers, cfg.TickRate)
	return s, nil
}

func simulate(ctx context.Context, opts runOpts) error {
	s, err := load(opts)
	if err != nil {
		return err
	}

	var reload chan string
	var watchErrs chan error
	if opts.watch {
		w, err := NewWatcher(opts.config)
		if err != nil {
			return fmt.Errorf("watching %s: %w", opts.config, err)
		}
		defer w.Close()

		reload = w.Events
		watchErrs = w.Errors
		log.Infof("watching %s", opts.config)
	}

	interval := s.cfg.TickInterval()
	var t *time.Ticker
	if opts.realtime {
		t = time.NewTicker(interval)
		defer t.Stop()
	}

	now := time.Now()
	n := 0
	for opts.ticks == 0 || n < opts.ticks {
		if opts.realtime {
			select {
			case <-ctx.Done():
				report(s)
				return nil
			case now = <-t.C:
			}
		} else {
			if ctx.Err() != nil {
				report(s)
				return nil
			}
			now = now.Add(interval)
		}

		// The walker config is fixed once the legs are built, so a new config
		// means new walkers. A broken config is ignored until it's fixed.
		select {
		case name := <-reload:
			ns, err := load(opts)
			if err != nil {
				log.WithError(err).Warnf("not reloading %s", name)
				break
			}

			log.Infof("reloaded %s", name)
			s = ns
			if s.cfg.TickInterval() != interval {
				interval = s.cfg.TickInterval()
				if t != nil {
					t.Reset(interval)
				}
			}
		case err := <-watchErrs:
			log.WithError(err).Warn("watch error")
		default:
		}

		if err := s.herd.Tick(ctx, now); err != nil {
			if ctx.Err() != nil {
				report(s)
				return nil
			}
			return err
		}

		n++
	}

	report(s)
	return nil
}

func report(s *sim) {
	for _, hs := range s.sims {
		fields := logrus.Fields{
			"walker": hs.Walker.ID.String(),
			"pos":    hs.Vehicle.Pose().Position.String(),
			"parked": hs.Driver.Parked(),
		}

		for i := 0; i < hs.Legs.NumLegs(); i++ {
			fields[fmt.Sprintf("leg%d", i)] = hs.Legs.Stage(i).String()
		}

		log.WithFields(fields).Info("walker")
	}
}
