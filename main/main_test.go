package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/adammck/walker/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestSimulate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.yaml")
	err := simulate(context.Background(), runOpts{config: path, ticks: 30, walkers: 2})
	assert.NoError(t, err)
}

func TestSimulateBadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walker:\n  max_reach: -1\n"), 0o644))

	err := simulate(context.Background(), runOpts{config: path, ticks: 1})
	require.Error(t, err)
}

func TestSimulateCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	path := filepath.Join(t.TempDir(), "missing.yaml")
	assert.NoError(t, simulate(ctx, runOpts{config: path, ticks: 1000000}))
}

func TestConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walkers: 4\n"), 0o644))

	out := &bytes.Buffer{}
	rootCmd.SetOut(out)
	rootCmd.SetArgs([]string{"config", "--config", path})
	require.NoError(t, rootCmd.Execute())

	cfg := config.Sim{}
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &cfg))
	assert.Equal(t, 4, cfg.Walkers)
	assert.Equal(t, config.DefaultSim().Walker.LiftTime, cfg.Walker.LiftTime)
	assert.NoError(t, cfg.Validate())
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sim.yaml")
	require.NoError(t, os.WriteFile(path, []byte("walkers: 1\n"), 0o644))

	w, err := NewWatcher(path)
	require.NoError(t, err)
	defer w.Close()

	// unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x: 1\n"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("walkers: 2\n"), 0o644))

	select {
	case name := <-w.Events:
		assert.Equal(t, path, name)
	case <-time.After(5 * time.Second):
		t.Fatal("no event")
	}
}
