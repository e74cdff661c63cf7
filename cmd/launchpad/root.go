// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/bus"
	"github.com/stardustxr/launchpad/lib/config"
)

func root(stdout io.Writer) *cli.Command {
	return &cli.Command{
		Name:    "launchpad",
		Summary: "Coordinate StardustXR session startup",
		Description: `Launchpad coordinates the startup of a StardustXR session whose
processes start in any order: the session coordinator, the XR runtime's
igniter, and the server reporting its environment.`,
		Subcommands: []*cli.Command{
			startCommand(),
			igniterCommand(),
			serverStartedCommand(),
			boostCommand(),
			versionCommand(stdout),
		},
	}
}

// commonParams are the flags every runtime command accepts.
type commonParams struct {
	configPath string
	logLevel   string
	busDir     string
}

// flagSet returns a flag set carrying the common flags. Commands that
// take a child command line pass passthrough so the child's own flags
// are left alone.
func (p *commonParams) flagSet(name string, passthrough bool) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flagSet.StringVar(&p.configPath, "config", "", "config file (default $"+config.EnvConfigPath+", else built-in defaults)")
	flagSet.StringVar(&p.logLevel, "log-level", "", "log level: debug, info, warn, error (overrides config)")
	flagSet.StringVar(&p.busDir, "bus-dir", "", "bus directory shared by all session processes (overrides config)")
	flagSet.SetInterspersed(!passthrough)
	return flagSet
}

// load resolves configuration and builds the command's logger.
func (p *commonParams) load(command string) (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load(p.configPath)
	if err != nil {
		return nil, nil, err
	}
	if p.logLevel != "" {
		cfg.Log.Level = p.logLevel
	}
	if p.busDir != "" {
		cfg.Bus.Directory = p.busDir
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cli.NewCommandLogger(level).With("command", command), nil
}

// openBus connects to the configured bus directory, or the per-user
// default when none is configured.
func openBus(cfg *config.Config, logger *slog.Logger) (*bus.Conn, error) {
	if cfg.Bus.Directory == "" {
		return bus.Session(logger)
	}
	return bus.Open(cfg.Bus.Directory, logger)
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
