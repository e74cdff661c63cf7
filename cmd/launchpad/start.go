// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"time"

	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/launchpad"
	"github.com/stardustxr/launchpad/lib/process"
	"github.com/stardustxr/launchpad/lib/session"
	"github.com/stardustxr/launchpad/lib/systemd"
)

// serverGracePeriod is how long the server gets to exit after SIGTERM
// when the coordinator is interrupted.
const serverGracePeriod = 10 * time.Second

func startCommand() *cli.Command {
	var params commonParams
	return &cli.Command{
		Name:    "start",
		Summary: "Run the session coordinator",
		Description: `Run the session coordinator. It publishes the LaunchPad endpoint,
waits until the XR runtime is ready (signalled by "launchpad igniter",
or inferred from an igniter that is already running), spawns the
server command, waits for the server to report its environment with
"launchpad server-started", pushes that environment into the user
service manager, and starts the session target. When the server
exits the session target is stopped.

Only one coordinator may run per bus.`,
		Usage: "launchpad start [flags] -- <server-command...>",
		Examples: []cli.Example{
			{
				Description: "Run the server under the coordinator",
				Command:     "launchpad start -- stardust-xr-server -o 1",
			},
		},
		Flags: func() *pflag.FlagSet {
			return params.flagSet("start", true)
		},
		Run: func(args []string) error {
			// Refuse before touching the bus: a coordinator that cannot
			// spawn anything must not claim the name.
			if len(args) == 0 || args[0] == "" {
				return fmt.Errorf("start: %w", session.ErrEmptyServerCommand)
			}
			cfg, logger, err := params.load("start")
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			conn, err := openBus(cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			current := session.New()
			endpoint, err := launchpad.PublishCoordinator(ctx, conn, current, logger)
			if err != nil {
				return fmt.Errorf("publishing coordinator endpoint: %w", err)
			}
			defer endpoint.Close()
			logger.Info("coordinator endpoint published", "name", launchpad.CoordinatorName, "bus", conn.Directory())

			orchestrator, err := session.NewOrchestrator(
				current,
				launchpad.NewResolver(conn, current.Ready, logger),
				process.ExecRunner{GracePeriod: serverGracePeriod},
				systemd.NewUserManager(cfg.Session.Systemctl, nil),
				session.Config{
					ServerCommand:    args,
					Target:           cfg.Session.Target,
					BlockedVariables: cfg.Session.BlockedEnvironment,
				},
				logger,
			)
			if err != nil {
				return err
			}
			return orchestrator.Run(ctx)
		},
	}
}
