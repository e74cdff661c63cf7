// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/launchpad"
)

func serverStartedCommand() *cli.Command {
	var params commonParams
	return &cli.Command{
		Name:    "server-started",
		Summary: "Report the server's environment to the coordinator",
		Description: `Report that the server has started, sending the named environment
variables as they are set in this process. Variables that are not set
are logged and left out. Failing to reach the coordinator is an error:
the session cannot continue without this report.

Only the first report of a session is used.`,
		Usage: "launchpad server-started [flags] <var-name...>",
		Examples: []cli.Example{
			{
				Description: "Report the display sockets from the server's startup script",
				Command:     "launchpad server-started WAYLAND_DISPLAY DISPLAY",
			},
		},
		Flags: func() *pflag.FlagSet {
			return params.flagSet("server-started", false)
		},
		Run: func(args []string) error {
			cfg, logger, err := params.load("server-started")
			if err != nil {
				return err
			}
			if len(args) == 0 {
				logger.Warn("no variables named, reporting an empty environment")
			}

			ctx, stop := signalContext()
			defer stop()

			conn, err := openBus(cfg, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			return launchpad.ReportServerStarted(ctx, conn, args, os.LookupEnv, logger)
		},
	}
}
