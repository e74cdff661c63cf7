// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/seat"
)

func boostCommand() *cli.Command {
	var params commonParams
	return &cli.Command{
		Name:    "boost",
		Summary: "Run a command line while holding the seat",
		Description: `Open the seat through seatd, run the arguments joined into one shell
command line, and release the seat when it exits. seatd's requests to
release the seat are acknowledged automatically. The command's exit
code becomes launchpad's.`,
		Usage: "launchpad boost [flags] [--] <command...>",
		Examples: []cli.Example{
			{
				Description: "Start a session from a text console",
				Command:     "launchpad boost -- launchpad start -- stardust-xr-server",
			},
		},
		Flags: func() *pflag.FlagSet {
			return params.flagSet("boost", true)
		},
		Run: func(args []string) error {
			cfg, logger, err := params.load("boost")
			if err != nil {
				return err
			}

			ctx, stop := signalContext()
			defer stop()

			booster := &seat.Booster{
				SocketPath: cfg.Seat.Socket,
				Shell:      cfg.Seat.Shell,
				Logger:     logger,
			}
			code, err := booster.Run(ctx, args)
			if err != nil {
				return err
			}
			if code != 0 {
				return &cli.ExitError{Code: code}
			}
			return nil
		},
	}
}
