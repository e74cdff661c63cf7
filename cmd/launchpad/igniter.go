// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/launchpad"
	"github.com/stardustxr/launchpad/lib/process"
)

func igniterCommand() *cli.Command {
	var params commonParams
	var hold bool

	command := &cli.Command{
		Name:    "igniter",
		Summary: "Signal that the XR runtime is ready",
		Description: `Signal the session coordinator that the XR runtime is ready.

The igniter first publishes its own endpoint, so a coordinator that
starts later can see that the runtime already fired, then signals a
running coordinator. If no coordinator answers, the fallback command
(everything after "--") runs instead, once, in the foreground.

Without --hold the igniter exits as soon as the handshake is done. A
coordinator starting after that cannot tell that the runtime fired;
use --hold, or a fallback command, when the runtime may start first.`,
		Usage: "launchpad igniter [flags] [-- <fallback-command...>]",
		Examples: []cli.Example{
			{
				Description: "Signal a running coordinator, or run the server standalone",
				Command:     "launchpad igniter -- stardust-xr-server",
			},
			{
				Description: "Stay published until the runtime stops the igniter",
				Command:     "launchpad igniter --hold",
			},
		},
	}
	command.Flags = func() *pflag.FlagSet {
		flagSet := params.flagSet("igniter", true)
		flagSet.BoolVar(&hold, "hold", false, "keep the igniter endpoint published until SIGINT/SIGTERM")
		return flagSet
	}
	command.Run = func(args []string) error {
		cfg, logger, err := params.load("igniter")
		if err != nil {
			return err
		}

		var fallback *launchpad.Fallback
		if command.ArgsLenAtDash() >= 0 || len(args) > 0 {
			fallback = &launchpad.Fallback{Command: args}
		}

		ctx, stop := signalContext()
		defer stop()

		conn, err := openBus(cfg, logger)
		if err != nil {
			return err
		}
		defer conn.Close()

		endpoint, _, err := launchpad.Ignite(ctx, conn, process.ExecRunner{}, fallback, logger)
		if err != nil {
			return err
		}
		defer endpoint.Close()

		if hold {
			logger.Info("holding igniter endpoint until interrupted")
			<-ctx.Done()
		}
		return nil
	}
	return command
}
