// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"io"

	"github.com/spf13/pflag"

	"github.com/stardustxr/launchpad/cmd/launchpad/cli"
	"github.com/stardustxr/launchpad/lib/version"
)

func versionCommand(stdout io.Writer) *cli.Command {
	var full bool
	return &cli.Command{
		Name:    "version",
		Summary: "Print the launchpad version",
		Usage:   "launchpad version [--full]",
		Flags: func() *pflag.FlagSet {
			flagSet := pflag.NewFlagSet("version", pflag.ContinueOnError)
			flagSet.BoolVar(&full, "full", false, "include Go version and platform")
			return flagSet
		},
		Run: func(args []string) error {
			if full {
				fmt.Fprintf(stdout, "launchpad %s\n", version.Full())
			} else {
				fmt.Fprintf(stdout, "launchpad %s\n", version.Info())
			}
			return nil
		},
	}
}
