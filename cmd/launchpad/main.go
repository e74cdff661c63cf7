// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"os"

	"github.com/stardustxr/launchpad/lib/process"
)

func main() {
	if err := run(); err != nil {
		// Commands that have already reported their outcome (boost
		// passing through a child's exit code) return an error with
		// the desired exit code. Don't print a redundant "error:" line
		// for those.
		if coder, ok := err.(interface{ ExitCode() int }); ok {
			os.Exit(coder.ExitCode())
		}
		process.Fatal(err)
	}
}

func run() error {
	return root(os.Stdout).Execute(os.Args[1:])
}
