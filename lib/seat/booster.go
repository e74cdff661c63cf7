// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package seat

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/stardustxr/launchpad/lib/process"
)

// DefaultShell interprets the boosted command line.
const DefaultShell = "/bin/bash"

// closeTimeout bounds the close handshake once the command has exited.
const closeTimeout = 5 * time.Second

// Booster runs a command line while holding the seat.
type Booster struct {
	// SocketPath is seatd's socket. Defaults to DefaultSocketPath.
	SocketPath string

	// Shell runs the joined command line via "-c". Defaults to
	// DefaultShell.
	Shell string

	// Runner starts the shell. Defaults to process.ExecRunner.
	Runner process.Runner

	Logger *slog.Logger
}

// Run opens the seat, runs args joined by spaces through the shell,
// waits for it, and closes the seat. Failing to open the seat is
// returned before anything runs. The command's exit code is returned
// with a nil error whenever it ran to completion.
func (b *Booster) Run(ctx context.Context, args []string) (int, error) {
	socketPath := b.SocketPath
	if socketPath == "" {
		socketPath = DefaultSocketPath
	}
	shell := b.Shell
	if shell == "" {
		shell = DefaultShell
	}
	runner := b.Runner
	if runner == nil {
		runner = process.ExecRunner{}
	}
	logger := b.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	seat, err := Open(ctx, socketPath, nil, logger)
	if err != nil {
		return -1, err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), closeTimeout)
		defer cancel()
		if err := seat.Close(closeCtx); err != nil {
			logger.Warn("releasing seat failed", "error", err)
		}
	}()

	commandLine := strings.Join(args, " ")
	logger.Info("running boosted command", "seat", seat.Name(), "shell", shell, "command", commandLine)
	code, err := process.Run(ctx, runner, []string{shell, "-c", commandLine})
	if err != nil {
		return -1, err
	}
	logger.Info("boosted command exited", "exit_code", code)
	return code, nil
}
