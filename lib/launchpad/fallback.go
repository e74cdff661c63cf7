// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

import (
	"context"
	"log/slog"

	"github.com/stardustxr/launchpad/lib/process"
)

// Fallback is the command the igniter runs when no coordinator answers.
// A nil *Fallback means none was supplied; a Fallback with an empty
// Command was supplied but is unusable.
type Fallback struct {
	Command []string
}

// FallbackResult records what RunFallback did.
type FallbackResult struct {
	// Ran is true when the command was started.
	Ran bool

	// ExitCode is the command's exit code when Ran is true and it
	// exited normally.
	ExitCode int
}

// RunFallback runs the fallback command once and waits for it. The
// outcome is logged and never returned as an error: the igniter exits
// the same way whatever the fallback did.
func RunFallback(ctx context.Context, runner process.Runner, fallback *Fallback, logger *slog.Logger) FallbackResult {
	if fallback == nil {
		logger.Warn("coordinator unreachable and no fallback command supplied")
		return FallbackResult{}
	}
	if len(fallback.Command) == 0 || fallback.Command[0] == "" {
		logger.Error("fallback command is empty, nothing to run")
		return FallbackResult{}
	}

	logger.Info("running fallback command", "command", fallback.Command)
	handle, err := runner.Start(ctx, fallback.Command)
	if err != nil {
		logger.Error("starting fallback command failed", "command", fallback.Command, "error", err)
		return FallbackResult{}
	}
	code, err := handle.Wait()
	switch {
	case err != nil:
		logger.Error("fallback command failed", "command", fallback.Command, "error", err)
	case code != 0:
		logger.Warn("fallback command exited with failure", "command", fallback.Command, "exit_code", code)
	default:
		logger.Info("fallback command finished", "command", fallback.Command)
	}
	return FallbackResult{Ran: true, ExitCode: code}
}
