// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stardustxr/launchpad/lib/bus"
	"github.com/stardustxr/launchpad/lib/process"
	"github.com/stardustxr/launchpad/lib/session"
)

// IgnitionResult records how an ignition ended.
type IgnitionResult struct {
	// Signalled is true when the coordinator accepted xr_runtime_ready.
	Signalled bool

	// Fallback is what the fallback runner did when Signalled is false.
	Fallback FallbackResult
}

// Ignite performs the igniter side of the rendezvous:
//
//  1. Claim and publish the igniter endpoint, so a coordinator that
//     starts later sees the runtime as already fired.
//  2. Signal xr_runtime_ready to a running coordinator.
//  3. If no coordinator answers, run the fallback command.
//
// Failing to claim the igniter name is returned as an error (matching
// bus.ErrNameInUse when another igniter holds it). Every later failure
// is handled by the fallback and is not an error.
//
// The returned endpoint stays published until the caller closes it.
// Closing it early reopens the window in which a coordinator cannot
// tell that the runtime fired.
func Ignite(ctx context.Context, conn *bus.Conn, runner process.Runner, fallback *Fallback, logger *slog.Logger) (*bus.Endpoint, IgnitionResult, error) {
	endpoint, err := PublishIgniter(ctx, conn, logger)
	if err != nil {
		return nil, IgnitionResult{}, fmt.Errorf("publishing igniter endpoint: %w", err)
	}
	logger.Info("igniter endpoint published", "name", IgniterName)

	coordinator, err := NewCoordinatorProxy(ctx, conn)
	if err != nil {
		logger.Warn("coordinator unreachable", "name", CoordinatorName, "error", err)
		return endpoint, IgnitionResult{Fallback: RunFallback(ctx, runner, fallback, logger)}, nil
	}
	if err := coordinator.RuntimeReady(ctx); err != nil {
		logger.Warn("signalling runtime ready failed", "name", CoordinatorName, "error", err)
		return endpoint, IgnitionResult{Fallback: RunFallback(ctx, runner, fallback, logger)}, nil
	}

	logger.Info("runtime ready signalled")
	return endpoint, IgnitionResult{Signalled: true}, nil
}

// ReportServerStarted performs the server-ready handshake: capture the
// named variables from lookup (os.LookupEnv when nil) and deliver them
// with stardust_server_started. Unset variables are logged and omitted.
// Any delivery failure is returned.
func ReportServerStarted(ctx context.Context, conn *bus.Conn, names []string, lookup session.LookupFunc, logger *slog.Logger) error {
	environment := session.Capture(names, lookup, logger)

	coordinator, err := NewCoordinatorProxy(ctx, conn)
	if err != nil {
		return fmt.Errorf("connecting to coordinator: %w", err)
	}
	if err := coordinator.ServerStarted(ctx, environment); err != nil {
		return fmt.Errorf("reporting server environment: %w", err)
	}
	logger.Info("server environment reported", "variables", len(environment))
	return nil
}
