// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

import (
	"context"
	"log/slog"

	"github.com/stardustxr/launchpad/lib/bus"
	"github.com/stardustxr/launchpad/lib/session"
)

// CoordinatorObject serves the LaunchPad interface on top of current.
// Both methods return immediately: xr_runtime_ready sets the readiness
// latch (a repeat is a no-op) and stardust_server_started offers the
// report to the single-slot environment channel (a repeat is dropped).
func CoordinatorObject(current *session.Session, logger *slog.Logger) bus.Object {
	return bus.Object{
		Path:      CoordinatorPath,
		Interface: CoordinatorInterface,
		Methods: map[string]bus.Method{
			MethodRuntimeReady: func(ctx context.Context, body bus.Body) (any, error) {
				if current.MarkReady() {
					logger.Info("runtime ready signal received")
				} else {
					logger.Debug("duplicate runtime ready signal ignored")
				}
				return nil, nil
			},
			MethodServerStarted: func(ctx context.Context, body bus.Body) (any, error) {
				var environment session.Environment
				if err := body.Decode(&environment); err != nil {
					return nil, &bus.ArgumentError{Err: err}
				}
				if current.ReportEnvironment(environment) {
					logger.Info("server environment received", "variables", len(environment))
				} else {
					logger.Warn("duplicate server environment report dropped", "variables", len(environment))
				}
				return nil, nil
			},
		},
	}
}

// PublishCoordinator claims the coordinator name and serves
// CoordinatorObject on it. A second coordinator on the same bus fails
// here with an error matching bus.ErrNameInUse.
func PublishCoordinator(ctx context.Context, conn *bus.Conn, current *session.Session, logger *slog.Logger) (*bus.Endpoint, error) {
	return conn.Export(ctx, CoordinatorName, CoordinatorObject(current, logger))
}

// CoordinatorProxy calls the coordinator's signals.
type CoordinatorProxy struct {
	proxy *bus.Proxy
}

// NewCoordinatorProxy binds to a running coordinator. The error matches
// bus.ErrEndpointAbsent when none is running.
func NewCoordinatorProxy(ctx context.Context, conn *bus.Conn) (*CoordinatorProxy, error) {
	proxy, err := conn.NewProxy(ctx, CoordinatorName, CoordinatorPath, CoordinatorInterface)
	if err != nil {
		return nil, err
	}
	return &CoordinatorProxy{proxy: proxy}, nil
}

// RuntimeReady sends xr_runtime_ready.
func (p *CoordinatorProxy) RuntimeReady(ctx context.Context) error {
	return p.proxy.Call(ctx, MethodRuntimeReady, nil, nil)
}

// ServerStarted sends stardust_server_started with environment.
func (p *CoordinatorProxy) ServerStarted(ctx context.Context, environment session.Environment) error {
	if environment == nil {
		environment = session.Environment{}
	}
	return p.proxy.Call(ctx, MethodServerStarted, environment, nil)
}
