// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

import (
	"context"
	"errors"
	"log/slog"

	"github.com/stardustxr/launchpad/lib/bus"
	"github.com/stardustxr/launchpad/lib/session"
)

// Resolver decides when the runtime is ready. It implements
// session.Resolver and must run after the coordinator endpoint has been
// published, so that an igniter starting later reaches it directly.
type Resolver struct {
	conn   *bus.Conn
	ready  *session.Latch
	logger *slog.Logger
}

// NewResolver returns a resolver probing conn for the igniter and
// falling back to waiting on ready.
func NewResolver(conn *bus.Conn, ready *session.Latch, logger *slog.Logger) *Resolver {
	return &Resolver{conn: conn, ready: ready, logger: logger}
}

// Resolve returns nil as soon as readiness is established, by a live
// igniter or by xr_runtime_ready. With no igniter present it blocks
// until the signal arrives or ctx is done.
func (r *Resolver) Resolve(ctx context.Context) error {
	if r.ready.IsSet() {
		r.logger.Info("runtime ready signal already received")
		return nil
	}

	igniter, err := NewIgniterProxy(ctx, r.conn)
	if err == nil {
		if _, err := igniter.InstantIgnite(ctx); err != nil {
			r.logger.Debug("presence probe call failed after bind", "error", err)
		}
		r.ready.Set()
		r.logger.Info("igniter present, runtime already started")
		return nil
	}
	if !errors.Is(err, bus.ErrEndpointAbsent) {
		r.logger.Warn("presence probe failed", "error", err)
	}

	// An igniter that already ran and exited is indistinguishable from
	// one that never ran. Either way the direct signal is all that is
	// left to wait for.
	r.logger.Warn("no igniter present, waiting for runtime ready signal",
		"endpoint", IgniterName,
	)
	return r.ready.Wait(ctx)
}
