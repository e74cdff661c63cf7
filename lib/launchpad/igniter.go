// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

import (
	"context"
	"log/slog"

	"github.com/stardustxr/launchpad/lib/bus"
)

// IgniterObject serves the Igniter interface. instant_ignite always
// answers true; only its reachability carries meaning.
func IgniterObject(logger *slog.Logger) bus.Object {
	return bus.Object{
		Path:      IgniterPath,
		Interface: IgniterInterface,
		Methods: map[string]bus.Method{
			MethodInstantIgnite: func(ctx context.Context, body bus.Body) (any, error) {
				logger.Debug("presence probe answered")
				return true, nil
			},
		},
	}
}

// PublishIgniter claims the igniter name and serves IgniterObject. A
// stale igniter still holding the name makes this fail with an error
// matching bus.ErrNameInUse.
func PublishIgniter(ctx context.Context, conn *bus.Conn, logger *slog.Logger) (*bus.Endpoint, error) {
	return conn.Export(ctx, IgniterName, IgniterObject(logger))
}

// IgniterProxy is the coordinator's handle on a live igniter.
type IgniterProxy struct {
	proxy *bus.Proxy
}

// NewIgniterProxy binds to a running igniter. The error matches
// bus.ErrEndpointAbsent when none is running.
func NewIgniterProxy(ctx context.Context, conn *bus.Conn) (*IgniterProxy, error) {
	proxy, err := conn.NewProxy(ctx, IgniterName, IgniterPath, IgniterInterface)
	if err != nil {
		return nil, err
	}
	return &IgniterProxy{proxy: proxy}, nil
}

// InstantIgnite calls instant_ignite.
func (p *IgniterProxy) InstantIgnite(ctx context.Context) (bool, error) {
	var answer bool
	if err := p.proxy.Call(ctx, MethodInstantIgnite, nil, &answer); err != nil {
		return false, err
	}
	return answer, nil
}
