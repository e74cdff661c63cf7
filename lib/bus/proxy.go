// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"time"

	"golang.org/x/sys/unix"

	"github.com/stardustxr/launchpad/lib/codec"
)

// dialTimeout covers only the connect phase.
const dialTimeout = 5 * time.Second

// responseReadTimeout matches the server's readTimeout + writeTimeout,
// leaving room for the handler itself.
const responseReadTimeout = 45 * time.Second

const maxResponseSize = 1024 * 1024

// Proxy is bound to one object on a remote endpoint. It holds no
// connection; each Call dials afresh, matching the server's
// one-call-per-connection model.
type Proxy struct {
	conn  *Conn
	name  string
	path  string
	iface string
}

// NewProxy binds to the object at path on the endpoint owning name. It
// pings the object first: if nobody owns the name, the owner died
// without cleaning up, or the owner does not serve path, the error
// matches ErrEndpointAbsent.
func (c *Conn) NewProxy(ctx context.Context, name, path, iface string) (*Proxy, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if err := ValidatePath(path); err != nil {
		return nil, err
	}
	proxy := &Proxy{conn: c, name: name, path: path, iface: iface}
	if err := proxy.call(ctx, PeerInterface, "Ping", nil, nil); err != nil {
		return nil, fmt.Errorf("binding proxy to %s%s: %w", name, path, err)
	}
	return proxy, nil
}

// Name returns the remote endpoint's well-known name.
func (p *Proxy) Name() string {
	return p.name
}

// Call invokes member on the remote object. args is CBOR-encoded as the
// call body unless nil. On success, if reply is non-nil and the remote
// returned a body, it is decoded into reply.
//
// A call that cannot reach the endpoint matches ErrEndpointAbsent. A
// call that reached it but failed remotely returns a *RemoteError.
func (p *Proxy) Call(ctx context.Context, member string, args any, reply any) error {
	if err := p.call(ctx, p.iface, member, args, reply); err != nil {
		return fmt.Errorf("calling %s.%s on %s: %w", p.iface, member, p.name, err)
	}
	return nil
}

func (p *Proxy) call(ctx context.Context, iface, member string, args any, reply any) error {
	outgoing := request{Path: p.path, Interface: iface, Member: member}
	if args != nil {
		data, err := codec.Marshal(args)
		if err != nil {
			return fmt.Errorf("encoding arguments: %w", err)
		}
		outgoing.Body = data
	}

	incoming, err := p.send(ctx, outgoing)
	if err != nil {
		return err
	}

	if !incoming.OK {
		return &RemoteError{
			Endpoint:  p.name,
			Operation: member,
			Name:      incoming.ErrorName,
			Message:   incoming.Error,
		}
	}

	if reply != nil && len(incoming.Body) > 0 {
		if err := codec.Unmarshal(incoming.Body, reply); err != nil {
			return fmt.Errorf("decoding reply: %w", err)
		}
	}
	return nil
}

func (p *Proxy) send(ctx context.Context, outgoing request) (*response, error) {
	dialer := net.Dialer{Timeout: dialTimeout}
	conn, err := dialer.DialContext(ctx, "unix", p.conn.socketPath(p.name))
	if err != nil {
		if isAbsent(err) {
			return nil, fmt.Errorf("%w: %v", ErrEndpointAbsent, err)
		}
		return nil, fmt.Errorf("connecting: %w", err)
	}
	defer conn.Close()

	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := codec.NewEncoder(conn).Encode(outgoing); err != nil {
		return nil, fmt.Errorf("writing request: %w", err)
	}
	if unixConn, ok := conn.(*net.UnixConn); ok {
		unixConn.CloseWrite()
	}

	conn.SetReadDeadline(time.Now().Add(responseReadTimeout))
	var incoming response
	if err := codec.NewDecoder(io.LimitReader(conn, maxResponseSize)).Decode(&incoming); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("reading response: %w", err)
	}
	return &incoming, nil
}

// isAbsent reports whether a dial error means nobody is listening: the
// socket file does not exist, or it exists but its owner is gone.
func isAbsent(err error) bool {
	return errors.Is(err, unix.ENOENT) || errors.Is(err, unix.ECONNREFUSED)
}
