// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"sync"
	"time"

	"github.com/stardustxr/launchpad/lib/codec"
)

// PeerInterface is served on every exported path. Its Ping method is
// what NewProxy uses to detect a live object.
const PeerInterface = "org.stardustxr.Peer"

// Method handles one call. body carries the caller's argument (empty
// for nullary methods). A nil result produces an empty reply body.
type Method func(ctx context.Context, body Body) (any, error)

// Body is the undecoded argument of a call.
type Body struct {
	raw codec.RawMessage
}

// Empty reports whether the caller sent no argument.
func (b Body) Empty() bool {
	return len(b.raw) == 0
}

// Decode unmarshals the argument into v.
func (b Body) Decode(v any) error {
	if b.Empty() {
		return fmt.Errorf("missing call argument")
	}
	return codec.Unmarshal(b.raw, v)
}

// ArgumentError wraps a Decode failure so the caller receives
// ErrorInvalidArgs rather than ErrorFailed.
type ArgumentError struct {
	Err error
}

func (e *ArgumentError) Error() string { return "invalid arguments: " + e.Err.Error() }

func (e *ArgumentError) Unwrap() error { return e.Err }

// Object is a set of methods served at a path under one interface name.
type Object struct {
	Path      string
	Interface string
	Methods   map[string]Method
}

type request struct {
	Path      string           `cbor:"path"`
	Interface string           `cbor:"interface"`
	Member    string           `cbor:"member"`
	Body      codec.RawMessage `cbor:"body,omitempty"`
}

type response struct {
	OK        bool             `cbor:"ok"`
	ErrorName string           `cbor:"error_name,omitempty"`
	Error     string           `cbor:"error,omitempty"`
	Body      codec.RawMessage `cbor:"body,omitempty"`
}

// readTimeout bounds how long a connected client may take to send its
// request. Clients write immediately after connecting.
const readTimeout = 30 * time.Second

// writeTimeout bounds writing the response.
const writeTimeout = 10 * time.Second

// maxRequestSize bounds a single request. An environment report is the
// largest payload and is a few kilobytes.
const maxRequestSize = 1024 * 1024

// Endpoint is a claimed name with objects being served on it.
type Endpoint struct {
	conn     *Conn
	name     string
	claim    *Claim
	listener net.Listener
	objects  map[string]Object
	cancel   context.CancelFunc
	done     chan struct{}

	activeConnections sync.WaitGroup
	closeOnce         sync.Once
	closeErr          error
}

// Export claims name and serves objects on it until ctx is cancelled or
// the endpoint is closed. Handlers receive a context that is cancelled
// when the endpoint shuts down.
//
// If the name is held by someone else, Export returns a *NameInUseError
// and serves nothing.
func (c *Conn) Export(ctx context.Context, name string, objects ...Object) (*Endpoint, error) {
	served := make(map[string]Object, len(objects))
	for _, object := range objects {
		if err := ValidatePath(object.Path); err != nil {
			return nil, err
		}
		if object.Interface == "" {
			return nil, fmt.Errorf("object at %s has no interface name", object.Path)
		}
		if _, exists := served[object.Path]; exists {
			return nil, fmt.Errorf("duplicate object at %s", object.Path)
		}
		served[object.Path] = object
	}

	claim, err := c.Claim(name)
	if err != nil {
		return nil, err
	}

	socketPath := c.socketPath(name)
	// Holding the claim means any socket file present was left by a
	// dead owner.
	if err := os.Remove(socketPath); err != nil && !os.IsNotExist(err) {
		claim.Release()
		return nil, fmt.Errorf("removing stale socket %s: %w", socketPath, err)
	}
	listener, err := net.Listen("unix", socketPath)
	if err != nil {
		claim.Release()
		return nil, fmt.Errorf("listening on %s: %w", socketPath, err)
	}

	serveContext, cancel := context.WithCancel(ctx)
	endpoint := &Endpoint{
		conn:     c,
		name:     name,
		claim:    claim,
		listener: listener,
		objects:  served,
		cancel:   cancel,
		done:     make(chan struct{}),
	}
	if err := c.track(endpoint); err != nil {
		cancel()
		listener.Close()
		os.Remove(socketPath)
		claim.Release()
		return nil, err
	}

	go endpoint.serve(serveContext)

	c.logger.Debug("endpoint exported", "endpoint", name, "socket", socketPath)
	return endpoint, nil
}

// Name returns the endpoint's well-known name.
func (e *Endpoint) Name() string {
	return e.name
}

// Done is closed once the endpoint has stopped serving and released its
// name.
func (e *Endpoint) Done() <-chan struct{} {
	return e.done
}

// Close stops accepting calls, waits for in-flight handlers, removes
// the socket, and releases the name.
func (e *Endpoint) Close() error {
	e.cancel()
	<-e.done
	return e.closeErr
}

func (e *Endpoint) serve(ctx context.Context) {
	defer close(e.done)

	go func() {
		<-ctx.Done()
		e.listener.Close()
	}()

	for {
		conn, err := e.listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			e.conn.logger.Error("accept failed", "endpoint", e.name, "error", err)
			continue
		}

		e.activeConnections.Add(1)
		go func() {
			defer e.activeConnections.Done()
			e.handleConnection(ctx, conn)
		}()
	}

	e.activeConnections.Wait()
	e.shutdown()
}

func (e *Endpoint) shutdown() {
	e.closeOnce.Do(func() {
		e.conn.untrack(e)
		// The socket goes before the lock so a successor's socket is
		// never unlinked by us.
		if err := os.Remove(e.conn.socketPath(e.name)); err != nil && !os.IsNotExist(err) {
			e.closeErr = fmt.Errorf("removing socket for %s: %w", e.name, err)
		}
		if err := e.claim.Release(); err != nil && e.closeErr == nil {
			e.closeErr = err
		}
		e.conn.logger.Debug("endpoint released", "endpoint", e.name)
	})
}

func (e *Endpoint) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(readTimeout))

	var call request
	if err := codec.NewDecoder(io.LimitReader(conn, maxRequestSize)).Decode(&call); err != nil {
		if errors.Is(err, io.EOF) {
			return
		}
		e.writeResponse(conn, failure(ErrorInvalidArgs, fmt.Sprintf("invalid request: %v", err)))
		return
	}

	e.writeResponse(conn, e.dispatch(ctx, call))
}

func (e *Endpoint) dispatch(ctx context.Context, call request) response {
	object, exists := e.objects[call.Path]
	if !exists {
		return failure(ErrorUnknownObject, fmt.Sprintf("no object at %s", call.Path))
	}

	if call.Interface == PeerInterface {
		if call.Member == "Ping" {
			return response{OK: true}
		}
		return failure(ErrorUnknownMethod, fmt.Sprintf("unknown method %s.%s", call.Interface, call.Member))
	}

	if call.Interface != object.Interface {
		return failure(ErrorUnknownMethod, fmt.Sprintf("%s does not implement %s", call.Path, call.Interface))
	}
	method, exists := object.Methods[call.Member]
	if !exists {
		return failure(ErrorUnknownMethod, fmt.Sprintf("unknown method %s.%s", call.Interface, call.Member))
	}

	result, err := method(ctx, Body{raw: call.Body})
	if err != nil {
		e.conn.logger.Debug("method failed",
			"endpoint", e.name,
			"operation", call.Member,
			"error", err,
		)
		var argumentErr *ArgumentError
		if errors.As(err, &argumentErr) {
			return failure(ErrorInvalidArgs, err.Error())
		}
		return failure(ErrorFailed, err.Error())
	}

	reply := response{OK: true}
	if result != nil {
		data, err := codec.Marshal(result)
		if err != nil {
			return failure(ErrorFailed, fmt.Sprintf("internal: marshaling reply: %v", err))
		}
		reply.Body = data
	}
	return reply
}

func failure(name, message string) response {
	return response{OK: false, ErrorName: name, Error: message}
}

// writeResponse failures are logged at debug level: the connection is
// closing regardless and the caller will see a read error.
func (e *Endpoint) writeResponse(conn net.Conn, reply response) {
	conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := codec.NewEncoder(conn).Encode(reply); err != nil {
		e.conn.logger.Debug("failed to write response", "endpoint", e.name, "error", err)
	}
}
