// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package seat

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"sync/atomic"
	"syscall"
)

// ErrSeatUnavailable is returned by Open when the seat cannot be
// acquired: seatd is not running, refused the client, or closed the
// connection before the seat was opened.
var ErrSeatUnavailable = errors.New("seat unavailable")

// Event is a seat state change delivered by seatd.
type Event int

const (
	// EventEnable means the seat is active and devices may be used.
	EventEnable Event = iota
	// EventDisable means the seat must be released. The Seat
	// acknowledges it after the handler returns.
	EventDisable
)

func (e Event) String() string {
	switch e {
	case EventEnable:
		return "enable"
	case EventDisable:
		return "disable"
	default:
		return fmt.Sprintf("event(%d)", int(e))
	}
}

// Handler observes seat events. It runs on the Seat's reader goroutine
// and must not block.
type Handler func(Event)

// Seat is an open seatd seat.
type Seat struct {
	conn    net.Conn
	name    string
	handler Handler
	logger  *slog.Logger

	enabled atomic.Bool

	// writeMutex serializes writes from the reader (disable
	// acknowledgements) and from callers (close, ping).
	writeMutex sync.Mutex

	// requestMutex allows one outstanding request at a time, so the
	// reader can route every reply to the single waiter.
	requestMutex sync.Mutex
	replies      chan message

	readerDone chan struct{}
	readErr    error
	closeOnce  sync.Once
	closeErr   error
}

// Open connects to seatd at socketPath and opens the caller's seat.
// handler may be nil.
func Open(ctx context.Context, socketPath string, handler Handler, logger *slog.Logger) (*Seat, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var dialer net.Dialer
	conn, err := dialer.DialContext(ctx, "unix", socketPath)
	if err != nil {
		return nil, fmt.Errorf("%w: connecting to seatd at %s: %w", ErrSeatUnavailable, socketPath, err)
	}
	stop := context.AfterFunc(ctx, func() { conn.Close() })
	defer stop()

	if err := writeMessage(conn, opOpenSeat, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: sending open request: %w", ErrSeatUnavailable, err)
	}
	reply, err := readMessage(conn)
	if err != nil {
		conn.Close()
		if ctx.Err() != nil {
			return nil, fmt.Errorf("%w: %w", ErrSeatUnavailable, ctx.Err())
		}
		return nil, fmt.Errorf("%w: reading open reply: %w", ErrSeatUnavailable, err)
	}

	switch reply.opcode {
	case opSeatOpened:
	case opError:
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrSeatUnavailable, replyError(reply))
	default:
		conn.Close()
		return nil, fmt.Errorf("%w: unexpected reply 0x%04x to open", ErrSeatUnavailable, reply.opcode)
	}
	name, err := decodeSeatName(reply.payload)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: %w", ErrSeatUnavailable, err)
	}

	if !stop() {
		// ctx fired after the reply arrived and has closed conn.
		return nil, fmt.Errorf("%w: %w", ErrSeatUnavailable, ctx.Err())
	}

	seat := &Seat{
		conn:       conn,
		name:       name,
		handler:    handler,
		logger:     logger,
		replies:    make(chan message, 1),
		readerDone: make(chan struct{}),
	}
	go seat.read()
	logger.Info("seat opened", "seat", name)
	return seat, nil
}

// Name returns the seat name reported by seatd.
func (s *Seat) Name() string {
	return s.name
}

// Enabled reports whether seatd last enabled the seat.
func (s *Seat) Enabled() bool {
	return s.enabled.Load()
}

// Ping round-trips a ping through seatd.
func (s *Seat) Ping(ctx context.Context) error {
	reply, err := s.request(ctx, opPing)
	if err != nil {
		return err
	}
	if reply.opcode != opPong {
		return fmt.Errorf("unexpected reply 0x%04x to ping", reply.opcode)
	}
	return nil
}

// Close releases the seat and disconnects. It is safe to call more
// than once; later calls return the first result.
func (s *Seat) Close(ctx context.Context) error {
	s.closeOnce.Do(func() {
		reply, err := s.request(ctx, opCloseSeat)
		switch {
		case err != nil:
			s.closeErr = fmt.Errorf("closing seat %s: %w", s.name, err)
		case reply.opcode != opSeatClosed:
			s.closeErr = fmt.Errorf("closing seat %s: unexpected reply 0x%04x", s.name, reply.opcode)
		default:
			s.logger.Info("seat closed", "seat", s.name)
		}
		s.conn.Close()
		<-s.readerDone
	})
	return s.closeErr
}

func (s *Seat) write(opcode uint16) error {
	s.writeMutex.Lock()
	defer s.writeMutex.Unlock()
	return writeMessage(s.conn, opcode, nil)
}

func (s *Seat) request(ctx context.Context, opcode uint16) (message, error) {
	s.requestMutex.Lock()
	defer s.requestMutex.Unlock()

	// A reply that arrived after an earlier request gave up.
	select {
	case <-s.replies:
	default:
	}

	if err := s.write(opcode); err != nil {
		return message{}, err
	}
	select {
	case reply := <-s.replies:
		if reply.opcode == opError {
			return message{}, replyError(reply)
		}
		return reply, nil
	case <-s.readerDone:
		return message{}, fmt.Errorf("seatd connection lost: %w", s.readErr)
	case <-ctx.Done():
		return message{}, ctx.Err()
	}
}

// read dispatches server messages until the connection closes. Events
// go to the handler; everything else is a reply to the pending request.
func (s *Seat) read() {
	defer close(s.readerDone)
	for {
		incoming, err := readMessage(s.conn)
		if err != nil {
			s.readErr = err
			return
		}
		switch incoming.opcode {
		case opSeatEnable:
			s.enabled.Store(true)
			s.logger.Info("seat enabled", "seat", s.name)
			s.deliver(EventEnable)
		case opSeatDisable:
			s.enabled.Store(false)
			s.logger.Info("seat disabled, acknowledging", "seat", s.name)
			s.deliver(EventDisable)
			if err := s.write(opDisableSeat); err != nil {
				s.logger.Error("acknowledging seat disable failed", "seat", s.name, "error", err)
			}
		default:
			select {
			case s.replies <- incoming:
			default:
				s.logger.Warn("unsolicited seatd message dropped", "opcode", fmt.Sprintf("0x%04x", incoming.opcode))
			}
		}
	}
}

func (s *Seat) deliver(event Event) {
	if s.handler != nil {
		s.handler(event)
	}
}

func replyError(reply message) error {
	errno, err := decodeErrno(reply.payload)
	if err != nil {
		return fmt.Errorf("seatd error: %w", err)
	}
	return fmt.Errorf("seatd error: %w", syscall.Errno(errno))
}
