// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sync"
)

// Latch is a one-way flag that can be waited on. Setting it more than
// once is a no-op, so a direct readiness signal arriving after the
// presence probe already resolved readiness is harmless.
type Latch struct {
	once sync.Once
	done chan struct{}
}

// NewLatch returns an unset latch.
func NewLatch() *Latch {
	return &Latch{done: make(chan struct{})}
}

// Set marks the latch and wakes every waiter, past and future. It
// reports whether this call was the one that set it.
func (l *Latch) Set() bool {
	first := false
	l.once.Do(func() {
		close(l.done)
		first = true
	})
	return first
}

// IsSet reports whether Set has been called.
func (l *Latch) IsSet() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}

// Done is closed once the latch is set.
func (l *Latch) Done() <-chan struct{} {
	return l.done
}

// Wait blocks until the latch is set or ctx is done.
func (l *Latch) Wait(ctx context.Context) error {
	select {
	case <-l.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
