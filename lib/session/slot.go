// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"sync/atomic"
)

// Slot is filled at most once. Offer never blocks: the first offer is
// kept and every later one is discarded, even after the value has been
// received. The sender is an external process and must not be stalled
// or failed by a receiver that is slow or already satisfied.
type Slot[T any] struct {
	filled atomic.Bool
	values chan T
}

// NewSlot returns an empty slot.
func NewSlot[T any]() *Slot[T] {
	return &Slot[T]{values: make(chan T, 1)}
}

// Offer stores v if nothing has been offered before and reports whether
// it was kept.
func (s *Slot[T]) Offer(v T) bool {
	if !s.filled.CompareAndSwap(false, true) {
		return false
	}
	// Capacity one and a single winning sender: this cannot block.
	s.values <- v
	return true
}

// Filled reports whether a value has been offered.
func (s *Slot[T]) Filled() bool {
	return s.filled.Load()
}

// Receive takes the stored value, blocking until one is offered or ctx
// is done. Only one Receive ever succeeds.
func (s *Slot[T]) Receive(ctx context.Context) (T, error) {
	select {
	case v := <-s.values:
		return v, nil
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// TryReceive takes the stored value if one is waiting, without
// blocking.
func (s *Slot[T]) TryReceive() (T, bool) {
	select {
	case v := <-s.values:
		return v, true
	default:
		var zero T
		return zero, false
	}
}
