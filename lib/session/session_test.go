// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stardustxr/launchpad/lib/testutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLatchSetOnce(t *testing.T) {
	latch := NewLatch()
	if latch.IsSet() {
		t.Fatal("new latch is set")
	}
	if !latch.Set() {
		t.Fatal("first Set reported false")
	}
	if latch.Set() {
		t.Error("second Set reported true")
	}
	if !latch.IsSet() {
		t.Error("IsSet = false after Set")
	}
	if err := latch.Wait(context.Background()); err != nil {
		t.Errorf("Wait after Set: %v", err)
	}
}

func TestLatchWakesEarlyWaiter(t *testing.T) {
	latch := NewLatch()
	woke := make(chan error, 1)
	go func() { woke <- latch.Wait(context.Background()) }()

	testutil.RequireQuiet(t, woke, 50*time.Millisecond, "waiter returned before Set")
	latch.Set()
	if err := testutil.RequireReceive(t, woke, 5*time.Second, "waiter wakes"); err != nil {
		t.Fatalf("Wait: %v", err)
	}
}

func TestLatchWaitCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewLatch().Wait(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Wait error = %v, want context.Canceled", err)
	}
}

func TestSlotKeepsOnlyFirstOffer(t *testing.T) {
	slot := NewSlot[Environment]()
	if !slot.Offer(Environment{"FIRST": "1"}) {
		t.Fatal("first Offer dropped")
	}
	if slot.Offer(Environment{"SECOND": "2"}) {
		t.Error("second Offer kept while full")
	}

	got, err := slot.Receive(context.Background())
	if err != nil {
		t.Fatalf("Receive: %v", err)
	}
	if got["FIRST"] != "1" || len(got) != 1 {
		t.Errorf("Receive = %v, want the first report", got)
	}

	// Drained but already filled once: still dropped.
	if slot.Offer(Environment{"THIRD": "3"}) {
		t.Error("Offer after Receive was kept")
	}
}

func TestSlotOfferNeverBlocks(t *testing.T) {
	slot := NewSlot[int]()
	done := make(chan struct{})
	go func() {
		defer close(done)
		var group sync.WaitGroup
		for i := 0; i < 100; i++ {
			group.Add(1)
			go func() {
				defer group.Done()
				slot.Offer(i)
			}()
		}
		group.Wait()
	}()
	testutil.RequireClosed(t, done, 5*time.Second, "concurrent offers returned")
	if !slot.Filled() {
		t.Error("slot not filled after offers")
	}
}

func TestSlotReceiveCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewSlot[int]().Receive(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Receive error = %v, want context.Canceled", err)
	}
}

func TestSlotTryReceive(t *testing.T) {
	slot := NewSlot[int]()
	if _, ok := slot.TryReceive(); ok {
		t.Fatal("TryReceive on an empty slot succeeded")
	}
	slot.Offer(7)
	if got, ok := slot.TryReceive(); !ok || got != 7 {
		t.Errorf("TryReceive = %d, %v, want 7, true", got, ok)
	}
	if _, ok := slot.TryReceive(); ok {
		t.Error("value received twice")
	}
}

func TestSessionDuplicateSignals(t *testing.T) {
	current := New()
	if !current.MarkReady() {
		t.Error("first MarkReady reported false")
	}
	if current.MarkReady() {
		t.Error("duplicate MarkReady reported true")
	}
	if !current.ReportEnvironment(Environment{"A": "1"}) {
		t.Error("first report dropped")
	}
	if current.ReportEnvironment(Environment{"B": "2"}) {
		t.Error("second report kept")
	}
}
