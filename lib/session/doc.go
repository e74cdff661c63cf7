// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package session holds the coordinator's per-session state and the
// orchestrator that drives session bring-up and teardown.
//
// A [Session] has two inputs that may arrive in any order and from any
// goroutine: the readiness trigger, recorded in a [Latch], and the
// server's environment report, held in a single-capacity [Slot]. The
// bus handlers write them; the [Orchestrator] reads them.
//
// The orchestrator runs the fixed sequence
//
//	AwaitingReady → SpawningServer → AwaitingEnvironment →
//	PropagatingEnvironment → SessionActive → Draining → Terminated
//
// Readiness resolution strictly precedes spawning the server.
// Environment propagation strictly precedes starting the session
// target. Once the server has been spawned, stopping the target is
// unconditional: it happens whether the server exited cleanly, waiting
// for it failed, or propagation hit errors.
//
// Session-manager calls are best effort. Their failures are logged and
// never change the sequence.
package session
