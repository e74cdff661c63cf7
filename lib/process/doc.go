// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package process is the "run a command, obtain its exit status"
// primitive shared by the coordinator, the fallback runner, the
// session-manager client, and the booster.
//
// [Runner] starts a child and returns a [Handle] whose Wait reports
// the exit status. A non-zero exit is a status, not an error: Wait
// returns an error only when the wait itself fails (the child could
// not be reaped, or the context killed it). [Run] is the start-and-wait
// shorthand for commands whose output the caller does not need.
//
// [Fatal] is the entrypoint error handler for main(), used when the
// structured logger may not be initialized.
package process
