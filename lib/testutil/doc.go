// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for launchpad packages.
//
// [SocketDir] creates a short temporary directory for bus sockets. Unix
// domain socket paths are limited to 108 bytes, and t.TempDir() paths
// under deeply nested build directories routinely exceed that.
//
// [RequireReceive], [RequireClosed], and [RequireQuiet]
// wrap the select-with-timeout pattern so tests that wait on goroutines
// never hang the suite when the code under test deadlocks.
//
// [UniqueID] produces distinct identifiers for tests that share a bus
// directory.
//
// All helpers call t.Fatalf on failure.
package testutil
