// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package bus is the per-user session bus the launchpad processes
// rendezvous on.
//
// A bus is a directory private to the user (by default
// $XDG_RUNTIME_DIR/launchpad). Every well-known name N on the bus is
// backed by two files:
//
//   - N.lock, held with an exclusive flock(2) by the owning process.
//     The kernel releases the lock when the owner exits or crashes, so
//     a name claim can never outlive its process.
//   - N.sock, the Unix stream socket the owner serves its objects on.
//
// [Conn.Claim] takes the lock without blocking and fails with
// [ErrNameInUse] when another process (or another claim in this
// process) already holds it. Claiming is the only mutual-exclusion
// mechanism: "is a coordinator already running" is answered by trying
// to become one.
//
// [Conn.Export] claims a name and serves one or more [Object] values on
// it. Each accepted connection carries exactly one call and is handled
// on its own goroutine, so method handlers run independently of
// whatever the owning process is blocked on.
//
// [Conn.NewProxy] binds to a remote object. Construction pings the
// object; a name nobody owns, a stale socket left by a crashed owner,
// and an owner that does not serve the requested path all report
// [ErrEndpointAbsent], which callers treat as "peer not present"
// rather than as a failure.
//
// # Wire format
//
// One CBOR request per connection:
//
//	{path, interface, member, body}
//
// answered by one CBOR response:
//
//	{ok, error_name, error, body}
//
// body is the CBOR encoding of the method's argument or return value
// and is omitted when empty.
package bus
