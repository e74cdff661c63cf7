// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package seat acquires the display and input seat from seatd for the
// lifetime of a session command.
//
// The client speaks seatd's native socket protocol directly: each
// message is a 4-byte header {opcode uint16, size uint16} in host byte
// order followed by size bytes of payload. Client requests use small
// opcodes; server messages set the high bit. While the seat is held,
// seatd may ask the client to release it (a VT switch, another session
// taking over) with a disable event, which the client must acknowledge
// before seatd can hand the seat on. [Seat] acknowledges these from a
// background reader so the session command never has to.
//
// [Booster] wraps a shell command in that acquisition: open the seat,
// run the command, close the seat.
package seat
