// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package seat

import (
	"encoding/binary"
	"fmt"
	"io"
)

// DefaultSocketPath is where seatd listens unless SEATD_SOCK says
// otherwise.
const DefaultSocketPath = "/run/seatd.sock"

const serverBit = 1 << 15

// Client requests.
const (
	opOpenSeat    uint16 = 1
	opCloseSeat   uint16 = 2
	opDisableSeat uint16 = 5
	opPing        uint16 = 7
)

// Server messages.
const (
	opSeatOpened  uint16 = serverBit | 1
	opSeatClosed  uint16 = serverBit | 2
	opSeatDisable uint16 = serverBit | 5
	opSeatEnable  uint16 = serverBit | 6
	opPong        uint16 = serverBit | 7
	opError       uint16 = 0x7FFF
)

const headerSize = 4

// maxPayload bounds what a single message may carry. Seat names are
// short and every other payload is a fixed-size integer.
const maxPayload = 4096

type message struct {
	opcode  uint16
	payload []byte
}

func readMessage(r io.Reader) (message, error) {
	var header [headerSize]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return message{}, err
	}
	opcode := binary.NativeEndian.Uint16(header[0:2])
	size := binary.NativeEndian.Uint16(header[2:4])
	if size > maxPayload {
		return message{}, fmt.Errorf("seatd message 0x%04x claims %d payload bytes", opcode, size)
	}
	payload := make([]byte, size)
	if _, err := io.ReadFull(r, payload); err != nil {
		return message{}, fmt.Errorf("reading seatd message 0x%04x payload: %w", opcode, err)
	}
	return message{opcode: opcode, payload: payload}, nil
}

func writeMessage(w io.Writer, opcode uint16, payload []byte) error {
	buffer := make([]byte, headerSize+len(payload))
	binary.NativeEndian.PutUint16(buffer[0:2], opcode)
	binary.NativeEndian.PutUint16(buffer[2:4], uint16(len(payload)))
	copy(buffer[headerSize:], payload)
	_, err := w.Write(buffer)
	return err
}

// decodeSeatName extracts the name from a seat-opened payload: a
// uint16 length followed by that many bytes, NUL-terminated.
func decodeSeatName(payload []byte) (string, error) {
	if len(payload) < 2 {
		return "", fmt.Errorf("seat opened payload is %d bytes", len(payload))
	}
	length := int(binary.NativeEndian.Uint16(payload[0:2]))
	if len(payload)-2 < length {
		return "", fmt.Errorf("seat name length %d exceeds payload", length)
	}
	name := payload[2 : 2+length]
	for len(name) > 0 && name[len(name)-1] == 0 {
		name = name[:len(name)-1]
	}
	return string(name), nil
}

// decodeErrno extracts the int32 errno of an error message.
func decodeErrno(payload []byte) (int32, error) {
	if len(payload) < 4 {
		return 0, fmt.Errorf("error payload is %d bytes", len(payload))
	}
	return int32(binary.NativeEndian.Uint32(payload[0:4])), nil
}
