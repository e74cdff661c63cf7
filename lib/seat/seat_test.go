// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package seat

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"net"
	"path/filepath"
	"reflect"
	"sync"
	"syscall"
	"testing"
	"time"

	"github.com/stardustxr/launchpad/lib/process"
	"github.com/stardustxr/launchpad/lib/testutil"
)

const testTimeout = 5 * time.Second

// fakeSeatd answers the seatd protocol on a temp socket. Every opcode
// it receives is forwarded to received.
type fakeSeatd struct {
	socketPath string
	seatName   string
	refuse     syscall.Errno
	enable     bool
	received   chan uint16

	mutex sync.Mutex
	conn  net.Conn
}

func startFakeSeatd(t *testing.T, configure func(*fakeSeatd)) *fakeSeatd {
	t.Helper()
	server := &fakeSeatd{
		socketPath: filepath.Join(testutil.SocketDir(t), "seatd.sock"),
		seatName:   "seat0",
		received:   make(chan uint16, 32),
	}
	if configure != nil {
		configure(server)
	}
	listener, err := net.Listen("unix", server.socketPath)
	if err != nil {
		t.Fatalf("Listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			server.mutex.Lock()
			server.conn = conn
			server.mutex.Unlock()
			go server.serve(conn)
		}
	}()
	return server
}

func (f *fakeSeatd) serve(conn net.Conn) {
	defer conn.Close()
	for {
		request, err := readMessage(conn)
		if err != nil {
			return
		}
		f.received <- request.opcode
		switch request.opcode {
		case opOpenSeat:
			if f.refuse != 0 {
				payload := make([]byte, 4)
				binary.NativeEndian.PutUint32(payload, uint32(f.refuse))
				writeMessage(conn, opError, payload)
				return
			}
			name := append([]byte(f.seatName), 0)
			payload := make([]byte, 2, 2+len(name))
			binary.NativeEndian.PutUint16(payload, uint16(len(name)))
			writeMessage(conn, opSeatOpened, append(payload, name...))
			if f.enable {
				writeMessage(conn, opSeatEnable, nil)
			}
		case opCloseSeat:
			writeMessage(conn, opSeatClosed, nil)
		case opPing:
			writeMessage(conn, opPong, nil)
		}
	}
}

// push sends an unsolicited server event on the open connection.
func (f *fakeSeatd) push(t *testing.T, opcode uint16) {
	t.Helper()
	f.mutex.Lock()
	defer f.mutex.Unlock()
	if f.conn == nil {
		t.Fatal("no client connected")
	}
	if err := writeMessage(f.conn, opcode, nil); err != nil {
		t.Fatalf("push 0x%04x: %v", opcode, err)
	}
}

func (f *fakeSeatd) expect(t *testing.T, want uint16) {
	t.Helper()
	got := testutil.RequireReceive(t, f.received, testTimeout, "waiting for opcode 0x%04x", want)
	if got != want {
		t.Fatalf("received opcode 0x%04x, want 0x%04x", got, want)
	}
}

func TestOpenPingClose(t *testing.T) {
	server := startFakeSeatd(t, func(f *fakeSeatd) { f.enable = true })
	events := make(chan Event, 4)

	seat, err := Open(context.Background(), server.socketPath, func(e Event) { events <- e }, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	server.expect(t, opOpenSeat)
	if seat.Name() != "seat0" {
		t.Errorf("Name = %q, want %q", seat.Name(), "seat0")
	}
	if event := testutil.RequireReceive(t, events, testTimeout); event != EventEnable {
		t.Errorf("event = %s, want enable", event)
	}
	if !seat.Enabled() {
		t.Error("seat not enabled after enable event")
	}

	if err := seat.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
	server.expect(t, opPing)

	if err := seat.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	server.expect(t, opCloseSeat)
	if err := seat.Close(context.Background()); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	testutil.RequireQuiet(t, server.received, 50*time.Millisecond, "second Close sent another request")
}

func TestDisableIsAcknowledged(t *testing.T) {
	server := startFakeSeatd(t, func(f *fakeSeatd) { f.enable = true })
	events := make(chan Event, 4)

	seat, err := Open(context.Background(), server.socketPath, func(e Event) { events <- e }, nil)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer seat.Close(context.Background())
	server.expect(t, opOpenSeat)
	testutil.RequireReceive(t, events, testTimeout, "waiting for enable")

	server.push(t, opSeatDisable)
	if event := testutil.RequireReceive(t, events, testTimeout); event != EventDisable {
		t.Fatalf("event = %s, want disable", event)
	}
	server.expect(t, opDisableSeat)
	if seat.Enabled() {
		t.Error("seat still enabled after disable event")
	}

	server.push(t, opSeatEnable)
	if event := testutil.RequireReceive(t, events, testTimeout); event != EventEnable {
		t.Fatalf("event = %s, want enable", event)
	}
}

func TestOpenRefusedBySeatd(t *testing.T) {
	server := startFakeSeatd(t, func(f *fakeSeatd) { f.refuse = syscall.EBUSY })

	_, err := Open(context.Background(), server.socketPath, nil, nil)
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("Open error = %v, want ErrSeatUnavailable", err)
	}
	if !errors.Is(err, syscall.EBUSY) {
		t.Errorf("Open error = %v, want wrapping EBUSY", err)
	}
}

func TestOpenWithoutSeatd(t *testing.T) {
	socketPath := filepath.Join(testutil.SocketDir(t), "absent.sock")

	_, err := Open(context.Background(), socketPath, nil, nil)
	if !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("Open error = %v, want ErrSeatUnavailable", err)
	}
}

func TestDecodeSeatName(t *testing.T) {
	payload := []byte{0, 0, 's', 'e', 'a', 't', '1', 0}
	binary.NativeEndian.PutUint16(payload, 6)

	name, err := decodeSeatName(payload)
	if err != nil {
		t.Fatalf("decodeSeatName: %v", err)
	}
	if name != "seat1" {
		t.Errorf("name = %q, want %q", name, "seat1")
	}

	binary.NativeEndian.PutUint16(payload, 40)
	if _, err := decodeSeatName(payload); err == nil {
		t.Error("decodeSeatName accepted a length past the payload")
	}
}

func TestReadMessageRejectsOversizedPayload(t *testing.T) {
	var buffer bytes.Buffer
	header := make([]byte, headerSize)
	binary.NativeEndian.PutUint16(header[0:2], opSeatOpened)
	binary.NativeEndian.PutUint16(header[2:4], maxPayload+1)
	buffer.Write(header)

	if _, err := readMessage(&buffer); err == nil {
		t.Fatal("readMessage accepted an oversized payload")
	}
}

type recordingRunner struct {
	mutex    sync.Mutex
	commands [][]string
	code     int
}

func (r *recordingRunner) Start(ctx context.Context, argv []string) (process.Handle, error) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.commands = append(r.commands, argv)
	return exitedHandle(r.code), nil
}

type exitedHandle int

func (h exitedHandle) Pid() int { return 1 }

func (h exitedHandle) Wait() (int, error) { return int(h), nil }

func TestBoosterRunsCommandUnderSeat(t *testing.T) {
	server := startFakeSeatd(t, nil)
	runner := &recordingRunner{code: 4}
	booster := &Booster{SocketPath: server.socketPath, Shell: "/bin/sh", Runner: runner}

	code, err := booster.Run(context.Background(), []string{"stardust-xr-server", "-o", "1"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 4 {
		t.Errorf("exit code = %d, want 4", code)
	}
	want := [][]string{{"/bin/sh", "-c", "stardust-xr-server -o 1"}}
	if !reflect.DeepEqual(runner.commands, want) {
		t.Errorf("commands = %v, want %v", runner.commands, want)
	}
	server.expect(t, opOpenSeat)
	server.expect(t, opCloseSeat)
}

func TestBoosterExecutesShell(t *testing.T) {
	server := startFakeSeatd(t, nil)
	var output bytes.Buffer
	booster := &Booster{
		SocketPath: server.socketPath,
		Shell:      "/bin/sh",
		Runner:     process.ExecRunner{Stdout: &output},
	}

	code, err := booster.Run(context.Background(), []string{"echo", "boosted;", "exit", "3"})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3", code)
	}
	if output.String() != "boosted\n" {
		t.Errorf("output = %q, want %q", output.String(), "boosted\n")
	}
}

func TestBoosterWithoutSeatRunsNothing(t *testing.T) {
	runner := &recordingRunner{}
	booster := &Booster{
		SocketPath: filepath.Join(testutil.SocketDir(t), "absent.sock"),
		Runner:     runner,
	}

	if _, err := booster.Run(context.Background(), []string{"true"}); !errors.Is(err, ErrSeatUnavailable) {
		t.Fatalf("Run error = %v, want ErrSeatUnavailable", err)
	}
	if len(runner.commands) != 0 {
		t.Errorf("ran %v without a seat", runner.commands)
	}
}
