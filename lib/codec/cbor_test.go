// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package codec

import (
	"bytes"
	"testing"
)

type sampleCall struct {
	Path   string `cbor:"path"`
	Member string `cbor:"member"`
	Count  int    `cbor:"count,omitempty"`
}

func TestMarshalDeterministicMapOrder(t *testing.T) {
	// Map iteration order is random; the encoded bytes must not be.
	environment := map[string]string{
		"WAYLAND_DISPLAY": "wayland-1",
		"DISPLAY":         ":1",
		"FOO":             "bar",
		"XDG_SESSION_ID":  "3",
	}

	first, err := Marshal(environment)
	if err != nil {
		t.Fatalf("first Marshal: %v", err)
	}
	for i := 0; i < 20; i++ {
		again, err := Marshal(environment)
		if err != nil {
			t.Fatalf("Marshal: %v", err)
		}
		if !bytes.Equal(first, again) {
			t.Fatalf("deterministic encoding violated: %x != %x", first, again)
		}
	}
}

func TestStreamCarriesConsecutiveValues(t *testing.T) {
	calls := []sampleCall{
		{Path: "/org/stardustxr/LaunchPad", Member: "xr_runtime_ready"},
		{Path: "/org/stardustxr/LaunchPad", Member: "stardust_server_started", Count: 3},
	}

	var buffer bytes.Buffer
	encoder := NewEncoder(&buffer)
	for _, call := range calls {
		if err := encoder.Encode(call); err != nil {
			t.Fatalf("Encode: %v", err)
		}
	}

	decoder := NewDecoder(&buffer)
	for i, want := range calls {
		var got sampleCall
		if err := decoder.Decode(&got); err != nil {
			t.Fatalf("Decode call %d: %v", i, err)
		}
		if got != want {
			t.Errorf("call %d: got %+v, want %+v", i, got, want)
		}
	}
}

func TestRawMessageDefersDecoding(t *testing.T) {
	type envelope struct {
		Member string     `cbor:"member"`
		Body   RawMessage `cbor:"body,omitempty"`
	}

	body, err := Marshal(map[string]string{"FOO": "bar"})
	if err != nil {
		t.Fatalf("Marshal body: %v", err)
	}
	data, err := Marshal(envelope{Member: "stardust_server_started", Body: body})
	if err != nil {
		t.Fatalf("Marshal envelope: %v", err)
	}

	var decoded envelope
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal envelope: %v", err)
	}
	var environment map[string]string
	if err := Unmarshal(decoded.Body, &environment); err != nil {
		t.Fatalf("Unmarshal body: %v", err)
	}
	if environment["FOO"] != "bar" || len(environment) != 1 {
		t.Errorf("body = %v, want map[FOO:bar]", environment)
	}
}

func TestUnmarshalAnyUsesStringKeys(t *testing.T) {
	data, err := Marshal(map[string]any{"ok": true})
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var decoded any
	if err := Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded.(map[string]any); !ok {
		t.Errorf("decoded type = %T, want map[string]any", decoded)
	}
}

func TestUnmarshalInvalidCBOR(t *testing.T) {
	var call sampleCall
	if err := Unmarshal([]byte{0xFF, 0xFE, 0xFD}, &call); err == nil {
		t.Error("Unmarshal should reject invalid CBOR")
	}
}
