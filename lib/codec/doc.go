// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package codec provides the CBOR encoding used on the launchpad bus.
//
// Every bus request and response is a single self-delimiting CBOR
// value, so no framing layer sits between the socket and the decoder.
// The encoder uses Core Deterministic Encoding (RFC 8949 §4.2): sorted
// map keys, smallest integer encoding, no indefinite-length items.
//
// For buffer-oriented operations (method bodies):
//
//	data, err := codec.Marshal(value)
//	err = codec.Unmarshal(data, &value)
//
// For stream-oriented operations (bus connections):
//
//	encoder := codec.NewEncoder(conn)
//	decoder := codec.NewDecoder(conn)
//
// Wire types carry `cbor` struct tags. Nothing in this module serializes
// those types as JSON.
package codec
