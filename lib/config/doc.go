// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package config provides YAML configuration loading for launchpad.
//
// Configuration comes from at most one file, named by the --config
// flag or the LAUNCHPAD_CONFIG environment variable. Unlike most
// services launchpad must work with no file at all: it runs inside a
// login session before anything else is set up, so a missing path
// means [Default] values, not an error. There is no automatic file
// discovery.
//
// After the file is merged over the defaults, a small fixed set of
// environment variables override individual fields (see the env tags
// on [Config]), and ${VAR} / ${VAR:-default} patterns in path fields
// are expanded.
//
// Key exports:
//
//   - [Config] -- Bus, Session, Seat, and Log sections
//   - [Default] -- the built-in configuration
//   - [Load] and [LoadFile] -- the two entry points for loading
package config
