// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package cli provides the command-line framework for the launchpad
// binary.
//
// The central type is [Command], which represents a named subcommand with
// optional nested [Command.Subcommands], a [pflag.FlagSet] factory, and a
// Run function. Commands are assembled into a tree in cmd/launchpad and
// dispatched via [Command.Execute], which handles flag parsing,
// subcommand routing, and structured help output with examples.
//
// Several launchpad commands take another program's command line as
// their arguments. Those commands disable interspersed flag parsing so
// the child's flags are passed through untouched, and read
// [Command.ArgsLenAtDash] to tell "launchpad igniter" from
// "launchpad igniter --".
//
// When a user types an unknown subcommand or flag, the framework computes
// Levenshtein edit distance against all known names and suggests the
// closest match (threshold: distance <= 3).
package cli
