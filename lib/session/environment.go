// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

import (
	"log/slog"
	"os"
)

// DefaultBlockedVariables are the variables that describe the reporting
// process rather than the session, and so must not be pushed into the
// shared session manager.
var DefaultBlockedVariables = []string{"XAUTHORITY", "_", "SHELL", "SHLVL"}

// Filter returns a copy of environment without the blocked names. All
// other entries pass through unchanged.
func Filter(environment Environment, blocked []string) Environment {
	drop := make(map[string]struct{}, len(blocked))
	for _, name := range blocked {
		drop[name] = struct{}{}
	}
	filtered := make(Environment, len(environment))
	for name, value := range environment {
		if _, blocked := drop[name]; blocked {
			continue
		}
		filtered[name] = value
	}
	return filtered
}

// LookupFunc reads one variable. os.LookupEnv is the production
// implementation.
type LookupFunc func(name string) (string, bool)

// Capture reads each named variable through lookup. A variable that is
// not set is logged and left out of the result; it is not an error.
func Capture(names []string, lookup LookupFunc, logger *slog.Logger) Environment {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	captured := make(Environment, len(names))
	for _, name := range names {
		value, ok := lookup(name)
		if !ok {
			logger.Error("environment variable not set, omitting from report", "variable", name)
			continue
		}
		captured[name] = value
	}
	return captured
}
