// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package session

// Environment is a mapping from variable name to value, as reported by
// the server once it has initialized.
type Environment map[string]string

// Session is the unit of coordination: exactly one per coordinator
// process.
type Session struct {
	// Ready is set when the runtime is known to be ready, either by a
	// direct signal or by the presence probe.
	Ready *Latch

	// Environment receives the server's first environment report.
	// Later reports are dropped.
	Environment *Slot[Environment]
}

// New returns a session with an unset latch and an empty slot.
func New() *Session {
	return &Session{
		Ready:       NewLatch(),
		Environment: NewSlot[Environment](),
	}
}

// MarkReady records the readiness trigger. It reports whether this was
// the first time.
func (s *Session) MarkReady() bool {
	return s.Ready.Set()
}

// ReportEnvironment records an environment report. It reports whether
// the report was kept; a report arriving after the first is dropped
// without error.
func (s *Session) ReportEnvironment(environment Environment) bool {
	return s.Environment.Offer(environment)
}
