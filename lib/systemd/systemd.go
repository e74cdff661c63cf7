// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package systemd drives the per-user service manager through the
// systemctl CLI. Every command targets the user instance via --user;
// unit start and stop are queued with --no-block so the caller never
// waits on unit activation.
package systemd

import (
	"context"
	"fmt"
	"strings"

	"github.com/stardustxr/launchpad/lib/process"
)

// DefaultBinary is the systemctl executable looked up on PATH.
const DefaultBinary = "systemctl"

// CommandError is a systemctl invocation that exited non-zero.
type CommandError struct {
	Args     []string
	ExitCode int
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("systemctl --user %s exited with code %d", strings.Join(e.Args, " "), e.ExitCode)
}

// UserManager is the user service manager. It satisfies the session
// package's Manager interface.
type UserManager struct {
	binary string
	runner process.Runner
}

// NewUserManager returns a manager that runs binary (DefaultBinary when
// empty) through runner (process.ExecRunner when nil).
func NewUserManager(binary string, runner process.Runner) *UserManager {
	if binary == "" {
		binary = DefaultBinary
	}
	if runner == nil {
		runner = process.ExecRunner{}
	}
	return &UserManager{binary: binary, runner: runner}
}

// SetEnvironment sets name=value in the manager's environment, where
// units started afterwards inherit it.
func (m *UserManager) SetEnvironment(ctx context.Context, name, value string) error {
	if name == "" || strings.ContainsRune(name, '=') {
		return fmt.Errorf("invalid environment variable name %q", name)
	}
	return m.Run(ctx, "set-environment", name+"="+value)
}

// Start queues a start job for unit.
func (m *UserManager) Start(ctx context.Context, unit string) error {
	return m.Run(ctx, "start", "--no-block", unit)
}

// Stop queues a stop job for unit.
func (m *UserManager) Stop(ctx context.Context, unit string) error {
	return m.Run(ctx, "stop", "--no-block", unit)
}

// Run executes "systemctl --user <args>" and waits for it. The child
// inherits stderr, so systemctl's own diagnostics reach the log
// alongside the returned error.
func (m *UserManager) Run(ctx context.Context, args ...string) error {
	argv := append([]string{m.binary, "--user"}, args...)
	code, err := process.Run(ctx, m.runner, argv)
	if err != nil {
		return fmt.Errorf("systemctl --user %s: %w", strings.Join(args, " "), err)
	}
	if code != 0 {
		return &CommandError{Args: args, ExitCode: code}
	}
	return nil
}
