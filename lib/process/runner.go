// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package process

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"
	"time"
)

// ErrEmptyCommand is returned when a command has no program name.
var ErrEmptyCommand = errors.New("empty command")

// Runner starts child processes.
type Runner interface {
	Start(ctx context.Context, argv []string) (Handle, error)
}

// Handle is a started child process.
type Handle interface {
	// Pid returns the child's process ID.
	Pid() int

	// Wait blocks until the child exits and returns its exit code.
	// The error is non-nil only when waiting failed; a child that ran
	// and exited non-zero reports its code with a nil error.
	Wait() (int, error)
}

// ExecRunner starts children with os/exec. The zero value inherits the
// parent's stdio and environment.
type ExecRunner struct {
	// Stdout and Stderr override the child's output streams when set.
	Stdout io.Writer
	Stderr io.Writer

	// Env, when non-nil, replaces the inherited environment.
	Env []string

	// GracePeriod, when positive, makes cancellation send SIGTERM and
	// escalate to SIGKILL only if the child is still running after
	// this long. Zero kills immediately.
	GracePeriod time.Duration
}

// Start launches argv[0] with the remaining elements as arguments. The
// child is stopped if ctx is cancelled before it exits.
func (r ExecRunner) Start(ctx context.Context, argv []string) (Handle, error) {
	if len(argv) == 0 || argv[0] == "" {
		return nil, ErrEmptyCommand
	}

	command := exec.CommandContext(ctx, argv[0], argv[1:]...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	if r.Stdout != nil {
		command.Stdout = r.Stdout
	}
	if r.Stderr != nil {
		command.Stderr = r.Stderr
	}
	if r.Env != nil {
		command.Env = r.Env
	}
	if r.GracePeriod > 0 {
		command.Cancel = func() error {
			return command.Process.Signal(syscall.SIGTERM)
		}
		command.WaitDelay = r.GracePeriod
	}

	if err := command.Start(); err != nil {
		return nil, fmt.Errorf("starting %s: %w", argv[0], err)
	}
	return &execHandle{command: command}, nil
}

type execHandle struct {
	command *exec.Cmd
}

func (h *execHandle) Pid() int {
	return h.command.Process.Pid
}

func (h *execHandle) Wait() (int, error) {
	err := h.command.Wait()
	if err == nil {
		return 0, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.Exited() {
		return exitErr.ExitCode(), nil
	}
	return -1, fmt.Errorf("waiting for %s: %w", h.command.Path, err)
}

// Run starts argv and waits for it to exit, returning its exit code.
func Run(ctx context.Context, runner Runner, argv []string) (int, error) {
	handle, err := runner.Start(ctx, argv)
	if err != nil {
		return -1, err
	}
	return handle.Wait()
}
