// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// Claim is an exclusive hold on a well-known name. It lasts until
// Release or until the process exits.
type Claim struct {
	name string
	file *os.File
}

// Name returns the claimed name.
func (c *Claim) Name() string {
	return c.name
}

// Release gives the name up. Releasing twice is a no-op.
func (c *Claim) Release() error {
	if c.file == nil {
		return nil
	}
	file := c.file
	c.file = nil
	// Closing the descriptor drops the flock. The lock file itself
	// stays: unlinking it would let a concurrent claimant lock an inode
	// that a third claimant can no longer see.
	if err := file.Close(); err != nil {
		return fmt.Errorf("releasing %s: %w", c.name, err)
	}
	return nil
}

// Claim takes the well-known name without blocking. It returns a
// *NameInUseError (matching ErrNameInUse) if the name is held, whether
// by another process or by an earlier claim in this one.
func (c *Conn) Claim(name string) (*Claim, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	lockPath := c.lockPath(name)
	file, err := os.OpenFile(lockPath, os.O_RDWR|os.O_CREATE, 0o600)
	if err != nil {
		return nil, fmt.Errorf("opening lock for %s: %w", name, err)
	}

	if err := unix.Flock(int(file.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		file.Close()
		if errors.Is(err, unix.EWOULDBLOCK) {
			return nil, &NameInUseError{Name: name, OwnerPID: readOwnerPID(lockPath)}
		}
		return nil, fmt.Errorf("locking %s: %w", name, err)
	}

	// Record the owner for diagnostics. Failure here does not affect
	// the claim.
	if err := file.Truncate(0); err == nil {
		_, _ = file.WriteAt([]byte(strconv.Itoa(os.Getpid())+"\n"), 0)
	}

	return &Claim{name: name, file: file}, nil
}

func readOwnerPID(lockPath string) int {
	data, err := os.ReadFile(lockPath)
	if err != nil {
		return 0
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0
	}
	return pid
}
