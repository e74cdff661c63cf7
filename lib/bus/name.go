// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// maxNameLength keeps "<directory>/<name>.sock" under the 108-byte
// sun_path limit for typical runtime directories.
const maxNameLength = 64

// ValidateName checks that name is a well-known bus name: at least two
// dot-separated elements, each non-empty, made of ASCII letters,
// digits, '_' and '-', and not starting with a digit.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("bus name is empty")
	}
	if len(name) > maxNameLength {
		return fmt.Errorf("bus name %q exceeds %d bytes", name, maxNameLength)
	}
	elements := strings.Split(name, ".")
	if len(elements) < 2 {
		return fmt.Errorf("bus name %q needs at least two elements", name)
	}
	for _, element := range elements {
		if element == "" {
			return fmt.Errorf("bus name %q has an empty element", name)
		}
		if element[0] >= '0' && element[0] <= '9' {
			return fmt.Errorf("bus name %q has an element starting with a digit", name)
		}
		for _, r := range element {
			if !isNameRune(r) {
				return fmt.Errorf("bus name %q contains invalid character %q", name, r)
			}
		}
	}
	return nil
}

// ValidatePath checks that path is an object path: "/" or a sequence of
// "/"-prefixed non-empty elements of [A-Za-z0-9_].
func ValidatePath(path string) error {
	if path == "/" {
		return nil
	}
	if !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		return fmt.Errorf("object path %q must start and not end with '/'", path)
	}
	for _, element := range strings.Split(path[1:], "/") {
		if element == "" {
			return fmt.Errorf("object path %q has an empty element", path)
		}
		for _, r := range element {
			if !isNameRune(r) || r == '-' {
				return fmt.Errorf("object path %q contains invalid character %q", path, r)
			}
		}
	}
	return nil
}

func isNameRune(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9') || r == '_' || r == '-'
}

// DefaultDirectory returns the bus directory for the current user:
// $XDG_RUNTIME_DIR/launchpad, or a per-uid directory under the system
// temp directory when XDG_RUNTIME_DIR is unset.
func DefaultDirectory() string {
	if runtime := os.Getenv("XDG_RUNTIME_DIR"); runtime != "" {
		return filepath.Join(runtime, "launchpad")
	}
	return filepath.Join(os.TempDir(), "launchpad-"+strconv.Itoa(os.Getuid()))
}

func (c *Conn) socketPath(name string) string {
	return filepath.Join(c.directory, name+".sock")
}

func (c *Conn) lockPath(name string) string {
	return filepath.Join(c.directory, name+".lock")
}
