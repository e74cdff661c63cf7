// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// Conn is a process's connection to a bus directory. It is safe for
// concurrent use: proxies may be constructed while exported objects are
// serving calls.
type Conn struct {
	directory string
	logger    *slog.Logger

	mutex     sync.Mutex
	endpoints map[string]*Endpoint
	closed    bool
}

// Open connects to the bus rooted at directory, creating it with mode
// 0700 if it does not exist.
func Open(directory string, logger *slog.Logger) (*Conn, error) {
	if directory == "" {
		return nil, fmt.Errorf("bus directory is empty")
	}
	if err := os.MkdirAll(directory, 0o700); err != nil {
		return nil, fmt.Errorf("creating bus directory %s: %w", directory, err)
	}
	info, err := os.Stat(directory)
	if err != nil {
		return nil, fmt.Errorf("inspecting bus directory %s: %w", directory, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("bus directory %s is not a directory", directory)
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Conn{
		directory: directory,
		logger:    logger,
		endpoints: make(map[string]*Endpoint),
	}, nil
}

// Session opens the bus in DefaultDirectory.
func Session(logger *slog.Logger) (*Conn, error) {
	return Open(DefaultDirectory(), logger)
}

// Directory returns the bus directory.
func (c *Conn) Directory() string {
	return c.directory
}

// Close releases every name this connection exported. Proxies created
// from the connection keep working; they hold no state.
func (c *Conn) Close() error {
	c.mutex.Lock()
	c.closed = true
	endpoints := make([]*Endpoint, 0, len(c.endpoints))
	for _, endpoint := range c.endpoints {
		endpoints = append(endpoints, endpoint)
	}
	c.mutex.Unlock()

	var errs []error
	for _, endpoint := range endpoints {
		if err := endpoint.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (c *Conn) track(endpoint *Endpoint) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return fmt.Errorf("bus connection closed")
	}
	c.endpoints[endpoint.name] = endpoint
	return nil
}

func (c *Conn) untrack(endpoint *Endpoint) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.endpoints[endpoint.name] == endpoint {
		delete(c.endpoints, endpoint.name)
	}
}
