// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// EnvConfigPath names the config file when --config is not given.
const EnvConfigPath = "LAUNCHPAD_CONFIG"

// Config is the launchpad configuration.
type Config struct {
	// Bus configures where well-known names live.
	Bus BusConfig `yaml:"bus"`

	// Session configures the coordinator's session handling.
	Session SessionConfig `yaml:"session"`

	// Seat configures the booster's seat acquisition.
	Seat SeatConfig `yaml:"seat"`

	// Log configures command logging.
	Log LogConfig `yaml:"log"`
}

// BusConfig configures the IPC bus.
type BusConfig struct {
	// Directory holds the bus's sockets and name locks. Every
	// participant of one session must agree on it. Empty selects the
	// per-user default: ${XDG_RUNTIME_DIR}/launchpad, or a per-uid
	// directory under the system temp dir.
	Directory string `yaml:"directory" env:"LAUNCHPAD_BUS_DIR"`
}

// SessionConfig configures the coordinator.
type SessionConfig struct {
	// Target is the session-manager unit started once the server's
	// environment has been propagated.
	// Default: stardust-session.target
	Target string `yaml:"target" env:"LAUNCHPAD_SESSION_TARGET"`

	// BlockedEnvironment lists variables never propagated to the
	// session manager.
	// Default: XAUTHORITY, _, SHELL, SHLVL
	BlockedEnvironment []string `yaml:"blocked_environment" env:"LAUNCHPAD_BLOCKED_ENVIRONMENT" envSeparator:","`

	// Systemctl is the systemctl binary.
	// Default: systemctl (found in PATH)
	Systemctl string `yaml:"systemctl" env:"LAUNCHPAD_SYSTEMCTL"`
}

// SeatConfig configures the booster.
type SeatConfig struct {
	// Socket is seatd's socket.
	// Default: /run/seatd.sock
	Socket string `yaml:"socket" env:"SEATD_SOCK"`

	// Shell runs the boosted command line.
	// Default: /bin/bash
	Shell string `yaml:"shell"`
}

// LogConfig configures logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	// Default: info
	Level string `yaml:"level" env:"LAUNCHPAD_LOG_LEVEL"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Session: SessionConfig{
			Target:             "stardust-session.target",
			BlockedEnvironment: []string{"XAUTHORITY", "_", "SHELL", "SHLVL"},
			Systemctl:          "systemctl",
		},
		Seat: SeatConfig{
			Socket: "/run/seatd.sock",
			Shell:  "/bin/bash",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load loads configuration from path, or from LAUNCHPAD_CONFIG when path
// is empty. With neither set it returns the defaults. Environment
// overrides and variable expansion are applied in every case.
func Load(path string) (*Config, error) {
	if path == "" {
		path = os.Getenv(EnvConfigPath)
	}
	if path == "" {
		cfg := Default()
		if err := cfg.finish(os.Environ()); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return LoadFile(path)
}

// LoadFile loads configuration from a specific file path. The file must
// exist.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.loadFile(path); err != nil {
		return nil, err
	}
	if err := cfg.finish(os.Environ()); err != nil {
		return nil, err
	}
	return cfg, nil
}

// loadFile merges a YAML file into the current config. Keys the file
// does not mention keep their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

// finish applies environment overrides from environ (KEY=VALUE form)
// and then expands variables.
func (c *Config) finish(environ []string) error {
	variables := env.ToMap(environ)
	if err := env.ParseWithOptions(c, env.Options{Environment: variables}); err != nil {
		return fmt.Errorf("applying environment overrides: %w", err)
	}
	c.expandVariables(variables)
	return nil
}

// expandVariables expands ${VAR} and ${VAR:-default} patterns in paths.
func (c *Config) expandVariables(variables map[string]string) {
	if c.Bus.Directory != "" {
		c.Bus.Directory = filepath.Clean(expandVars(c.Bus.Directory, variables))
	}
	c.Seat.Socket = expandVars(c.Seat.Socket, variables)
	c.Seat.Shell = expandVars(c.Seat.Shell, variables)
	c.Session.Systemctl = expandVars(c.Session.Systemctl, variables)
}

var varPattern = regexp.MustCompile(`\$\{([^}:]+)(?::-([^}]*))?\}`)

// expandVars expands ${VAR} and ${VAR:-default} patterns from
// variables. An unset or empty variable takes the default, or the empty
// string when there is none.
func expandVars(s string, variables map[string]string) string {
	return varPattern.ReplaceAllStringFunc(s, func(match string) string {
		parts := varPattern.FindStringSubmatch(match)
		if len(parts) < 2 {
			return match
		}
		if value := variables[parts[1]]; value != "" {
			return value
		}
		if len(parts) >= 3 {
			return parts[2]
		}
		return ""
	})
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(c.Log.Level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

// Validate checks the configuration for errors, reporting all of them.
func (c *Config) Validate() error {
	var errs []error

	if c.Bus.Directory != "" && !filepath.IsAbs(c.Bus.Directory) {
		errs = append(errs, fmt.Errorf("bus.directory must be absolute, got %q", c.Bus.Directory))
	}

	if c.Session.Target == "" {
		errs = append(errs, fmt.Errorf("session.target is required"))
	}
	if c.Session.Systemctl == "" {
		errs = append(errs, fmt.Errorf("session.systemctl is required"))
	}
	for _, name := range c.Session.BlockedEnvironment {
		if name == "" || strings.ContainsRune(name, '=') {
			errs = append(errs, fmt.Errorf("session.blocked_environment: invalid variable name %q", name))
		}
	}

	if c.Seat.Socket == "" {
		errs = append(errs, fmt.Errorf("seat.socket is required"))
	}
	if c.Seat.Shell == "" {
		errs = append(errs, fmt.Errorf("seat.shell is required"))
	}

	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return nil
}
