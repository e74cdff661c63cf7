// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// clearOverrides unsets every variable that Load reads, so the test
// sees only what it sets itself.
func clearOverrides(t *testing.T) {
	t.Helper()
	for _, name := range []string{
		EnvConfigPath,
		"LAUNCHPAD_BUS_DIR",
		"LAUNCHPAD_SESSION_TARGET",
		"LAUNCHPAD_BLOCKED_ENVIRONMENT",
		"LAUNCHPAD_SYSTEMCTL",
		"LAUNCHPAD_LOG_LEVEL",
		"SEATD_SOCK",
	} {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "launchpad.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoadWithoutFileUsesDefaults(t *testing.T) {
	clearOverrides(t)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Bus.Directory != "" {
		t.Errorf("expected empty bus.directory (per-user default), got %s", cfg.Bus.Directory)
	}
	if cfg.Session.Target != "stardust-session.target" {
		t.Errorf("expected session.target=stardust-session.target, got %s", cfg.Session.Target)
	}
	wantBlocked := []string{"XAUTHORITY", "_", "SHELL", "SHLVL"}
	if !reflect.DeepEqual(cfg.Session.BlockedEnvironment, wantBlocked) {
		t.Errorf("expected blocked_environment=%v, got %v", wantBlocked, cfg.Session.BlockedEnvironment)
	}
	if cfg.Seat.Socket != "/run/seatd.sock" {
		t.Errorf("expected seat.socket=/run/seatd.sock, got %s", cfg.Seat.Socket)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestBusDirectoryExpansion(t *testing.T) {
	clearOverrides(t)
	t.Setenv("XDG_RUNTIME_DIR", "/run/user/1000")
	path := writeConfig(t, "bus:\n  directory: ${XDG_RUNTIME_DIR}/stardust/\n")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}
	if cfg.Bus.Directory != "/run/user/1000/stardust" {
		t.Errorf("expected bus.directory=/run/user/1000/stardust, got %s", cfg.Bus.Directory)
	}
}

func TestLoadFileMergesOverDefaults(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, `
session:
  target: test-session.target
seat:
  shell: /bin/sh
log:
  level: debug
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Session.Target != "test-session.target" {
		t.Errorf("expected session.target=test-session.target, got %s", cfg.Session.Target)
	}
	if cfg.Seat.Shell != "/bin/sh" {
		t.Errorf("expected seat.shell=/bin/sh, got %s", cfg.Seat.Shell)
	}
	// Keys the file does not mention keep their defaults.
	if cfg.Session.Systemctl != "systemctl" {
		t.Errorf("expected session.systemctl=systemctl, got %s", cfg.Session.Systemctl)
	}
	level, err := cfg.LogLevel()
	if err != nil {
		t.Fatalf("LogLevel() failed: %v", err)
	}
	if level != slog.LevelDebug {
		t.Errorf("expected debug level, got %v", level)
	}
}

func TestLoadReadsConfigPathFromEnvironment(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, "session:\n  target: from-env.target\n")
	t.Setenv(EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Session.Target != "from-env.target" {
		t.Errorf("expected session.target=from-env.target, got %s", cfg.Session.Target)
	}
}

func TestExplicitPathWinsOverEnvironment(t *testing.T) {
	clearOverrides(t)
	t.Setenv(EnvConfigPath, writeConfig(t, "session:\n  target: env.target\n"))
	explicit := writeConfig(t, "session:\n  target: flag.target\n")

	cfg, err := Load(explicit)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Session.Target != "flag.target" {
		t.Errorf("expected session.target=flag.target, got %s", cfg.Session.Target)
	}
}

func TestLoadFileMissing(t *testing.T) {
	clearOverrides(t)
	_, err := LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected os.ErrNotExist, got %v", err)
	}
}

func TestLoadFileInvalidYAML(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, "session: [unterminated\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error, got nil")
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearOverrides(t)
	path := writeConfig(t, `
bus:
  directory: /from/file
session:
  target: file.target
seat:
  socket: /from/file/seatd.sock
`)
	t.Setenv("LAUNCHPAD_BUS_DIR", "/from/env")
	t.Setenv("LAUNCHPAD_SESSION_TARGET", "env.target")
	t.Setenv("LAUNCHPAD_BLOCKED_ENVIRONMENT", "FOO,BAR")
	t.Setenv("LAUNCHPAD_LOG_LEVEL", "warn")
	t.Setenv("SEATD_SOCK", "/from/env/seatd.sock")

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() failed: %v", err)
	}

	if cfg.Bus.Directory != "/from/env" {
		t.Errorf("expected bus.directory=/from/env, got %s", cfg.Bus.Directory)
	}
	if cfg.Session.Target != "env.target" {
		t.Errorf("expected session.target=env.target, got %s", cfg.Session.Target)
	}
	if !reflect.DeepEqual(cfg.Session.BlockedEnvironment, []string{"FOO", "BAR"}) {
		t.Errorf("expected blocked_environment=[FOO BAR], got %v", cfg.Session.BlockedEnvironment)
	}
	if cfg.Seat.Socket != "/from/env/seatd.sock" {
		t.Errorf("expected seat.socket=/from/env/seatd.sock, got %s", cfg.Seat.Socket)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("expected log.level=warn, got %s", cfg.Log.Level)
	}
}

func TestExpandVars(t *testing.T) {
	variables := map[string]string{"HOME": "/home/user", "EMPTY": ""}

	tests := []struct {
		input string
		want  string
	}{
		{"${HOME}/launchpad", "/home/user/launchpad"},
		{"${UNSET:-/fallback}/bus", "/fallback/bus"},
		{"${EMPTY:-default}", "default"},
		{"${UNSET}", ""},
		{"/plain/path", "/plain/path"},
		{"${HOME}/${UNSET:-x}", "/home/user/x"},
	}
	for _, test := range tests {
		if got := expandVars(test.input, variables); got != test.want {
			t.Errorf("expandVars(%q) = %q, want %q", test.input, got, test.want)
		}
	}
}

func TestValidateReportsEveryProblem(t *testing.T) {
	cfg := Default()
	cfg.Bus.Directory = "relative/dir"
	cfg.Session.Target = ""
	cfg.Session.BlockedEnvironment = []string{"OK", "BAD=NAME"}
	cfg.Seat.Shell = ""
	cfg.Log.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	for _, fragment := range []string{
		"bus.directory must be absolute",
		"session.target is required",
		`invalid variable name "BAD=NAME"`,
		"seat.shell is required",
		"log.level",
	} {
		if !strings.Contains(err.Error(), fragment) {
			t.Errorf("validation error missing %q:\n%v", fragment, err)
		}
	}
}
