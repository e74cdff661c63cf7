// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Launchpad brings up a StardustXR session whose pieces start in any
// order.
//
// A session manager runs "launchpad start -- <server-command...>" as
// the session's long-lived coordinator. The XR runtime runs
// "launchpad igniter" once it is usable, and the server runs
// "launchpad server-started <var...>" once it has initialized. The
// coordinator waits for both signals, spawns the server, pushes the
// server's environment into the user service manager, and starts
// stardust-session.target; when the server exits it stops the target
// again.
//
// "launchpad boost <command...>" runs a command line while holding the
// seat from seatd, for sessions started outside a display manager.
//
// Configuration is optional; see lib/config.
package main
