// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

// Package launchpad implements the rendezvous protocol that brings a
// session up across independently started processes.
//
// Three processes take part, in any start order:
//
//   - The coordinator ("launchpad start") owns the session. It
//     publishes the LaunchPad endpoint with two one-way signals,
//     xr_runtime_ready and stardust_server_started.
//   - The igniter ("launchpad igniter") is invoked by the XR runtime
//     once the runtime is usable. It publishes the Igniter endpoint,
//     whose instant_ignite method exists only to be reachable, and then
//     signals xr_runtime_ready. If no coordinator answers it runs the
//     caller's fallback command instead.
//   - The server reporter ("launchpad server-started") runs inside the
//     server's environment once the server is up and sends the
//     requested variables with stardust_server_started. Failing to
//     deliver that report is fatal to the reporter.
//
// # Presence as signal
//
// The runtime may fire the igniter before the coordinator exists. The
// igniter's xr_runtime_ready call then has nobody to reach, and the
// event would be lost. To cover this the igniter claims its well-known
// name before signalling, and the coordinator's [Resolver], after
// publishing its own endpoint, probes for that name: a live igniter
// means the runtime already fired, so the coordinator proceeds without
// waiting for the direct signal.
//
// The probe cannot tell "the igniter ran and has since exited" from
// "the runtime never fired". In that case the coordinator waits for a
// signal that may never come. This is a known gap of the protocol; the
// igniter's fallback command is what covers it, from the igniter side.
package launchpad
