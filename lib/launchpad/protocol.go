// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package launchpad

// Well-known names, object paths, and interfaces of the two endpoints.
const (
	CoordinatorName      = "org.stardustxr.LaunchPad"
	CoordinatorPath      = "/org/stardustxr/LaunchPad"
	CoordinatorInterface = "org.stardustxr.LaunchPad"

	IgniterName      = "org.stardustxr.LaunchPad.Igniter"
	IgniterPath      = "/org/stardustxr/LaunchPad/Igniter"
	IgniterInterface = "org.stardustxr.LaunchPad.Igniter"
)

// Method names.
const (
	MethodRuntimeReady  = "xr_runtime_ready"
	MethodServerStarted = "stardust_server_started"
	MethodInstantIgnite = "instant_ignite"
)
