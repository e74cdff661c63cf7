// Copyright 2026 The Stardust XR Authors
// SPDX-License-Identifier: Apache-2.0

package bus

import (
	"errors"
	"fmt"
)

// ErrNameInUse is returned by Claim and Export when another owner holds
// the well-known name.
var ErrNameInUse = errors.New("name already in use")

// ErrEndpointAbsent is returned when no live owner serves the requested
// name and path.
var ErrEndpointAbsent = errors.New("endpoint absent")

// Error names carried in failed responses.
const (
	ErrorUnknownObject = "org.stardustxr.Error.UnknownObject"
	ErrorUnknownMethod = "org.stardustxr.Error.UnknownMethod"
	ErrorInvalidArgs   = "org.stardustxr.Error.InvalidArgs"
	ErrorFailed        = "org.stardustxr.Error.Failed"
)

// NameInUseError reports a failed claim. OwnerPID is the process ID the
// current owner recorded in its lock file, or 0 if it could not be read.
type NameInUseError struct {
	Name     string
	OwnerPID int
}

func (e *NameInUseError) Error() string {
	if e.OwnerPID > 0 {
		return fmt.Sprintf("claiming %s: %v (owner pid %d)", e.Name, ErrNameInUse, e.OwnerPID)
	}
	return fmt.Sprintf("claiming %s: %v", e.Name, ErrNameInUse)
}

func (e *NameInUseError) Unwrap() error { return ErrNameInUse }

// RemoteError is returned by Proxy.Call when the endpoint was reached
// but the method failed on the remote side.
type RemoteError struct {
	Endpoint  string
	Operation string
	Name      string
	Message   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s on %s: %s: %s", e.Operation, e.Endpoint, e.Name, e.Message)
}

// Is lets errors.Is(err, ErrEndpointAbsent) match a call that reached a
// live owner which does not serve the requested object.
func (e *RemoteError) Is(target error) bool {
	return target == ErrEndpointAbsent && e.Name == ErrorUnknownObject
}
