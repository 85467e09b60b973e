// Copyright 2025 John Wang. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package mcpbridge

import (
	"errors"
	"fmt"
)

// ErrToolNotFound is returned when dispatching to a tool that doesn't exist.
var ErrToolNotFound = errors.New("tool not found")

// ErrResourceNotFound is returned when reading a resource that doesn't exist.
var ErrResourceNotFound = errors.New("resource not found")

// ErrDuplicateName is returned when two endpoints register under the same
// tool name or resource URI. Collisions fail setup rather than silently
// overwriting the earlier entry.
var ErrDuplicateName = errors.New("name already registered")

// RegistrationError reports a failure while exposing one endpoint during
// setup. Setup stops at the first failure; the remaining endpoints are
// not registered.
type RegistrationError struct {
	Endpoint string
	Err      error
}

func (e *RegistrationError) Error() string {
	return fmt.Sprintf("registering endpoint %s: %v", e.Endpoint, e.Err)
}

func (e *RegistrationError) Unwrap() error { return e.Err }

// DispatchError is the uniform error for tool and resource dispatch. It
// covers lookup failures, argument binding failures and errors raised by
// the target callable, always naming the target.
type DispatchError struct {
	Target string
	Err    error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatching %s: %v", e.Target, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
