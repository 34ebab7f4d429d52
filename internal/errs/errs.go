// Copyright 2026 The OPA Authors.  All rights reserved.
// Use of this source code is governed by an Apache2
// license that can be found in the LICENSE file.

// Package errs defines the structured error type the champ package panics
// with, following the same Code/Message shape the rest of the storage
// stack uses.
package errs

import "fmt"

// Code identifies the kind of failure.
type Code int

const (
	_ Code = iota
	// KeyNotFound is only ever raised by a panicking lookup (MustGet).
	KeyNotFound
	// CollisionOverflow signals a Collision node would exceed its entry cap.
	CollisionOverflow
	// InvalidRollback signals a Checkpoint that does not belong to, or is
	// newer than, the store it is applied to.
	InvalidRollback
	// Internal signals a violated structural invariant -- a bug in the
	// library itself rather than caller misuse.
	Internal
)

func (c Code) String() string {
	switch c {
	case KeyNotFound:
		return "key_not_found"
	case CollisionOverflow:
		return "collision_overflow"
	case InvalidRollback:
		return "invalid_rollback"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error is the structured error type raised (via panic) by the champ
// package. There is no recoverable error path in this module: every
// Error surfaces as a panic, never as a returned error value, per the
// library's "no recoverable errors" contract.
type Error struct {
	Code    Code
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("champ: %s: %s", e.Code, e.Message)
}

// New constructs an *Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}
