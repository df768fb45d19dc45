// Package errors provides error handling for easel.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found
//	}
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is         = crdb.Is
	IsAny      = crdb.IsAny
	As         = crdb.As
	Unwrap     = crdb.Unwrap
	UnwrapOnce = crdb.UnwrapOnce
	UnwrapAll  = crdb.UnwrapAll
)

// Assertions
var (
	AssertionFailedf = crdb.AssertionFailedf
)

// Common sentinel errors for use across easel.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidInput indicates a malformed or out-of-range argument
	ErrInvalidInput = New("invalid input")

	// ErrVertexNotFound indicates a vertex id unknown to the store
	ErrVertexNotFound = New("vertex not found")

	// ErrEdgeNotFound indicates an edge id unknown to the store
	ErrEdgeNotFound = New("edge not found")

	// ErrSessionNotFound indicates an unknown session id
	ErrSessionNotFound = New("session not found")

	// ErrUnsupportedFormat indicates a document extension with no codec
	ErrUnsupportedFormat = New("unsupported document format")

	// ErrNoDocument indicates an operation that needs a backing file path
	ErrNoDocument = New("session has no backing document")
)

// IsNotFoundError checks if an error is or wraps any of the not-found
// sentinels, including the store-level vertex/edge variants.
func IsNotFoundError(err error) bool {
	if err == nil {
		return false
	}
	return IsAny(err, ErrNotFound, ErrVertexNotFound, ErrEdgeNotFound, ErrSessionNotFound)
}

// IsInvalidInputError checks if an error is or wraps ErrInvalidInput
func IsInvalidInputError(err error) bool {
	return err != nil && Is(err, ErrInvalidInput)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrap(ErrNotFound, Newf(format, args...).Error())
}

// NewInvalidInputError creates an invalid-input error with a formatted message
func NewInvalidInputError(format string, args ...interface{}) error {
	return Wrap(ErrInvalidInput, Newf(format, args...).Error())
}
