// Package errors provides structured error types for the gies search engine.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - A hard separation between rejected configuration and internal bugs
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Configuration rejected before any search step runs
//   - NOT_FOUND_*: Resource not found
//   - INTERNAL_*: Invariant violations indicating a bug, fatal to the
//     current search
//
// Configuration errors are reported before the first move is evaluated and
// are never partially applied. Internal errors (for example the graph store
// being asked to apply an illegal mutation) signal a defect in the engine's
// own legality checks and abort the run.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidPhase, "unknown phase %q", name)
//	if errors.Is(err, errors.ErrCodeInvalidPhase) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, cause, "apply move %s", mv)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Configuration errors - rejected before search starts.
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidGaps    Code = "INVALID_GAPS"
	ErrCodeInvalidDegree  Code = "INVALID_DEGREE"
	ErrCodeInvalidPhase   Code = "INVALID_PHASE"
	ErrCodeInvalidTargets Code = "INVALID_TARGETS"
	ErrCodeInvalidScore   Code = "INVALID_SCORE"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"

	// Resource not found errors.
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors - programming errors, fatal to the current search.
	ErrCodeInternal  Code = "INTERNAL_ERROR"
	ErrCodeInvariant Code = "INTERNAL_INVARIANT"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsConfig reports whether err is a rejected-configuration error
// (any INVALID_* code). Configuration errors are user-facing and are
// reported before any search step runs.
func IsConfig(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidConfig, ErrCodeInvalidGaps, ErrCodeInvalidDegree,
		ErrCodeInvalidPhase, ErrCodeInvalidTargets, ErrCodeInvalidScore,
		ErrCodeInvalidFormat:
		return true
	}
	return false
}

// IsInternal reports whether err is an internal invariant violation.
// Internal errors indicate a bug in the engine and are fatal to the
// current search; there is no silent recovery.
func IsInternal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInternal, ErrCodeInvariant:
		return true
	}
	return false
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}
