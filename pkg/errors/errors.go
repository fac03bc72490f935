// Package errors provides coded errors for nugetviz.
//
// Codes let the CLI tell a user mistake (bad flag, unreadable manifest) from
// an environmental failure (feed down) without string matching:
//   - INVALID_*: input validation failures
//   - MANIFEST_UNREADABLE: a manifest could not be read or parsed
//   - FEED_LOOKUP_FAILED, NETWORK_ERROR: feed problems
//   - NOT_FOUND: missing files or packages
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidInput, "cannot specify both folder and file")
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // print usage hint
//	}
//
//	err := errors.Wrap(errors.ErrCodeManifestUnreadable, cause, "parse %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Input validation errors
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidPackage    Code = "INVALID_PACKAGE"
	ErrCodeInvalidDependency Code = "INVALID_DEPENDENCY"
	ErrCodeInvalidFormat     Code = "INVALID_FORMAT"

	// Manifest errors
	ErrCodeManifestUnreadable Code = "MANIFEST_UNREADABLE"

	// Resource not found errors
	ErrCodeNotFound Code = "NOT_FOUND"

	// Feed and network errors
	ErrCodeFeedLookup Code = "FEED_LOOKUP_FAILED"
	ErrCodeNetwork    Code = "NETWORK_ERROR"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

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
// It unwraps the error chain looking for an *Error with a matching code, so
// a NETWORK_ERROR wrapped in FEED_LOOKUP_FAILED matches both.
func Is(err error, code Code) bool {
	var e *Error
	for errors.As(err, &e) {
		if e.Code == code {
			return true
		}
		err = e.Cause
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

// UserMessage returns a user-friendly message for the error.
// For *Error types the code prefix is dropped and the cause, if any, is
// appended after a colon.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
