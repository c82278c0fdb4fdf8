// Package errors provides structured error types for the Kindred application.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across CLI and API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures
//   - *_NOT_FOUND: Resource not found
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeInvalidOrientation, "unknown orientation: %s", name)
//	if errors.Is(err, errors.ErrCodeInvalidOrientation) {
//	    // Handle validation error
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidGraph, origErr, "graph rejected")
package errors

import (
	"errors"
	"fmt"

	"github.com/kindredlab/kindred/pkg/kin"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Graph structure errors
	ErrCodeInvalidGraph      Code = "INVALID_GRAPH"
	ErrCodeDuplicateID       Code = "DUPLICATE_ID"
	ErrCodeEmptyPartnership  Code = "EMPTY_PARTNERSHIP"
	ErrCodeDanglingReference Code = "DANGLING_REFERENCE"
	ErrCodeCircularReference Code = "CIRCULAR_REFERENCE"

	// Input validation errors
	ErrCodeInvalidInput       Code = "INVALID_INPUT"
	ErrCodeInvalidOrientation Code = "INVALID_ORIENTATION"
	ErrCodeInvalidSpacing     Code = "INVALID_SPACING"
	ErrCodeInvalidFormat      Code = "INVALID_FORMAT"
	ErrCodeInvalidTreeID      Code = "INVALID_TREE_ID"
	ErrCodeInvalidPath        Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeTreeNotFound Code = "TREE_NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
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

// FromGraphError maps a graph validation error to its structured form so
// the CLI and API report the same codes for the same defects. Errors that
// do not wrap a known validation sentinel come back coded INVALID_GRAPH.
func FromGraphError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}

	code := ErrCodeInvalidGraph
	switch {
	case errors.Is(err, kin.ErrDuplicateID):
		code = ErrCodeDuplicateID
	case errors.Is(err, kin.ErrEmptyPartnership):
		code = ErrCodeEmptyPartnership
	case errors.Is(err, kin.ErrDanglingReference):
		code = ErrCodeDanglingReference
	case errors.Is(err, kin.ErrCircularReference):
		code = ErrCodeCircularReference
	}
	// Keep the validator's own wording so the CLI and API surface the
	// offending id(s) verbatim.
	return Wrap(code, err, "%s", err.Error())
}
