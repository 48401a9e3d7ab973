// Package errors provides structured error types for mergebase.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the library and the CLI
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Codes fall into a few groups:
//   - Lifecycle: FROZEN, NOT_FROZEN (workspace used in the wrong phase)
//   - Input: INVALID_INPUT, INVALID_FORMAT, DUPLICATE_LEAF
//   - Structure: LEAF_IS_ANCESTOR, NO_ANCESTOR
//   - Lookup: NOT_FOUND, FILE_NOT_FOUND
//   - Collaborators: FETCH_FAILED
//   - INTERNAL_ERROR for broken invariants
//
// None of these conditions are retryable by the core; a caller that wants
// retries must wrap its fetch function (see [github.com/matzehuels/mergebase/pkg/cache.Backoff],
// which the redis store uses for transient network errors).
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicateLeaf, "leaf %s already registered", id)
//	if errors.Is(err, errors.ErrCodeDuplicateLeaf) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeFetch, origErr, "fetch %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Workspace lifecycle errors
	ErrCodeFrozen    Code = "FROZEN"
	ErrCodeNotFrozen Code = "NOT_FROZEN"

	// Input validation errors
	ErrCodeInvalidInput  Code = "INVALID_INPUT"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"
	ErrCodeDuplicateLeaf Code = "DUPLICATE_LEAF"

	// Graph structure errors
	ErrCodeLeafIsAncestor Code = "LEAF_IS_ANCESTOR"
	ErrCodeNoAncestor     Code = "NO_ANCESTOR"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Collaborator errors
	ErrCodeFetch Code = "FETCH_FAILED"

	// Internal errors
	ErrCodeInternal Code = "INTERNAL_ERROR"
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
// It unwraps the error chain looking for an *Error with a matching code,
// so a FETCH_FAILED error wrapping a NOT_FOUND store error matches both.
func Is(err error, code Code) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Code == code {
			return true
		}
		err = e.Cause
	}
	return false
}

// GetCode extracts the outermost error code from an error, if available.
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

// ExitCode maps an error to a process exit status for the CLI.
// Structural answers (no ancestor, leaf is ancestor) get distinct codes so
// scripts can tell them apart from usage or I/O failures.
func ExitCode(err error) int {
	switch GetCode(err) {
	case "":
		if err == nil {
			return 0
		}
		return 1
	case ErrCodeNoAncestor:
		return 3
	case ErrCodeLeafIsAncestor:
		return 4
	case ErrCodeInvalidInput, ErrCodeInvalidFormat, ErrCodeDuplicateLeaf:
		return 2
	default:
		return 1
	}
}
