// Package errors provides structured error types for pkggraph.
//
// This package defines error codes and types that enable:
//   - Machine-readable error codes for programmatic handling
//   - Distinguishing construction failures from query failures
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Construction errors abort graph creation; no partial graph is returned:
//   - DUPLICATE_PACKAGE, UNKNOWN_DEPENDENCY, INVALID_PLATFORM_EXPRESSION
//   - INVALID_VERSION, INVALID_PACKAGE, INVALID_FEATURE
//
// Query errors are scoped to the failing call; the graph stays usable:
//   - UNKNOWN_PACKAGE, UNKNOWN_FEATURE, FEATURE_CYCLE, CYCLE
//
// # Usage
//
//	err := errors.New(errors.ErrCodeDuplicatePackage, "duplicate package id %q", id)
//	if errors.Is(err, errors.ErrCodeDuplicatePackage) {
//	    // Handle duplicate
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidVersion, origErr, "package %s", id)
//
// Typed errors that carry extra fields (for example the participating features
// of a feature cycle) implement a Code method and are matched by [Is] as well.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Construction errors
	ErrCodeDuplicatePackage          Code = "DUPLICATE_PACKAGE"
	ErrCodeUnknownDependency         Code = "UNKNOWN_DEPENDENCY"
	ErrCodeInvalidPlatformExpression Code = "INVALID_PLATFORM_EXPRESSION"
	ErrCodeInvalidVersion            Code = "INVALID_VERSION"
	ErrCodeInvalidPackage            Code = "INVALID_PACKAGE"
	ErrCodeInvalidFeature            Code = "INVALID_FEATURE"

	// Query errors
	ErrCodeUnknownPackage Code = "UNKNOWN_PACKAGE"
	ErrCodeUnknownFeature Code = "UNKNOWN_FEATURE"
	ErrCodeFeatureCycle   Code = "FEATURE_CYCLE"
	ErrCodeCycle          Code = "CYCLE"

	// Input errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
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

// coder is implemented by typed errors that carry a code without being an *Error.
type coder interface {
	Code() Code
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error or a typed error with a
// matching code. The outermost coded error wins.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if no error in the chain carries a code.
func GetCode(err error) Code {
	switch e := err.(type) {
	case nil:
		return ""
	case *Error:
		return e.Code
	case coder:
		return e.Code()
	case interface{ Unwrap() []error }:
		for _, inner := range e.Unwrap() {
			if code := GetCode(inner); code != "" {
				return code
			}
		}
		return ""
	}
	return GetCode(errors.Unwrap(err))
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}
