// Package errors provides structured error types for the wireframe engine.
//
// Every failure the engine can report carries a machine-readable [Code].
// Callers match on codes either through the standard library:
//
//	if errors.Is(err, wferr.ErrNotRegistered) {
//	    // register the geometry first
//	}
//
// or through the package helpers:
//
//	if wferr.Is(err, wferr.CodeBufferExhausted) {
//	    // grow the scene capacity
//	}
//
// # Error Codes
//
// Codes fall into three groups:
//   - Shape errors: DIMENSION_MISMATCH, UNSUPPORTED_DIMENSION, DEGENERATE_VECTOR, SINGULAR_MATRIX
//   - Resource errors: BUFFER_EXHAUSTED, SLOT_OUT_OF_BOUNDS, SPACE_RELEASED
//   - Lifecycle errors: NOT_REGISTERED, ALREADY_REGISTERED, CYCLE_DETECTED
//
// INVALID_RANGE and INVALID_CONFIG cover bad scalar inputs and bad scene files.
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Shape errors
	CodeDimensionMismatch    Code = "DIMENSION_MISMATCH"
	CodeUnsupportedDimension Code = "UNSUPPORTED_DIMENSION"
	CodeDegenerateVector     Code = "DEGENERATE_VECTOR"
	CodeSingularMatrix       Code = "SINGULAR_MATRIX"

	// Resource errors
	CodeBufferExhausted Code = "BUFFER_EXHAUSTED"
	CodeSlotOutOfBounds Code = "SLOT_OUT_OF_BOUNDS"
	CodeSpaceReleased   Code = "SPACE_RELEASED"

	// Lifecycle errors
	CodeNotRegistered     Code = "NOT_REGISTERED"
	CodeAlreadyRegistered Code = "ALREADY_REGISTERED"
	CodeCycleDetected     Code = "CYCLE_DETECTED"

	// Input errors
	CodeInvalidRange  Code = "INVALID_RANGE"
	CodeInvalidConfig Code = "INVALID_CONFIG"
)

// Sentinel errors, one per code. They compare equal under errors.Is to any
// *Error carrying the same code.
var (
	ErrDimensionMismatch    = &Error{Code: CodeDimensionMismatch, Message: "dimension mismatch"}
	ErrUnsupportedDimension = &Error{Code: CodeUnsupportedDimension, Message: "unsupported dimension"}
	ErrDegenerateVector     = &Error{Code: CodeDegenerateVector, Message: "degenerate vector"}
	ErrSingularMatrix       = &Error{Code: CodeSingularMatrix, Message: "singular matrix"}
	ErrBufferExhausted      = &Error{Code: CodeBufferExhausted, Message: "matrix buffer exhausted"}
	ErrSlotOutOfBounds      = &Error{Code: CodeSlotOutOfBounds, Message: "slot out of bounds"}
	ErrSpaceReleased        = &Error{Code: CodeSpaceReleased, Message: "memory space released"}
	ErrNotRegistered        = &Error{Code: CodeNotRegistered, Message: "geometry not registered"}
	ErrAlreadyRegistered    = &Error{Code: CodeAlreadyRegistered, Message: "geometry already registered"}
	ErrCycleDetected        = &Error{Code: CodeCycleDetected, Message: "cycle detected"}
	ErrInvalidRange         = &Error{Code: CodeInvalidRange, Message: "invalid range"}
	ErrInvalidConfig        = &Error{Code: CodeInvalidConfig, Message: "invalid configuration"}
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

// Is reports whether target is an *Error with the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
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
		if e.Cause != nil {
			return e.Message + ": " + UserMessage(e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
