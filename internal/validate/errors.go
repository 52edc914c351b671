// Package validate turns raw user input into typed algorithm parameters.
//
// Every failure is reported as an *Error carrying a machine-readable Code:
//
//	params, err := alg.Validate(in)
//	if validate.Is(err, validate.NotANumber) {
//	    // highlight the offending field
//	}
//
// Validation is side-effect free: it never touches visualization state.
package validate

import (
	"errors"
	"fmt"
)

// Code identifies a class of validation failure.
type Code string

const (
	EmptyInput          Code = "EMPTY_INPUT"
	NotANumber          Code = "NOT_A_NUMBER"
	LengthMismatch      Code = "LENGTH_MISMATCH"
	OutOfBounds         Code = "OUT_OF_BOUNDS"
	MalformedStructure  Code = "MALFORMED_STRUCTURE"
	ConstraintViolation Code = "CONSTRAINT_VIOLATION"
)

// Error is a validation failure for one input field.
type Error struct {
	Code    Code   // Machine-readable error code
	Field   string // Raw input field that failed
	Message string // Human-readable message
	Cause   error  // Underlying parse error (optional)
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, field, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, field string, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Field: field, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a validation error with the given code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the code from err, or "" if err is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a message suitable for display next to the input form.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Field != "" {
			return e.Field + ": " + e.Message
		}
		return e.Message
	}
	return err.Error()
}
