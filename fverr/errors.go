// Package fverr defines the failure taxonomy for fmtvec.
//
// Every error returned by the directive tokenizer, the vector validator, the
// generator, or the CLI maps to exactly one FailureClass, which determines
// the exit code. Malformed-vector failures also carry the case index of the
// offending vector so table authors can find it.
package fverr

import "fmt"

// FailureClass is a stable failure category.
type FailureClass string

const (
	ConfigTarget       FailureClass = "CONFIG_TARGET"
	MalformedVector    FailureClass = "MALFORMED_VECTOR"
	InvalidFormat      FailureClass = "INVALID_FORMAT"
	BaselineDrift      FailureClass = "BASELINE_DRIFT"
	CLIUsage           FailureClass = "CLI_USAGE"
	ConformanceFailure FailureClass = "CONFORMANCE_FAILURE"
	InternalIO         FailureClass = "INTERNAL_IO"
	InternalError      FailureClass = "INTERNAL_ERROR"
)

// ExitCode returns the process exit code for this failure class.
func (fc FailureClass) ExitCode() int {
	switch fc {
	case ConformanceFailure:
		return 1
	case InternalIO, InternalError:
		return 10
	default:
		return 2
	}
}

// Error is the structured error type for all fmtvec failures.
//
// Case is the vector's case index, or 0 when the failure is not tied to a
// vector. Offset is a byte offset into a format string, or -1.
type Error struct {
	Class   FailureClass
	Case    int
	Offset  int
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	where := ""
	if e.Case > 0 {
		where += fmt.Sprintf(" in case %d", e.Case)
	}
	if e.Offset >= 0 {
		where += fmt.Sprintf(" at byte %d", e.Offset)
	}
	msg := fmt.Sprintf("fverr: %s%s: %s", e.Class, where, e.Message)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given class and message.
func New(class FailureClass, offset int, message string) *Error {
	return &Error{Class: class, Offset: offset, Message: message}
}

// Newf is New with a format string.
func Newf(class FailureClass, offset int, format string, args ...any) *Error {
	return &Error{Class: class, Offset: offset, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(class FailureClass, offset int, message string, cause error) *Error {
	return &Error{Class: class, Offset: offset, Message: message, Cause: cause}
}

// Vector creates a MalformedVector error for the given case index.
func Vector(caseIndex int, format string, args ...any) *Error {
	return &Error{
		Class:   MalformedVector,
		Case:    caseIndex,
		Offset:  -1,
		Message: fmt.Sprintf(format, args...),
	}
}

// VectorCause is Vector with an underlying cause, typically an
// INVALID_FORMAT error from the directive tokenizer.
func VectorCause(caseIndex int, message string, cause error) *Error {
	return &Error{
		Class:   MalformedVector,
		Case:    caseIndex,
		Offset:  -1,
		Message: message,
		Cause:   cause,
	}
}
