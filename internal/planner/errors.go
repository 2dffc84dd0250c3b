package planner

import (
	"errors"
	"fmt"
)

// Code identifies a planning failure category. Codes are stable and part
// of the caller-facing contract; none of them are retried internally.
type Code string

const (
	// CodeMissingConnectionParam means the driver or DSN is absent.
	CodeMissingConnectionParam Code = "missing_connection_param"
	// CodeAmbiguousSource means both a table name and free-form SQL were set.
	CodeAmbiguousSource Code = "ambiguous_source"
	// CodeUnspecifiedSource means neither a table name nor free-form SQL was set.
	CodeUnspecifiedSource Code = "unspecified_source"
	// CodeUnresolvedPartitionColumn means no partition column was configured
	// and none could be inferred. This covers both "no table to infer from"
	// and "table has no usable primary key".
	CodeUnresolvedPartitionColumn Code = "unresolved_partition_column"
	// CodeMissingConditionsToken means free-form SQL lacks the
	// core.ConditionsToken placeholder.
	CodeMissingConditionsToken Code = "missing_conditions_token"
	// CodeMalformedBoundary means the boundary query did not return exactly
	// one row with exactly two columns.
	CodeMalformedBoundary Code = "malformed_boundary_result"
	// CodeQueryFailed wraps an underlying data-source failure.
	CodeQueryFailed Code = "query_failed"
)

// Error is a planning failure with a stable code. The underlying cause,
// when present, is preserved for errors.Is/As chains.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

func wrapError(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf extracts the planning code from err, or "" when err is not a
// planner error.
func CodeOf(err error) Code {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Code
	}
	return ""
}
