// Package gdserr defines the closed set of error kinds surfaced by the
// graph data science engine. Every error returned across store, view,
// concurrency, progress, and algorithm packages wraps one of the sentinels
// below so callers can classify failures with errors.Is, regardless of
// which layer produced them.
package gdserr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. These are never returned bare — wrap them with
// fmt.Errorf("%w: ...") so the message carries algorithm/field context.
var (
	// ErrInvalidGraph means a config referenced a missing property, type,
	// or node id, or otherwise contradicts the store's shape.
	ErrInvalidGraph = errors.New("invalid graph")

	// ErrInvalidParameter means a config field failed a range or shape check.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrExecution means a kernel reported a runtime failure, including
	// cooperative cancellation ("terminated").
	ErrExecution = errors.New("execution error")

	// ErrPropertyValues means a property column was accessed through the
	// wrong typed accessor.
	ErrPropertyValues = errors.New("property values error")

	// ErrOutOfRange means an id or index exceeded its valid bounds.
	ErrOutOfRange = errors.New("out of range")
)

// Terminated is the specific Execution error raised when a TerminationFlag
// trips mid-run. It is distinct so callers can special-case cancellation
// without string-matching.
var Terminated = fmt.Errorf("%w: terminated", ErrExecution)

// InvalidGraph wraps ErrInvalidGraph with formatted context.
func InvalidGraph(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidGraph, fmt.Sprintf(format, args...))
}

// InvalidParameter wraps ErrInvalidParameter with formatted context.
func InvalidParameter(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidParameter, fmt.Sprintf(format, args...))
}

// Execution wraps ErrExecution with formatted context.
func Execution(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrExecution, fmt.Sprintf(format, args...))
}

// PropertyValues wraps ErrPropertyValues with formatted context.
func PropertyValues(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrPropertyValues, fmt.Sprintf(format, args...))
}

// OutOfRange wraps ErrOutOfRange with formatted context.
func OutOfRange(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrOutOfRange, fmt.Sprintf(format, args...))
}

// Is reports whether err ultimately wraps one of the five kinds above.
// Useful at API boundaries that need to map an error to an HTTP-ish status
// without importing every producing package.
func Is(err error, kind error) bool {
	return errors.Is(err, kind)
}
