// Package dpcerrors holds the common error objects used across the DP
// compiler. Its Error type can carry one or more cause errors; calling
// errors.Is() against any of those causes returns true.
package dpcerrors

import "errors"

var (
	ErrNotFound         = errors.New("the requested source could not be resolved")
	ErrResolverFailure  = errors.New("the content resolver returned an error")
	ErrCancelled        = errors.New("compilation was cancelled")
	ErrCacheUnavailable = errors.New("the compile-result cache is unavailable")
)

// Error is a typed error returned by the compiler core. It holds a
// message plus zero or more causes, and is compatible with errors.Is:
// calling errors.Is on an Error along with any of its causes returns
// true.
//
// If Error has at least one cause, Error.Error() is its message with the
// first cause's message appended. Error should not be constructed
// directly; call New or WrapResolverFailure.
type Error struct {
	msg   string
	cause []error
}

// Error returns the defined message, concatenated with the first cause's
// message if both are present; falls back to the first cause's message
// alone if no message was given, or "" if neither is present.
func (e Error) Error() string {
	if e.msg == "" && e.cause != nil {
		return e.cause[0].Error()
	}
	if e.cause != nil {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

// Unwrap returns every cause, or nil if none were defined.
func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// Is reports whether target equals e itself or one of its causes.
func (e Error) Is(target error) bool {
	if errTarget, ok := target.(Error); ok {
		if e.msg == errTarget.msg && len(e.cause) == len(errTarget.cause) {
			allEqual := true
			for i := range e.cause {
				if e.cause[i] != errTarget.cause[i] {
					allEqual = false
					break
				}
			}
			if allEqual {
				return true
			}
		}
	}
	for _, c := range e.cause {
		if c == target {
			return true
		}
	}
	return false
}

// New creates an Error with msg and any causes; errors.Is against any
// cause will then report true.
func New(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = make([]error, len(causes))
		copy(err.cause, causes)
	}
	return err
}

// WrapResolverFailure wraps err as a cause along with ErrResolverFailure,
// for resolver.GetText failures surfaced during import resolution.
func WrapResolverFailure(msg string, err error) Error {
	return Error{msg: msg, cause: []error{err, ErrResolverFailure}}
}
