// mooring - cooperative service supervision framework
// SPDX-License-Identifier: MIT

package mooring

import (
	"errors"
	"fmt"
)

// Kind classifies an Error so callers can branch on failure category with
// errors.Is, independent of which Service or Op produced it.
type Kind string

// Error kinds returned by this package. Every error mooring returns can be
// matched against one of these with errors.Is.
const (
	// InvalidState means an operation was attempted from a state that does
	// not permit it (e.g. Start on a crashed Service, or Restart on a
	// running one).
	InvalidState Kind = "invalid_state"

	// InvalidArgument means a value supplied by the caller (a timer spec, a
	// crontab expression, a Config field) failed validation.
	InvalidArgument Kind = "invalid_argument"

	// DependencyFailure means a declared or runtime dependency crashed or
	// failed to start, and the failure is being reported to its parent.
	DependencyFailure Kind = "dependency_failure"

	// ActivityCrash means a background activity returned a non-nil error
	// or panicked.
	ActivityCrash Kind = "activity_crash"

	// Cancelled means the operation's context was cancelled before it
	// completed.
	Cancelled Kind = "cancelled"

	// Timeout means a shutdown grace period elapsed with activities still
	// running; they were force-cancelled.
	Timeout Kind = "timeout"
)

// Error is the error type returned by every operation in this package. It
// carries enough structure for errors.Is/errors.As matching without string
// inspection.
type Error struct {
	// Kind classifies the failure.
	Kind Kind
	// Op names the operation that failed, e.g. "Service.Start".
	Op string
	// Service is the name of the Service the error concerns, if any.
	Service string
	// Err is the underlying cause, if any.
	Err error
}

func (e *Error) Error() string {
	switch {
	case e.Op != "" && e.Service != "" && e.Err != nil:
		return fmt.Sprintf("mooring: %s: %s: %s: %v", e.Op, e.Service, e.Kind, e.Err)
	case e.Op != "" && e.Service != "":
		return fmt.Sprintf("mooring: %s: %s: %s", e.Op, e.Service, e.Kind)
	case e.Op != "" && e.Err != nil:
		return fmt.Sprintf("mooring: %s: %s: %v", e.Op, e.Kind, e.Err)
	case e.Op != "":
		return fmt.Sprintf("mooring: %s: %s", e.Op, e.Kind)
	default:
		return fmt.Sprintf("mooring: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is implements errors.Is matching by Kind, and additionally by Op when the
// target sets one, so callers can write errors.Is(err, mooring.ErrInvalidState)
// without caring about Op/Service/Err.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Op == "" || t.Op == e.Op
}

// Sentinel errors, one per Kind, for errors.Is comparisons against values
// returned deep inside the package.
var (
	ErrInvalidState      = &Error{Kind: InvalidState}
	ErrInvalidArgument   = &Error{Kind: InvalidArgument}
	ErrDependencyFailure = &Error{Kind: DependencyFailure}
	ErrActivityCrash     = &Error{Kind: ActivityCrash}
	ErrCancelled         = &Error{Kind: Cancelled}
	ErrTimeout           = &Error{Kind: Timeout}
)

func newError(kind Kind, op, service string, err error) *Error {
	return &Error{Kind: kind, Op: op, Service: service, Err: err}
}

// NewError builds an *Error of the given Kind for use outside this package,
// e.g. by internal/validation when rejecting a TimerSpec or CronSpec before
// it ever reaches a Service.
func NewError(kind Kind, op, service string, err error) *Error {
	return newError(kind, op, service, err)
}

// IsKind reports whether err is a mooring *Error of the given Kind, unwrapping
// as needed.
func IsKind(err error, kind Kind) bool {
	var me *Error
	if !errors.As(err, &me) {
		return false
	}
	return me.Kind == kind
}
