package nosleep

import (
	"errors"
	"fmt"

	"github.com/pevers/nosleep/internal/inhibit"
)

// ErrUnsupported reports that no facility on the current platform can
// satisfy the requested inhibition.
var ErrUnsupported = inhibit.ErrUnsupported

// ErrorCategory represents the type of error for categorization purposes.
type ErrorCategory int

const (
	// CategoryUnknown is the default category for uncategorized errors.
	CategoryUnknown ErrorCategory = iota
	// CategoryInit is for backend connection and setup failures.
	CategoryInit
	// CategoryAcquire is for failed inhibit calls.
	CategoryAcquire
	// CategoryRelease is for failed release calls.
	CategoryRelease
)

// String returns a human-readable name for the error category.
func (c ErrorCategory) String() string {
	switch c {
	case CategoryInit:
		return "init"
	case CategoryAcquire:
		return "acquire"
	case CategoryRelease:
		return "release"
	default:
		return "unknown"
	}
}

// ErrorSeverity indicates the severity level of an error.
type ErrorSeverity int

const (
	// SeverityWarning is for errors the controller recovered from on its
	// own; state is already consistent when the caller sees them.
	SeverityWarning ErrorSeverity = iota
	// SeverityError is for errors that failed the requested operation.
	SeverityError
)

// String returns a human-readable name for the severity level.
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// Error wraps a backend error with the category, severity, and facility
// context needed to act on it.
//
// Release errors carry SeverityWarning: the lock may still be held by
// the OS, but the controller has already cleared its bookkeeping and is
// usable again (a stuck controller would be worse than a leaked lock
// the OS clears on process exit anyway).
type Error struct {
	// Err is the underlying error.
	Err error
	// Category classifies the failed operation.
	Category ErrorCategory
	// Severity indicates whether the operation failed or merely left a
	// best-effort cleanup incomplete.
	Severity ErrorSeverity
	// Facility names the OS facility involved, when known.
	Facility string
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := "(no error)"
	if e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Facility != "" {
		return fmt.Sprintf("[%s/%s] %s: %s", e.Severity, e.Category, e.Facility, msg)
	}
	return fmt.Sprintf("[%s/%s] %s", e.Severity, e.Category, msg)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Err
}

// CategoryOf returns the category of err if it is (or wraps) an *Error,
// and CategoryUnknown otherwise.
func CategoryOf(err error) ErrorCategory {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return CategoryUnknown
}

func newInitError(err error) *Error {
	return &Error{Err: err, Category: CategoryInit, Severity: SeverityError}
}

func newAcquireError(err error) *Error {
	return &Error{Err: err, Category: CategoryAcquire, Severity: SeverityError}
}

func newReleaseError(facility string, err error) *Error {
	return &Error{Err: err, Category: CategoryRelease, Severity: SeverityWarning, Facility: facility}
}
