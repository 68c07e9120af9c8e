package errors

import (
	"fmt"

	crdb "github.com/cockroachdb/errors"
)

// Exit codes for the guidelines CLI.
const (
	// ExitSuccess indicates the command completed successfully.
	ExitSuccess = 0

	// ExitUser indicates a user-related error (unknown tool, bad flag, invalid registry).
	ExitUser = 1

	// ExitSystem indicates a system-related error (I/O, permissions, git).
	ExitSystem = 2
)

// Sentinel errors shared across packages.
var (
	// ErrNotFound indicates a requested tool, category or alias does not exist.
	ErrNotFound = crdb.New("not found")

	// ErrInvalidConfig indicates the user configuration failed validation.
	ErrInvalidConfig = crdb.New("invalid configuration")

	// ErrInvalidInput indicates malformed command-line input.
	ErrInvalidInput = crdb.New("invalid input")
)

// New creates an error with a stack trace.
func New(msg string) error {
	return crdb.NewWithDepth(1, msg)
}

// Newf creates a formatted error with a stack trace.
func Newf(format string, args ...any) error {
	return crdb.NewWithDepthf(1, format, args...)
}

// Wrap annotates err with msg. It returns nil when err is nil.
func Wrap(err error, msg string) error {
	return crdb.WrapWithDepth(1, err, msg)
}

// Wrapf annotates err with a formatted message. It returns nil when err is nil.
func Wrapf(err error, format string, args ...any) error {
	return crdb.WrapWithDepthf(1, err, format, args...)
}

// WithDetail attaches a user-facing detail to err.
func WithDetail(err error, detail string) error {
	return crdb.WithDetail(err, detail)
}

// WithDetailf attaches a formatted user-facing detail to err.
func WithDetailf(err error, format string, args ...any) error {
	return crdb.WithDetailf(err, format, args...)
}

// GetAllDetails returns every detail attached anywhere in err's chain.
func GetAllDetails(err error) []string {
	return crdb.GetAllDetails(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return crdb.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target any) bool {
	return crdb.As(err, target)
}

// Mark makes err match reference under Is without changing its message.
func Mark(err, reference error) error {
	return crdb.Mark(err, reference)
}

// Join combines errs into a single error, skipping nils.
func Join(errs ...error) error {
	return crdb.Join(errs...)
}

// ExitError wraps an error with an exit code and optional suggestion for CLI applications.
// It implements the error interface and supports unwrapping via errors.Unwrap.
type ExitError struct {
	// Err is the underlying error that caused the exit.
	Err error

	// Code is the exit code to return to the operating system.
	Code int

	// Suggestion is an optional actionable suggestion for the user.
	Suggestion string
}

// NewUserError creates an ExitError with ExitUser code and a suggestion.
func NewUserError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: suggestion,
	}
}

// NewSystemError creates an ExitError with ExitSystem code and a suggestion.
func NewSystemError(err error, suggestion string) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitSystem,
		Suggestion: suggestion,
	}
}

// NewRegistryError reports a configs tree that failed validation.
func NewRegistryError(err error) *ExitError {
	return &ExitError{
		Err:        err,
		Code:       ExitUser,
		Suggestion: "Run: guidelines validate",
	}
}

// Error returns the error message from the underlying error.
// If the underlying error is nil, it returns a generic message with the exit code.
func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

// Unwrap returns the underlying error, enabling errors.Is and errors.As
// to examine the error chain.
func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode extracts the exit code carried by err.
// Errors without an ExitError in their chain map to ExitSystem; nil maps to ExitSuccess.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitSystem
}

// Suggestion returns the first suggestion found in err's chain, if any.
func Suggestion(err error) string {
	var exitErr *ExitError
	if crdb.As(err, &exitErr) {
		return exitErr.Suggestion
	}
	return ""
}
