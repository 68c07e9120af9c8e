// Package errors provides error handling conventions for the guidelines CLI.
//
// It re-exports the construction and wrapping helpers of
// github.com/cockroachdb/errors so that every package creates errors the same
// way, and defines the exit code taxonomy used by the command layer.
//
// # Sentinel Errors
//
// Sentinel errors allow callers to check for specific error conditions
// using [Is]:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    // handle not found case
//	}
//
// # Exit Codes
//
//   - ExitSuccess (0): Command completed successfully
//   - ExitUser (1): Unknown tool/category/alias, invalid flags, broken registry
//   - ExitSystem (2): I/O, permission, or git failures
//
// # ExitError
//
// [ExitError] wraps an underlying error with an exit code and optional
// suggestion. The entry point uses [ExitCode] and [Suggestion] to turn any
// returned error into a process exit status:
//
//	err := errors.NewUserError(registry.ErrToolNotFound, "Run: guidelines list")
//	os.Exit(errors.ExitCode(err))
package errors
