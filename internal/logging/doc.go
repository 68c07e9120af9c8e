// Package logging provides structured logging for the guidelines CLI using slog.
//
// Text output goes through [Handler], which prints compact colorized lines on
// a terminal and masks values that look like credentials. JSON output uses
// the standard [slog.JSONHandler] with the same masking applied through
// ReplaceAttr. A log file, when configured, always receives JSON.
//
// # Basic Usage
//
//	logger := logging.New(logging.Config{
//		Level:  logging.LevelFromVerbosity(verbosity),
//		Format: logging.FormatText,
//		Output: os.Stderr,
//	})
//	ctx = logging.NewContext(ctx, logger)
//
// Packages that do work on behalf of a command pull the logger back out with
// [FromContext].
//
// # Testing
//
// For tests, use [ForTest] to capture log output via the testing framework:
//
//	func TestSomething(t *testing.T) {
//		logger := logging.ForTest(t)
//		// logs appear in test output on failure
//	}
package logging
