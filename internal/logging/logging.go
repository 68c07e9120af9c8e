package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"testing"
)

// Format selects how console records are rendered (--log-format).
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat converts a --log-format value. The empty string means text.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(s); f {
	case "":
		return FormatText, true
	case FormatText, FormatJSON:
		return f, true
	default:
		return "", false
	}
}

// Config describes the two log sinks of a command run: the console, in the
// chosen format, and an optional --log-file that always gets JSON. Both
// share Level and both mask secrets.
type Config struct {
	Level  slog.Level
	Format Format
	// Output is the console; nil means os.Stderr.
	Output io.Writer
	File   io.Writer
}

// New builds the logger for cfg. Unknown formats render as text.
func New(cfg Config) *slog.Logger {
	out := cfg.Output
	if out == nil {
		out = os.Stderr
	}

	console := consoleHandler(out, cfg.Format, cfg.Level)
	if cfg.File == nil {
		return slog.New(console)
	}
	return slog.New(NewMultiHandler(console, jsonHandler(cfg.File, cfg.Level)))
}

func consoleHandler(out io.Writer, f Format, level slog.Level) slog.Handler {
	if f == FormatJSON {
		return jsonHandler(out, level)
	}
	// Handler masks values itself while formatting.
	return NewHandler(out, &slog.HandlerOptions{Level: level})
}

// jsonHandler masks through ReplaceAttr since slog.JSONHandler writes
// attribute values verbatim.
func jsonHandler(out io.Writer, level slog.Level) slog.Handler {
	return slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level, ReplaceAttr: redactAttr})
}

type testWriter struct {
	t testing.TB
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// ForTest returns a trace-level logger writing through t.Log, so records
// show up only for failing tests or with -v.
func ForTest(t testing.TB) *slog.Logger {
	t.Helper()
	return New(Config{Level: LevelTrace, Output: &testWriter{t: t}})
}
