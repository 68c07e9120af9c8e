package logging

import (
	"os"

	"golang.org/x/term"
)

// isTerminal is replaced in tests.
var isTerminal = term.IsTerminal

// IsTTY reports whether f (an *os.File or anything with an Fd method, such
// as os.Stdin or a color.Output wrapper) is attached to a terminal.
func IsTTY(f any) bool {
	fd, ok := f.(interface{ Fd() uintptr })
	return ok && isTerminal(int(fd.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to f.
// NO_COLOR (any value) and TERM=dumb turn colors off.
func SupportsColor(f any) bool {
	return !colorDisabled() && IsTTY(f)
}

func colorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}
