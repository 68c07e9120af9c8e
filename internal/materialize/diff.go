package materialize

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// diffContext is how many unchanged lines are kept around each change.
const diffContext = 3

type diffLine struct {
	op   diffmatchpatch.Operation
	text string
}

// lineDiff compares before and after line by line.
func lineDiff(before, after string) []diffLine {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(before, after)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out []diffLine
	for _, d := range diffs {
		text := strings.TrimSuffix(d.Text, "\n")
		for _, line := range strings.Split(text, "\n") {
			out = append(out, diffLine{op: d.Type, text: line})
		}
	}
	return out
}

// writeDiff prints a unified-style patch, collapsing long unchanged runs.
func writeDiff(w io.Writer, path string, before, after []byte) {
	lines := lineDiff(string(before), string(after))

	keep := make([]bool, len(lines))
	for i, l := range lines {
		if l.op == diffmatchpatch.DiffEqual {
			continue
		}
		for j := max(0, i-diffContext); j <= min(len(lines)-1, i+diffContext); j++ {
			keep[j] = true
		}
	}

	added := color.New(color.FgGreen)
	removed := color.New(color.FgRed)
	faint := color.New(color.FgHiBlack)

	fmt.Fprintln(w, faint.Sprintf("    --- a/%s", path))
	fmt.Fprintln(w, faint.Sprintf("    +++ b/%s", path))

	skipping := false
	for i, l := range lines {
		if !keep[i] {
			if !skipping {
				fmt.Fprintln(w, faint.Sprint("    @@ ... @@"))
				skipping = true
			}
			continue
		}
		skipping = false

		switch l.op {
		case diffmatchpatch.DiffInsert:
			fmt.Fprintln(w, added.Sprint("    +"+l.text))
		case diffmatchpatch.DiffDelete:
			fmt.Fprintln(w, removed.Sprint("    -"+l.text))
		default:
			fmt.Fprintln(w, "     "+l.text)
		}
	}
}
