package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// maxValueWidth caps the offending value shown after an issue.
const maxValueWidth = 50

// Reporter writes a Result for `guidelines validate`.
type Reporter struct {
	out    io.Writer
	format Format
}

func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{out: out, format: format}
}

// Report writes result. A nil result is reported as valid.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		result = &Result{}
	}
	if r.format == FormatJSON {
		return r.reportJSON(result)
	}
	r.reportText(result)
	return nil
}

type jsonReport struct {
	Valid    bool    `json:"valid"`
	Errors   int     `json:"errors"`
	Warnings int     `json:"warnings"`
	Notes    int     `json:"notes"`
	Issues   []Issue `json:"issues"`
}

func (r *Reporter) reportJSON(result *Result) error {
	report := jsonReport{
		Valid:    !result.HasErrors(),
		Errors:   len(result.Errors()),
		Warnings: len(result.Warnings()),
		Notes:    len(result.Notes()),
		Issues:   result.Issues,
	}
	if report.Issues == nil {
		report.Issues = []Issue{}
	}

	enc := json.NewEncoder(r.out)
	enc.SetIndent("", "  ")
	return errors.Wrap(enc.Encode(report), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) {
	errs, warnings, notes := result.Errors(), result.Warnings(), result.Notes()

	switch {
	case len(errs) > 0:
		fmt.Fprintf(r.out, "Validation failed: %s\n\n", summary(len(errs), len(warnings)))
	case len(warnings) > 0:
		fmt.Fprintf(r.out, "Validation passed with %s\n\n", summary(0, len(warnings)))
	default:
		fmt.Fprintln(r.out, color.GreenString("✓ Registry is valid"))
		if len(notes) > 0 {
			fmt.Fprintln(r.out)
		}
	}

	r.section("Errors:", errs, color.New(color.FgRed))
	r.section("Warnings:", warnings, color.New(color.FgYellow))
	r.section("Notes:", notes, color.New(color.FgCyan))
}

func summary(errs, warnings int) string {
	var parts []string
	if errs > 0 {
		parts = append(parts, color.RedString("%d error(s)", errs))
	}
	if warnings > 0 {
		parts = append(parts, color.YellowString("%d warning(s)", warnings))
	}
	return strings.Join(parts, ", ")
}

// section prints issues grouped by file, files sorted, issues in the
// order they were found.
func (r *Reporter) section(title string, issues []Issue, c *color.Color) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out, title)

	byPath := make(map[string][]Issue)
	for _, i := range issues {
		byPath[i.Path] = append(byPath[i.Path], i)
	}

	bold := color.New(color.Bold)
	for _, path := range slices.Sorted(maps.Keys(byPath)) {
		indent := "  "
		if path != "" {
			fmt.Fprintf(r.out, "  %s\n", bold.Sprint(path))
			indent = "    "
		}
		for _, i := range byPath[path] {
			fmt.Fprintf(r.out, "%s• %s\n", indent, formatIssue(i, c))
		}
	}
	fmt.Fprintln(r.out)
}

func formatIssue(i Issue, c *color.Color) string {
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	if i.Field != "" {
		sb.WriteString(c.Sprint(i.Field))
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)

	if len(i.Context) > 0 {
		parts := make([]string, 0, len(i.Context))
		for _, k := range slices.Sorted(maps.Keys(i.Context)) {
			parts = append(parts, k+"="+i.Context[k])
		}
		sb.WriteString(" ")
		sb.WriteString(dim.Sprintf("(%s)", strings.Join(parts, ", ")))
	}

	if i.Value != nil {
		val := []rune(fmt.Sprint(i.Value))
		if len(val) > maxValueWidth {
			val = append(val[:maxValueWidth-3], []rune("...")...)
		}
		sb.WriteString(dim.Sprintf(" [%s]", string(val)))
	}
	return sb.String()
}
