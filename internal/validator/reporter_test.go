package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult() *Result {
	r := &Result{}
	r.Add(Issue{
		Severity: SeverityError,
		Path:     "linters/oxlint/manifest.json",
		Field:    "/name",
		Message:  "is required",
		Context:  map[string]string{"tool": "oxlint", "category": "linters"},
	})
	r.Add(Issue{
		Severity: SeverityWarning,
		Path:     "linters/biome/manifest.json",
		Field:    "/aliases/1",
		Message:  "duplicate alias",
		Value:    "lint",
	})
	r.Add(Issue{
		Severity: SeverityInfo,
		Path:     "testing/category.json",
		Message:  "category has no tools",
	})
	return r
}

func report(t *testing.T, format Format, result *Result) string {
	t.Helper()
	color.NoColor = true
	var buf bytes.Buffer
	require.NoError(t, NewReporter(&buf, format).Report(result))
	return buf.String()
}

func TestReporter_Text(t *testing.T) {
	out := report(t, FormatText, sampleResult())

	assert.True(t, strings.HasPrefix(out, "Validation failed: 1 error(s), 1 warning(s)\n"), out)
	for _, want := range []string{
		"Errors:\n  linters/oxlint/manifest.json\n    • /name: is required (category=linters, tool=oxlint)\n",
		"Warnings:\n  linters/biome/manifest.json\n    • /aliases/1: duplicate alias [lint]\n",
		"Notes:\n  testing/category.json\n    • category has no tools\n",
	} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Errors:"), strings.Index(out, "Warnings:"))
}

func TestReporter_TextOutcomes(t *testing.T) {
	warningsOnly := &Result{}
	warningsOnly.AddWarning("/files/0/source", "source file not found", nil)

	notesOnly := &Result{}
	notesOnly.Add(Issue{Severity: SeverityInfo, Message: "category has no tools"})

	tests := []struct {
		name   string
		result *Result
		want   []string
	}{
		{"nil", nil, []string{"✓ Registry is valid\n"}},
		{"warnings only", warningsOnly, []string{"Validation passed with 1 warning(s)", "  • /files/0/source: source file not found"}},
		{"notes only", notesOnly, []string{"✓ Registry is valid", "Notes:\n  • category has no tools"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := report(t, FormatText, tt.result)
			for _, want := range tt.want {
				assert.Contains(t, out, want)
			}
		})
	}
}

func TestReporter_TruncatesLongValues(t *testing.T) {
	r := &Result{}
	r.AddError("/description", "too long", strings.Repeat("é", 80))

	out := report(t, FormatText, r)

	assert.Contains(t, out, "["+strings.Repeat("é", maxValueWidth-3)+"...]")
}

func TestReporter_JSON(t *testing.T) {
	out := report(t, FormatJSON, sampleResult())

	var decoded struct {
		Valid    bool `json:"valid"`
		Errors   int  `json:"errors"`
		Warnings int  `json:"warnings"`
		Notes    int  `json:"notes"`
		Issues   []struct {
			Severity string `json:"severity"`
			Path     string `json:"path"`
			Value    any    `json:"value"`
		} `json:"issues"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &decoded))

	assert.False(t, decoded.Valid)
	assert.Equal(t, 1, decoded.Errors)
	assert.Equal(t, 1, decoded.Warnings)
	assert.Equal(t, 1, decoded.Notes)
	require.Len(t, decoded.Issues, 3)
	assert.Equal(t, "error", decoded.Issues[0].Severity)
	assert.Equal(t, "lint", decoded.Issues[1].Value)
	assert.Equal(t, "info", decoded.Issues[2].Severity)
}

func TestReporter_JSONEmpty(t *testing.T) {
	out := report(t, FormatJSON, nil)

	assert.JSONEq(t, `{"valid":true,"errors":0,"warnings":0,"notes":0,"issues":[]}`, out)
}
