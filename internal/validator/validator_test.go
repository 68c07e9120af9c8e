package validator

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func TestSeverity_String(t *testing.T) {
	assert.Equal(t, "error", SeverityError.String())
	assert.Equal(t, "warning", SeverityWarning.String())
	assert.Equal(t, "info", SeverityInfo.String())
	assert.Equal(t, "unknown", Severity(99).String())
}

func TestIssue_Error(t *testing.T) {
	tests := []struct {
		name string
		i    Issue
		want string
	}{
		{
			name: "path, field and value",
			i: Issue{
				Severity: SeverityError,
				Path:     "linters/oxlint/manifest.json",
				Field:    "/files/0/strategy",
				Message:  "must be one of copy, merge, append, template",
				Value:    "symlink",
			},
			want: "linters/oxlint/manifest.json: /files/0/strategy: must be one of copy, merge, append, template (got symlink)",
		},
		{
			name: "message only",
			i:    Issue{Severity: SeverityInfo, Message: "category has no tools"},
			want: "category has no tools",
		},
		{
			name: "field without path",
			i:    Issue{Severity: SeverityWarning, Field: "/aliases/0", Message: "shadows tool \"biome\""},
			want: "/aliases/0: shadows tool \"biome\"",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.i.Error())
		})
	}
}

func TestIssue_JSON(t *testing.T) {
	data, err := json.Marshal(Issue{
		Severity: SeverityWarning,
		Path:     "formatters/prettier/manifest.json",
		Message:  "source file not found",
		Context:  map[string]string{"file": ".prettierrc"},
	})
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"severity": "warning",
		"path": "formatters/prettier/manifest.json",
		"message": "source file not found",
		"context": {"file": ".prettierrc"}
	}`, string(data))
}

func TestResult_Merge(t *testing.T) {
	inner := &Result{}
	inner.AddError("/name", "is required", nil)
	inner.Add(Issue{Severity: SeverityWarning, Path: "other.json", Message: "kept"})

	r := &Result{}
	r.Merge("linters/category.json", inner)
	r.Merge("ignored.json", nil)

	require.Len(t, r.Issues, 2)
	assert.Equal(t, "linters/category.json", r.Issues[0].Path, "path is stamped")
	assert.Equal(t, "other.json", r.Issues[1].Path, "existing path is kept")
}

func TestResult_Err(t *testing.T) {
	r := &Result{}
	r.AddWarning("/description", "is empty", nil)
	require.NoError(t, r.Err(), "warnings alone are not an error")

	r.AddError("/name", "is required", nil)
	require.EqualError(t, r.Err(), "/name: is required")

	r.AddError("/files", "must not be empty", nil)
	err := r.Err()
	require.EqualError(t, err, "/name: is required (and 1 more)")
	assert.ElementsMatch(t, []string{"/files: must not be empty", "/name: is required"}, errors.GetAllDetails(err))
}

func TestResult_Filters(t *testing.T) {
	r := &Result{}
	assert.False(t, r.HasErrors())

	r.AddError("/version", "is not semver", "one")
	r.AddWarning("/aliases/0", "duplicate alias", "lint")
	r.Add(Issue{Severity: SeverityInfo, Message: "category has no tools"})

	assert.True(t, r.HasErrors())
	assert.Len(t, r.Errors(), 1)
	assert.Len(t, r.Warnings(), 1)
	assert.Len(t, r.Issues, 3)
}

func TestResult_NilSafety(t *testing.T) {
	var r *Result
	assert.False(t, r.HasErrors())
	assert.Nil(t, r.Errors())
	assert.Nil(t, r.Warnings())
	assert.NoError(t, r.Err())
}
