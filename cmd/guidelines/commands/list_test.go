package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func TestList_Categories(t *testing.T) {
	stdout, _, code := run(t, "list")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "Available Categories")
	assert.Contains(t, stdout, "linters")
	assert.Contains(t, stdout, "(3 tools)")
	assert.Contains(t, stdout, "git-hooks")
}

func TestList_Category(t *testing.T) {
	stdout, _, code := run(t, "list", "linters")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "Linters")
	assert.Contains(t, stdout, "oxlint")
	assert.Contains(t, stdout, "v1.14.0")
	assert.Contains(t, stdout, "aliases: oxc")
}

func TestList_JSON(t *testing.T) {
	stdout, _, code := run(t, "list", "--json")
	require.Equal(t, errors.ExitSuccess, code)

	var got []struct {
		Name  string `json:"name"`
		Tools int    `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	require.NotEmpty(t, got)

	counts := make(map[string]int)
	for _, c := range got {
		counts[c.Name] = c.Tools
	}
	assert.Equal(t, 3, counts["linters"])
}

func TestList_CategoryJSON(t *testing.T) {
	stdout, _, code := run(t, "list", "linters", "--json")
	require.Equal(t, errors.ExitSuccess, code)

	var got struct {
		Name  string `json:"name"`
		Tools []struct {
			Name string `json:"name"`
		} `json:"tools"`
	}
	require.NoError(t, json.Unmarshal([]byte(stdout), &got))
	assert.Equal(t, "linters", got.Name)

	var names []string
	for _, tool := range got.Tools {
		names = append(names, tool.Name)
	}
	assert.Contains(t, names, "oxlint")
}

func TestList_UnknownCategory(t *testing.T) {
	_, stderr, code := run(t, "list", "nope")

	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, stderr, `unknown category "nope"`)
	assert.Contains(t, stderr, "Available:")
	assert.Contains(t, stderr, "linters")
}
