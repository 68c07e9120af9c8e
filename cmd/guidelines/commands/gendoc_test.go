package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func TestGenDoc_Markdown(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "docs")

	stdout, _, code := run(t, "gen-doc", "--dir", dir)

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "Documentation generated")

	data, err := os.ReadFile(filepath.Join(dir, "guidelines_init.md"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `title: "init"`)
	assert.Contains(t, string(data), "--dry-run")
	assert.FileExists(t, filepath.Join(dir, "guidelines_config_get.md"))
}

func TestGenDoc_Man(t *testing.T) {
	dir := t.TempDir()

	_, _, code := run(t, "gen-doc", "--dir", dir, "--format", "man")

	require.Equal(t, errors.ExitSuccess, code)
	assert.FileExists(t, filepath.Join(dir, "guidelines-list.1"))
}

func TestGenDoc_Errors(t *testing.T) {
	_, stderr, code := run(t, "gen-doc")
	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, stderr, "output directory is required")

	_, _, code = run(t, "gen-doc", "--dir", t.TempDir(), "--format", "pdf")
	assert.Equal(t, errors.ExitUser, code)
}
