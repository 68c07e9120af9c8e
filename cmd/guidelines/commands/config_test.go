package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/config"
	"github.com/thoreinstein/guidelines/internal/editor"
	"github.com/thoreinstein/guidelines/internal/errors"
)

func TestConfigList_Defaults(t *testing.T) {
	stdout, _, code := run(t, "config")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "version: 1")
	assert.Contains(t, stdout, "url: "+config.DefaultRemoteURL)
	assert.Contains(t, stdout, "subdir: "+config.DefaultRemoteSubdir)
}

func TestConfigList_File(t *testing.T) {
	writeConfigFile(t, "version: 1\nremote:\n  url: https://example.com/configs.git\n  ref: v2\nvariables:\n  AUTHOR: Jane Doe\n")

	stdout, _, code := run(t, "config", "list")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "url: https://example.com/configs.git")
	assert.Contains(t, stdout, "ref: v2")
	assert.Contains(t, stdout, "AUTHOR: Jane Doe")
}

func TestConfigGet(t *testing.T) {
	writeConfigFile(t, "version: 1\nvariables:\n  AUTHOR: Jane Doe\n")

	tests := []struct {
		key  string
		want string
	}{
		{"remote.url", config.DefaultRemoteURL},
		{"remote.subdir", config.DefaultRemoteSubdir},
		{"version", "1"},
		{"variables.AUTHOR", "Jane Doe"},
		{"variables.MISSING", "not set"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			stdout, _, code := run(t, "config", "get", tt.key)
			require.Equal(t, errors.ExitSuccess, code)
			assert.Equal(t, tt.want+"\n", stdout)
		})
	}
}

func TestConfigGet_EnvOverride(t *testing.T) {
	t.Setenv("GUIDELINES_REMOTE_URL", "https://example.com/env.git")

	stdout, _, code := run(t, "config", "get", "remote.url")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Equal(t, "https://example.com/env.git\n", stdout)
}

func TestConfigGet_UnknownKey(t *testing.T) {
	_, stderr, code := run(t, "config", "get", "no.such.key")

	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, stderr, `unknown configuration key "no.such.key"`)
	assert.Contains(t, stderr, "remote.url")
}

func TestConfigPath(t *testing.T) {
	stdout, _, code := run(t, "config", "path")

	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "config.yaml")
	assert.Contains(t, stdout, "(not created)")

	writeConfigFile(t, "version: 1\n")
	stdout, _, code = run(t, "config", "path")
	require.Equal(t, errors.ExitSuccess, code)
	assert.NotContains(t, stdout, "(not created)")
}

func TestConfigInit(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("GUIDELINES_CONFIG_DIR", dir)

	stdout, _, code := run(t, "config", "init")
	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, "Created")

	data, err := os.ReadFile(filepath.Join(dir, "config.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "url: "+config.DefaultRemoteURL)
	assert.NotContains(t, string(data), "cache_dir")

	_, stderr, code := run(t, "config", "init")
	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, stderr, "already exists")

	_, _, code = run(t, "config", "init", "--force")
	assert.Equal(t, errors.ExitSuccess, code)
}

func TestConfigInit_Project(t *testing.T) {
	t.Chdir(t.TempDir())

	_, _, code := run(t, "config", "init", "--project")
	require.Equal(t, errors.ExitSuccess, code)
	assert.FileExists(t, config.ProjectFile)

	stdout, _, code := run(t, "config", "path")
	require.Equal(t, errors.ExitSuccess, code)
	assert.Contains(t, stdout, config.ProjectFile)
}

func TestConfigInit_ReplacesBrokenFile(t *testing.T) {
	writeConfigFile(t, "version: 2\n")

	_, _, code := run(t, "config", "init", "--force")
	require.Equal(t, errors.ExitSuccess, code)

	_, _, code = run(t, "list")
	assert.Equal(t, errors.ExitSuccess, code)
}

func TestConfigEdit(t *testing.T) {
	orig := openEditor
	t.Cleanup(func() { openEditor = orig })

	var opened string
	openEditor = func(_ context.Context, path string, _ editor.Streams) error {
		opened = path
		return nil
	}

	_, stderr, code := run(t, "config", "edit")
	assert.Equal(t, errors.ExitUser, code)
	assert.Contains(t, stderr, "guidelines config init")
	assert.Empty(t, opened)

	writeConfigFile(t, "version: 1\n")
	stdout, _, code := run(t, "config", "edit")
	require.Equal(t, errors.ExitSuccess, code)
	assert.Equal(t, "config.yaml", filepath.Base(opened))
	assert.Contains(t, stdout, "Location:")
}
