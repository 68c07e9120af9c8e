package registry

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func categoryJSON(name string) *fstest.MapFile {
	return &fstest.MapFile{Data: fmt.Appendf(nil,
		`{"name":%q,"displayName":%q,"description":"The %s category"}`, name, strings.ToUpper(name), name)}
}

func manifestJSON(name, category string, aliases ...string) *fstest.MapFile {
	quoted := make([]string, len(aliases))
	for i, a := range aliases {
		quoted[i] = fmt.Sprintf("%q", a)
	}
	return &fstest.MapFile{Data: fmt.Appendf(nil, `{
		"name": %q, "displayName": %q, "version": "1.0.0",
		"description": "Config for %s", "category": %q,
		"aliases": [%s], "tags": ["%s-tag"],
		"files": [{"source": "config.json"}]
	}`, name, name, name, category, strings.Join(quoted, ","), name)}
}

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"linters/category.json":                 categoryJSON("linters"),
		"linters/oxlint/manifest.json":          manifestJSON("oxlint", "linters", "oxc"),
		"linters/oxlint/config.json":            {Data: []byte(`{"rules":{}}`)},
		"linters/biome/manifest.json":           manifestJSON("biome", "linters"),
		"linters/biome/config.json":             {Data: []byte(`{}`)},
		"linters/shared-assets/logo.svg":        {Data: []byte("<svg/>")},
		"git-hooks/category.json":               categoryJSON("git-hooks"),
		"git-hooks/lefthook/manifest.json":      manifestJSON("lefthook", "git-hooks", "hooks"),
		"git-hooks/lefthook/config.json":        {Data: []byte(`{}`)},
		"infrastructure/category.json":          categoryJSON("infrastructure"),
		"infrastructure/wrangler/manifest.json": manifestJSON("wrangler", "infrastructure", "cloudflare"),
		"infrastructure/wrangler/config.json":   {Data: []byte(`{}`)},
		".git/HEAD":                             {Data: []byte("ref: refs/heads/main\n")},
		"README.md":                             {Data: []byte("# configs\n")},
	}
}

func TestLoadFS(t *testing.T) {
	reg, err := LoadFS(testTree(), "/srv/configs")
	require.NoError(t, err)

	assert.Equal(t, []string{"git-hooks", "infrastructure", "linters"}, reg.CategoryNames())
	assert.Equal(t, []string{"biome", "lefthook", "oxlint", "wrangler"}, reg.Names())

	cat, tools, ok := reg.Category("linters")
	require.True(t, ok)
	assert.Equal(t, "LINTERS", cat.DisplayName)
	require.Len(t, tools, 2)
	assert.Equal(t, "biome", tools[0].Name, "tools follow directory order")
	assert.Equal(t, "oxlint", tools[1].Name)

	var order []string
	for _, m := range reg.Tools() {
		order = append(order, m.Name)
	}
	assert.Equal(t, []string{"lefthook", "wrangler", "biome", "oxlint"}, order)

	alias, ok := reg.Alias("oxc")
	assert.True(t, ok)
	assert.Equal(t, "oxlint", alias)
}

func TestResolve(t *testing.T) {
	reg, err := LoadFS(testTree(), "")
	require.NoError(t, err)

	tests := []struct {
		input  string
		want   string
		wantOK bool
	}{
		{"oxlint", "oxlint", true},
		{"OXLINT", "oxlint", true},
		{"oxc", "oxlint", true},
		{"OXC", "oxlint", true},
		{"hooks", "lefthook", true},
		{"cloudflare", "wrangler", true},
		{"nonexistent-tool", "", false},
		{"oxl", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, ok := ResolveTool(reg, tt.input)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, m.Name)
			} else {
				assert.Nil(t, m)
			}
		})
	}
}

func TestResolveToolPath(t *testing.T) {
	reg, err := LoadFS(testTree(), "/srv/configs")
	require.NoError(t, err)

	m, _ := reg.Resolve("wrangler")
	assert.Equal(t, filepath.Join("/srv/configs", "infrastructure", "wrangler"), ResolveToolPath(reg, m))

	embedded, err := LoadFS(testTree(), "")
	require.NoError(t, err)
	m, _ = embedded.Resolve("oxlint")
	assert.Equal(t, "linters/oxlint", ResolveToolPath(embedded, m))
}

func TestReadSource(t *testing.T) {
	reg, err := LoadFS(testTree(), "")
	require.NoError(t, err)

	m, _ := reg.Resolve("oxlint")
	data, err := reg.ReadSource(m, "config.json")
	require.NoError(t, err)
	assert.Equal(t, `{"rules":{}}`, string(data))

	_, err = reg.ReadSource(m, "missing.json")
	assert.Error(t, err)
}

func TestLoadFS_InvalidContentAbortsLoad(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(fstest.MapFS)
		wantMsg string
	}{
		{
			name: "malformed manifest",
			mutate: func(fsys fstest.MapFS) {
				fsys["linters/biome/manifest.json"] = &fstest.MapFile{Data: []byte(`{"name": "biome",`)}
			},
			wantMsg: "linters/biome/manifest.json",
		},
		{
			name: "manifest missing files",
			mutate: func(fsys fstest.MapFS) {
				fsys["linters/biome/manifest.json"] = &fstest.MapFile{Data: []byte(
					`{"name":"biome","displayName":"Biome","version":"1.0.0","description":"","category":"linters"}`)}
			},
			wantMsg: "linters/biome/manifest.json",
		},
		{
			name: "missing category descriptor",
			mutate: func(fsys fstest.MapFS) {
				delete(fsys, "git-hooks/category.json")
			},
			wantMsg: "missing category.json",
		},
		{
			name: "unknown category reference",
			mutate: func(fsys fstest.MapFS) {
				fsys["linters/biome/manifest.json"] = manifestJSON("biome", "formatters")
			},
			wantMsg: "references unknown category",
		},
		{
			name: "duplicate tool name",
			mutate: func(fsys fstest.MapFS) {
				fsys["git-hooks/oxlint-copy/manifest.json"] = manifestJSON("oxlint", "git-hooks")
			},
			wantMsg: "duplicate tool name",
		},
		{
			name: "duplicate category name",
			mutate: func(fsys fstest.MapFS) {
				fsys["linters2/category.json"] = categoryJSON("linters")
			},
			wantMsg: "duplicate category name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testTree()
			tt.mutate(fsys)

			reg, err := LoadFS(fsys, "")
			require.Error(t, err)
			assert.Nil(t, reg, "no partial registry is returned")
			assert.True(t, errors.Is(err, ErrInvalidRegistry), "got %v", err)
			assert.Contains(t, err.Error()+strings.Join(errors.GetAllDetails(err), "\n"), tt.wantMsg)
		})
	}
}

func TestAliasCollisionLastWriterWins(t *testing.T) {
	fsys := testTree()
	fsys["linters/biome/manifest.json"] = manifestJSON("biome", "linters", "lint")
	fsys["linters/oxlint/manifest.json"] = manifestJSON("oxlint", "linters", "oxc", "lint")

	reg, err := LoadFS(fsys, "")
	require.NoError(t, err)

	m, ok := reg.Resolve("lint")
	require.True(t, ok)
	assert.Equal(t, "oxlint", m.Name, "oxlint is scanned after biome")

	result, err := Check(fsys)
	require.NoError(t, err)
	require.Len(t, result.Warnings(), 1)
	assert.Contains(t, result.Warnings()[0].Message, "also declared by biome")
}

func TestToolNameTakesPrecedenceOverAlias(t *testing.T) {
	fsys := testTree()
	fsys["linters/oxlint/manifest.json"] = manifestJSON("oxlint", "linters", "oxc", "biome")

	reg, err := LoadFS(fsys, "")
	require.NoError(t, err)

	m, _ := reg.Resolve("biome")
	assert.Equal(t, "biome", m.Name)
}

func TestCheck_ReportsEveryProblem(t *testing.T) {
	fsys := testTree()
	fsys["linters/biome/manifest.json"] = &fstest.MapFile{Data: []byte(`not json`)}
	fsys["git-hooks/lefthook/manifest.json"] = manifestJSON("lefthook", "nowhere")
	delete(fsys, "infrastructure/category.json")

	result, err := Check(fsys)
	require.NoError(t, err)

	paths := map[string]bool{}
	for _, i := range result.Errors() {
		paths[i.Path] = true
	}
	assert.True(t, paths["linters/biome/manifest.json"])
	assert.True(t, paths["git-hooks/lefthook/manifest.json"])
	assert.True(t, paths["infrastructure/category.json"])
}

func TestCheck_NameMismatchWarns(t *testing.T) {
	fsys := testTree()
	fsys["linters/oxc-linter/manifest.json"] = manifestJSON("oxc-linter-renamed", "linters")

	result, err := Check(fsys)
	require.NoError(t, err)
	assert.False(t, result.HasErrors())

	var messages []string
	for _, w := range result.Warnings() {
		messages = append(messages, w.Message)
	}
	assert.Contains(t, messages, "does not match directory name oxc-linter")
	assert.Contains(t, messages, "source file not found", "oxc-linter ships no config.json")
}

func TestLoad_Directory(t *testing.T) {
	dir := t.TempDir()
	for name, f := range testTree() {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, f.Data, 0o644))
	}

	reg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, reg.Root())
	assert.Len(t, reg.Names(), 4)

	m, _ := reg.Resolve("oxc")
	assert.Equal(t, filepath.Join(dir, "linters", "oxlint"), ResolveToolPath(reg, m))
}

func TestLoad_MissingDirectory(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestCategoryLookupIsCaseInsensitive(t *testing.T) {
	reg, err := LoadFS(testTree(), "")
	require.NoError(t, err)

	_, tools, ok := reg.Category("Git-Hooks")
	assert.True(t, ok)
	assert.Len(t, tools, 1)

	_, _, ok = reg.Category("formatters")
	assert.False(t, ok)
}

func TestSentinels(t *testing.T) {
	assert.True(t, errors.Is(ErrToolNotFound, errors.ErrNotFound))
	assert.True(t, errors.Is(ErrCategoryNotFound, errors.ErrNotFound))
	assert.False(t, errors.Is(ErrToolNotFound, ErrCategoryNotFound))
}
