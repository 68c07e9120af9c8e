package configs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/registry"
)

func TestEmbeddedRegistryIsClean(t *testing.T) {
	result, err := registry.Check(FS())
	require.NoError(t, err)
	for _, issue := range result.Issues {
		t.Errorf("unexpected issue: %v", issue)
	}
}

func TestEmbeddedRegistryLoads(t *testing.T) {
	reg, err := registry.LoadFS(FS(), "")
	require.NoError(t, err)

	assert.Len(t, reg.CategoryNames(), 10)
	assert.GreaterOrEqual(t, len(reg.Names()), 16)

	for alias, want := range map[string]string{
		"oxc":        "oxlint",
		"hooks":      "lefthook",
		"cloudflare": "wrangler",
		"gha":        "github-actions",
		"OXLINT":     "oxlint",
	} {
		m, ok := reg.Resolve(alias)
		if assert.True(t, ok, alias) {
			assert.Equal(t, want, m.Name, alias)
		}
	}
}

func TestEmbeddedSourcesAreReadable(t *testing.T) {
	reg, err := registry.LoadFS(FS(), "")
	require.NoError(t, err)

	strategies := map[manifest.Strategy]bool{}
	for _, m := range reg.Tools() {
		for _, f := range m.Files {
			strategies[f.Strategy] = true
			_, err := reg.ReadSource(m, f.Source)
			assert.NoError(t, err, "%s: %s", m.Name, f.Source)
		}
	}
	for _, s := range manifest.Strategies() {
		assert.True(t, strategies[s], "no embedded tool uses the %s strategy", s)
	}
}
