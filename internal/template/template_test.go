package template

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestRender(t *testing.T) {
	vars := map[string]string{
		"PROJECT_NAME": "acme",
		"NODE_VERSION": "22",
		"EMPTY":        "",
	}

	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"no placeholders", "plain text\n", "plain text\n"},
		{"single", "name = {{PROJECT_NAME}}", "name = acme"},
		{"repeated", "{{PROJECT_NAME}}-{{PROJECT_NAME}}", "acme-acme"},
		{"adjacent", "{{PROJECT_NAME}}{{NODE_VERSION}}", "acme22"},
		{"empty value", "[{{EMPTY}}]", "[]"},
		{"unknown left verbatim", "{{UNKNOWN}} and {{PROJECT_NAME}}", "{{UNKNOWN}} and acme"},
		{"spaces are part of the key", "{{ PROJECT_NAME }}", "{{ PROJECT_NAME }}"},
		{"actions expression untouched", "token: ${{ secrets.GITHUB_TOKEN }}", "token: ${{ secrets.GITHUB_TOKEN }}"},
		{"unterminated", "{{PROJECT_NAME", "{{PROJECT_NAME"},
		{"triple braces", "{{{PROJECT_NAME}}}", "{acme}"},
		{"line break in key", "{{PROJECT\n_NAME}}", "{{PROJECT\n_NAME}}"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Render(tt.content, vars))
		})
	}
}

func TestRender_NotRecursive(t *testing.T) {
	vars := map[string]string{"A": "{{B}}", "B": "nope"}
	assert.Equal(t, "x{{B}}y", Render("x{{A}}y", vars))
}

func TestRender_NilVars(t *testing.T) {
	assert.Equal(t, "{{A}}", Render("{{A}}", nil))
}

func TestPlaceholders(t *testing.T) {
	got := Placeholders("{{B}} {{A}} {{B}} ${{ x }} {{}} {{unterminated")
	assert.Equal(t, []string{" x ", "A", "B"}, got)
	assert.Empty(t, Placeholders("nothing here"))
}

func TestMissing(t *testing.T) {
	got := Missing("{{A}} {{B}} {{C}}", map[string]string{"B": "b"})
	assert.Equal(t, []string{"A", "C"}, got)
}

var keyGen = rapid.StringMatching(`[A-Z_][A-Z0-9_]{0,10}`)

// braceless draws text that cannot form or complete a placeholder.
var braceless = rapid.StringMatching(`[^{}]{0,20}`)

func TestRender_SubstitutesKnownKeys(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		key := keyGen.Draw(rt, "key")
		value := rapid.String().Draw(rt, "value")
		prefix := braceless.Draw(rt, "prefix")
		suffix := braceless.Draw(rt, "suffix")

		got := Render(prefix+"{{"+key+"}}"+suffix, map[string]string{key: value})
		if got != prefix+value+suffix {
			rt.Fatalf("Render = %q, want %q", got, prefix+value+suffix)
		}
	})
}

func TestRender_UnknownKeysAreVerbatim(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		content := rapid.String().Draw(rt, "content")
		key := keyGen.Draw(rt, "key")
		if strings.Contains(content, "{{"+key+"}}") {
			rt.Skip("content references the drawn key")
		}

		if got := Render(content, map[string]string{key: "value"}); got != content {
			rt.Fatalf("Render changed content without known keys: %q -> %q", content, got)
		}
	})
}

func TestRender_ValuesAreNotRescanned(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := keyGen.Draw(rt, "a")
		b := keyGen.Draw(rt, "b")
		if a == b {
			rt.Skip("keys must differ")
		}
		vars := map[string]string{a: "{{" + b + "}}", b: "expanded"}

		if got := Render("{{"+a+"}}", vars); got != "{{"+b+"}}" {
			rt.Fatalf("Render = %q, want the raw value", got)
		}
	})
}
