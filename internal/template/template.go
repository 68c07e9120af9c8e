// Package template substitutes {{KEY}} placeholders in registry files.
//
// Substitution is plain text replacement. The key is the exact text between
// the braces, so "{{ KEY }}" and GitHub Actions expressions such as
// "${{ secrets.TOKEN }}" only match a variable literally named " KEY " or
// " secrets.TOKEN ". Placeholders without a value are left untouched and
// substituted values are never scanned again.
package template

import (
	"slices"
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

// Render replaces every {{KEY}} in content whose KEY is in vars.
func Render(content string, vars map[string]string) string {
	if len(vars) == 0 || !strings.Contains(content, openDelim) {
		return content
	}

	var b strings.Builder
	b.Grow(len(content))

	rest := content
	for {
		i := strings.Index(rest, openDelim)
		if i < 0 {
			b.WriteString(rest)
			return b.String()
		}
		b.WriteString(rest[:i])
		rest = rest[i:]

		key, ok := placeholderAt(rest)
		if !ok {
			b.WriteByte(rest[0])
			rest = rest[1:]
			continue
		}
		value, known := vars[key]
		if !known {
			// Shift by one so a nested "{{{KEY}}}" can still match at the
			// next position.
			b.WriteByte(rest[0])
			rest = rest[1:]
			continue
		}
		b.WriteString(value)
		rest = rest[len(openDelim)+len(key)+len(closeDelim):]
	}
}

// Placeholders returns the distinct keys referenced in content, sorted.
func Placeholders(content string) []string {
	var keys []string
	for rest := content; ; {
		i := strings.Index(rest, openDelim)
		if i < 0 {
			break
		}
		rest = rest[i:]
		if key, ok := placeholderAt(rest); ok && key != "" {
			keys = append(keys, key)
			rest = rest[len(openDelim)+len(key)+len(closeDelim):]
			continue
		}
		rest = rest[1:]
	}
	slices.Sort(keys)
	return slices.Compact(keys)
}

// Missing returns the placeholders of content that vars does not provide.
func Missing(content string, vars map[string]string) []string {
	var missing []string
	for _, key := range Placeholders(content) {
		if _, ok := vars[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing
}

// placeholderAt parses "{{KEY}}" at the start of s. The key may not contain
// braces or line breaks.
func placeholderAt(s string) (string, bool) {
	if !strings.HasPrefix(s, openDelim) {
		return "", false
	}
	body := s[len(openDelim):]
	end := strings.Index(body, closeDelim)
	if end < 0 {
		return "", false
	}
	key := body[:end]
	if strings.ContainsAny(key, "{}\n\r") {
		return "", false
	}
	return key, true
}
