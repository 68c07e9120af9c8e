package structured

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// Format is a structured document syntax.
type Format string

const (
	JSON Format = "json"
	YAML Format = "yaml"
	TOML Format = "toml"
)

// ErrMalformed marks documents that could not be parsed.
var ErrMalformed = errors.New("malformed document")

// ParseError reports which side of a merge failed to parse.
type ParseError struct {
	// Side is "destination" or "source".
	Side   string
	Format Format
	Err    error
}

func (e *ParseError) Error() string {
	return e.Side + " is not valid " + strings.ToUpper(string(e.Format)) + ": " + e.Err.Error()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FormatOf picks the format from a file name's extension. Anything that is
// not YAML or TOML is treated as JSON.
func FormatOf(name string) Format {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML
	case ".toml":
		return TOML
	default:
		return JSON
	}
}

// MergeDocuments folds src into dst, both in format f. Existing values in
// dst always win. When nothing is added, dst is returned byte for byte and
// changed is false.
func MergeDocuments(f Format, dst, src []byte) (out []byte, changed bool, err error) {
	switch f {
	case YAML:
		return mergeYAMLDocuments(dst, src)
	case TOML:
		return mergeTOMLDocuments(dst, src)
	default:
		return mergeJSONDocuments(dst, src)
	}
}

func parseErr(side string, f Format, err error) error {
	return errors.Mark(&ParseError{Side: side, Format: f, Err: err}, ErrMalformed)
}

func mergeJSONDocuments(dst, src []byte) ([]byte, bool, error) {
	s, err := DecodeJSON(src)
	if err != nil {
		return nil, false, parseErr("source", JSON, err)
	}
	if isBlank(dst) {
		// An empty destination is filled from the source as-is.
		return src, true, nil
	}
	d, err := DecodeJSON(dst)
	if err != nil {
		return nil, false, parseErr("destination", JSON, err)
	}

	merged, changed := Merge(d, s)
	if !changed {
		return dst, false, nil
	}
	out, err := EncodeJSON(merged)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func mergeYAMLDocuments(dst, src []byte) ([]byte, bool, error) {
	d, err := decodeYAML(dst)
	if err != nil {
		return nil, false, parseErr("destination", YAML, err)
	}
	s, err := decodeYAML(src)
	if err != nil {
		return nil, false, parseErr("source", YAML, err)
	}

	switch {
	case s == nil:
		return dst, false, nil
	case d == nil:
		return src, true, nil
	}

	if !mergeYAMLNodes(d.Content[0], s.Content[0]) {
		return dst, false, nil
	}
	out, err := encodeYAML(d)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func mergeTOMLDocuments(dst, src []byte) ([]byte, bool, error) {
	d, err := decodeTOML(dst)
	if err != nil {
		return nil, false, parseErr("destination", TOML, err)
	}
	s, err := decodeTOML(src)
	if err != nil {
		return nil, false, parseErr("source", TOML, err)
	}

	if !mergeMaps(d, s) {
		return dst, false, nil
	}
	out, err := encodeTOML(d)
	if err != nil {
		return nil, false, err
	}
	return out, true, nil
}

func isBlank(data []byte) bool {
	return strings.TrimSpace(string(data)) == ""
}
