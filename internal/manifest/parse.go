package manifest

import (
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/validator"
)

// ErrInvalid is wrapped by every parse failure caused by the document itself.
var ErrInvalid = errors.New("invalid document")

// ParseManifest validates and decodes manifest.json bytes. Absent optional
// fields are filled with empty values and file strategies default to copy.
// Warnings do not fail parsing; they are returned alongside the manifest.
func ParseManifest(data []byte) (*Manifest, *validator.Result, error) {
	m, result, err := checkManifest(data)
	if err != nil {
		return nil, nil, err
	}
	if err := invalid(result); err != nil {
		return nil, result, err
	}
	return m, result, nil
}

// ParseCategory validates and decodes category.json bytes.
func ParseCategory(data []byte) (*Category, *validator.Result, error) {
	c, result, err := checkCategory(data)
	if err != nil {
		return nil, nil, err
	}
	if err := invalid(result); err != nil {
		return nil, result, err
	}
	return c, result, nil
}

func invalid(result *validator.Result) error {
	if err := result.Err(); err != nil {
		return errors.Mark(err, ErrInvalid)
	}
	return nil
}
