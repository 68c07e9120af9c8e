package config

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// Validation errors for configuration fields.
var (
	// ErrUnsupportedVersion indicates a config version this build cannot read.
	ErrUnsupportedVersion = errors.New("unsupported config version")

	// ErrInvalidPath indicates a path value is malformed.
	ErrInvalidPath = errors.New("invalid path")

	// ErrInvalidVariable indicates a variable name that templates cannot reference.
	ErrInvalidVariable = errors.New("invalid variable name")
)

// variableName matches the KEY part of a {{KEY}} placeholder.
var variableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// ValidVariableName reports whether name can be used as a {{NAME}} template
// variable.
func ValidVariableName(name string) bool {
	return variableName.MatchString(name)
}

// Validate checks a Config for validity.
// Returns nil if valid, or a slice of validation errors.
func Validate(cfg *Config) []error {
	if cfg == nil {
		return []error{errors.New("config is nil")}
	}

	var errs []error

	if cfg.Version != 1 {
		errs = append(errs, &FieldError{Field: "version", Value: fmt.Sprint(cfg.Version), Err: ErrUnsupportedVersion})
	}

	for _, f := range []struct{ field, path string }{
		{"configs_dir", cfg.ConfigsDir},
		{"remote.cache_dir", cfg.Remote.CacheDir},
	} {
		if err := validatePath(f.path); err != nil {
			errs = append(errs, &FieldError{Field: f.field, Value: f.path, Err: err})
		}
	}

	if strings.TrimSpace(cfg.Remote.URL) == "" {
		errs = append(errs, &FieldError{Field: "remote.url", Err: errors.New("must not be empty")})
	}
	if cfg.Remote.Subdir != "" && (filepath.IsAbs(cfg.Remote.Subdir) || strings.HasPrefix(filepath.Clean(cfg.Remote.Subdir), "..")) {
		errs = append(errs, &FieldError{Field: "remote.subdir", Value: cfg.Remote.Subdir, Err: ErrInvalidPath})
	}

	names := make([]string, 0, len(cfg.Variables))
	for name := range cfg.Variables {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !variableName.MatchString(name) {
			errs = append(errs, &FieldError{Field: "variables", Value: name, Err: ErrInvalidVariable})
		}
	}

	return errs
}

// validatePath checks if a path string is well-formed.
// It does not check if the path exists, only that it's syntactically valid.
func validatePath(path string) error {
	// Empty paths are valid (they mean "use default")
	if path == "" {
		return nil
	}

	if strings.ContainsRune(path, '\x00') {
		return ErrInvalidPath
	}

	cleaned := filepath.Clean(path)
	if cleaned == "" || cleaned == "." {
		return ErrInvalidPath
	}

	return nil
}

// FieldError ties a validation error to a configuration key.
type FieldError struct {
	Field string
	Value string
	Err   error
}

func (e *FieldError) Error() string {
	if e.Value == "" {
		return e.Field + ": " + e.Err.Error()
	}
	return e.Field + ": " + e.Err.Error() + ": " + e.Value
}

func (e *FieldError) Unwrap() error {
	return e.Err
}
