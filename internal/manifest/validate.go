package manifest

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/Masterminds/semver/v3"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/validator"
)

//go:embed schema/manifest.schema.json
var manifestSchemaJSON []byte

//go:embed schema/category.schema.json
var categorySchemaJSON []byte

var (
	compileOnce    sync.Once
	manifestSchema *jsonschema.Schema
	categorySchema *jsonschema.Schema
	compileErr     error
	printer        = message.NewPrinter(language.English)
)

// schemas compiles the embedded JSON Schemas once.
func schemas() (*jsonschema.Schema, *jsonschema.Schema, error) {
	compileOnce.Do(func() {
		c := jsonschema.NewCompiler()
		c.AssertFormat()

		for name, raw := range map[string][]byte{
			"manifest.schema.json": manifestSchemaJSON,
			"category.schema.json": categorySchemaJSON,
		} {
			doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
			if err != nil {
				compileErr = errors.Wrapf(err, "unmarshaling %s", name)
				return
			}
			if err := c.AddResource(name, doc); err != nil {
				compileErr = errors.Wrapf(err, "adding schema resource %s", name)
				return
			}
		}

		if manifestSchema, compileErr = c.Compile("manifest.schema.json"); compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling manifest schema")
			return
		}
		if categorySchema, compileErr = c.Compile("category.schema.json"); compileErr != nil {
			compileErr = errors.Wrap(compileErr, "compiling category schema")
		}
	})
	return manifestSchema, categorySchema, compileErr
}

// ValidateManifest checks raw manifest.json bytes and reports every problem.
// The error return is reserved for schema compilation failures.
func ValidateManifest(data []byte) (*validator.Result, error) {
	_, result, err := checkManifest(data)
	return result, err
}

// ValidateCategory checks raw category.json bytes and reports every problem.
func ValidateCategory(data []byte) (*validator.Result, error) {
	_, result, err := checkCategory(data)
	return result, err
}

func checkManifest(data []byte) (*Manifest, *validator.Result, error) {
	schema, _, err := schemas()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading schema")
	}

	result := &validator.Result{}
	if !schemaCheck(schema, data, result) {
		return nil, result, nil
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		result.AddError("", "decoding manifest: "+err.Error(), nil)
		return nil, result, nil
	}
	m.applyDefaults()
	semanticChecks(&m, result)

	return &m, result, nil
}

func checkCategory(data []byte) (*Category, *validator.Result, error) {
	_, schema, err := schemas()
	if err != nil {
		return nil, nil, errors.Wrap(err, "loading schema")
	}

	result := &validator.Result{}
	if !schemaCheck(schema, data, result) {
		return nil, result, nil
	}

	var c Category
	if err := json.Unmarshal(data, &c); err != nil {
		result.AddError("", "decoding category: "+err.Error(), nil)
		return nil, result, nil
	}
	return &c, result, nil
}

// schemaCheck validates data against schema, recording issues in result.
// It reports whether the document is well-formed and schema-valid.
func schemaCheck(schema *jsonschema.Schema, data []byte, result *validator.Result) bool {
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		result.AddError("", "invalid JSON: "+err.Error(), nil)
		return false
	}

	err = schema.Validate(inst)
	if err == nil {
		return true
	}

	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		result.AddError("", err.Error(), nil)
		return false
	}
	for _, issue := range extractIssues(ve) {
		result.Add(issue)
	}
	return false
}

// extractIssues walks the ValidationError tree and returns leaf-level issues.
func extractIssues(ve *jsonschema.ValidationError) []validator.Issue {
	var issues []validator.Issue
	collectIssues(ve, &issues)

	if len(issues) == 0 {
		return []validator.Issue{{Severity: validator.SeverityError, Message: ve.Error()}}
	}
	return dedupe(issues)
}

func collectIssues(ve *jsonschema.ValidationError, issues *[]validator.Issue) {
	if len(ve.Causes) > 0 {
		for _, cause := range ve.Causes {
			collectIssues(cause, issues)
		}
		return
	}

	if ve.ErrorKind == nil {
		return
	}
	keyword := ""
	if kw := ve.ErrorKind.KeywordPath(); len(kw) > 0 {
		keyword = kw[len(kw)-1]
	}
	// Container keywords only say that a child failed.
	if keyword == "" || keyword == "allOf" || keyword == "$ref" {
		return
	}

	field := ""
	if len(ve.InstanceLocation) > 0 {
		field = "/" + strings.Join(ve.InstanceLocation, "/")
	}

	*issues = append(*issues, validator.Issue{
		Severity: validator.SeverityError,
		Field:    field,
		Message:  ve.ErrorKind.LocalizedString(printer),
		Context:  map[string]string{"keyword": keyword},
	})
}

func dedupe(issues []validator.Issue) []validator.Issue {
	seen := make(map[string]bool, len(issues))
	var out []validator.Issue
	for _, i := range issues {
		key := i.Field + "|" + i.Context["keyword"] + "|" + i.Message
		if !seen[key] {
			seen[key] = true
			out = append(out, i)
		}
	}
	return out
}

// semanticChecks covers rules JSON Schema cannot express.
func semanticChecks(m *Manifest, result *validator.Result) {
	if _, err := semver.NewVersion(m.Version); err != nil {
		result.AddWarning("/version", "is not a semantic version", m.Version)
	}

	seen := make(map[string]int, len(m.Files))
	for i, f := range m.Files {
		if !isRelative(f.Source) {
			result.AddError(indexed("/files", i, "source"), "must be a relative path inside the tool directory", f.Source)
		}
		if f.Destination != "" && !isRelative(f.Destination) {
			result.AddError(indexed("/files", i, "destination"), "must be a relative path inside the target directory", f.Destination)
		}
		if f.Strategy == StrategyReference {
			continue
		}
		target := path.Clean(f.Target())
		if prev, dup := seen[target]; dup {
			result.AddWarning(indexed("/files", i, "destination"), "duplicates the destination of "+indexed("/files", prev, ""), f.Target())
		}
		seen[target] = i
	}

	for i, alias := range m.Aliases {
		if alias == m.Name {
			result.AddWarning(indexed("/aliases", i, ""), "repeats the tool name", alias)
		}
	}
	for i, r := range m.Requires {
		if strings.EqualFold(r, m.Name) {
			result.AddError(indexed("/requires", i, ""), "a tool cannot require itself", r)
		}
	}
}

// isRelative reports whether p stays inside its base directory.
func isRelative(p string) bool {
	if p == "" || path.IsAbs(p) || strings.HasPrefix(p, `\`) || strings.Contains(p, "\x00") {
		return false
	}
	if len(p) > 1 && p[1] == ':' {
		return false
	}
	clean := path.Clean(p)
	return clean != ".." && !strings.HasPrefix(clean, "../")
}

func indexed(base string, i int, field string) string {
	s := base + "/" + strconv.Itoa(i)
	if field != "" {
		s += "/" + field
	}
	return s
}
