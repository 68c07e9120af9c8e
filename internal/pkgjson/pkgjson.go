// Package pkgjson adds a tool's dependencies and scripts to a project's
// package.json without touching anything already there.
package pkgjson

import (
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/structured"
	"github.com/thoreinstein/guidelines/pkg/fileutil"
)

// FileName is the descriptor looked for in the target directory.
const FileName = "package.json"

// Sections merged from a manifest, in the order they are processed.
const (
	SectionDevDependencies = "devDependencies"
	SectionDependencies    = "dependencies"
	SectionScripts         = "scripts"
)

// Options control Merge.
type Options struct {
	DryRun bool
}

// Section lists the keys added to one package.json section.
type Section struct {
	Name string
	Keys []string
}

// Result describes what Merge did.
type Result struct {
	Path string
	// Found is false when the target has no package.json.
	Found bool
	Added []Section
	// Written is true when the file was rewritten.
	Written bool
}

// Changed reports whether any key was added.
func (r *Result) Changed() bool {
	return len(r.Added) > 0
}

// Count returns the number of keys added across sections.
func (r *Result) Count() int {
	n := 0
	for _, s := range r.Added {
		n += len(s.Keys)
	}
	return n
}

// Merge adds every devDependency, dependency and script of m that dir's
// package.json lacks. Existing keys are never changed. A missing
// package.json is not created.
func Merge(dir string, m *manifest.Manifest, opts Options) (*Result, error) {
	path := filepath.Join(dir, FileName)
	res := &Result{Path: path}

	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return res, nil
		}
		return nil, errors.Wrapf(err, "reading %s", path)
	}
	res.Found = true

	doc, err := structured.DecodeJSON(data)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	pkg, ok := doc.(*structured.Object)
	if !ok {
		return nil, errors.Newf("%s: top level is not an object", path)
	}

	sections := []struct {
		name   string
		values map[string]string
	}{
		{SectionDevDependencies, m.DevDependencies},
		{SectionDependencies, m.Dependencies},
		{SectionScripts, m.Scripts},
	}
	for _, s := range sections {
		added, err := addMissing(pkg, s.name, s.values)
		if err != nil {
			return nil, errors.Wrapf(err, "%s", path)
		}
		if len(added) > 0 {
			res.Added = append(res.Added, Section{Name: s.name, Keys: added})
		}
	}

	if !res.Changed() || opts.DryRun {
		return res, nil
	}

	out, err := structured.EncodeJSON(pkg)
	if err != nil {
		return nil, err
	}
	if err := fileutil.ReplaceFile(path, out); err != nil {
		return nil, err
	}
	res.Written = true
	return res, nil
}

// addMissing adds values to pkg[name] in sorted key order, creating the
// section only when at least one key is added.
func addMissing(pkg *structured.Object, name string, values map[string]string) ([]string, error) {
	if len(values) == 0 {
		return nil, nil
	}

	section := structured.NewObject()
	existing, found := pkg.Get(name)
	if found {
		obj, ok := existing.(*structured.Object)
		if !ok {
			return nil, errors.Newf("%q is not an object", name)
		}
		section = obj
	}

	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	var added []string
	for _, k := range keys {
		if section.Has(k) {
			continue
		}
		section.Set(k, values[k])
		added = append(added, k)
	}

	if len(added) > 0 && !found {
		pkg.Set(name, section)
	}
	return added, nil
}
