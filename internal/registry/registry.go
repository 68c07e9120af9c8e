// Package registry loads a configs tree into an immutable, indexed snapshot
// and resolves tool names against it.
package registry

import (
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/validator"
	"github.com/thoreinstein/guidelines/pkg/fileutil"
)

// Sentinel errors.
var (
	// ErrInvalidRegistry marks a load that failed because of registry content.
	ErrInvalidRegistry = errors.New("invalid registry")

	// ErrToolNotFound is returned when a name matches neither a tool nor an alias.
	ErrToolNotFound = errors.Mark(errors.New("tool not found"), errors.ErrNotFound)

	// ErrCategoryNotFound is returned for an unknown category name.
	ErrCategoryNotFound = errors.Mark(errors.New("category not found"), errors.ErrNotFound)
)

// Registry is the indexed content of a configs tree. It is built once per
// load and never modified afterwards; returned manifests must be treated as
// read-only.
type Registry struct {
	fsys fs.FS
	root string

	categories    map[string]manifest.Category
	categoryOrder []string
	tools         map[string]*manifest.Manifest
	aliases       map[string]string
	byCategory    map[string][]string
	toolDirs      map[string]string
}

// Load reads the configs tree rooted at dir.
func Load(dir string) (*Registry, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "opening registry %s", dir)
	}
	if !info.IsDir() {
		return nil, errors.Newf("registry %s is not a directory", dir)
	}
	return LoadFS(os.DirFS(dir), dir)
}

// LoadFS reads the configs tree at the root of fsys. root is used for
// ResolveToolPath and messages only; it may be empty for embedded trees.
//
// Any invalid document fails the whole load. The returned error is marked
// with ErrInvalidRegistry and carries every problem as a detail.
func LoadFS(fsys fs.FS, root string) (*Registry, error) {
	tree, err := Scan(fsys)
	if err != nil {
		return nil, errors.Wrapf(err, "loading registry %s", displayRoot(root))
	}

	reg, result := build(fsys, root, tree)
	for _, w := range result.Warnings() {
		slog.Debug("registry warning", "issue", w.Error())
	}
	if err := result.Err(); err != nil {
		return nil, errors.Mark(errors.Wrapf(err, "loading registry %s", displayRoot(root)), ErrInvalidRegistry)
	}
	return reg, nil
}

// Check validates the configs tree at the root of fsys and reports every
// problem instead of stopping at the first.
func Check(fsys fs.FS) (*validator.Result, error) {
	tree, err := Scan(fsys)
	if err != nil {
		return nil, err
	}
	_, result := build(fsys, "", tree)
	return result, nil
}

func displayRoot(root string) string {
	if root == "" {
		return "(embedded)"
	}
	return root
}

// build indexes a scanned tree. It always returns a registry holding whatever
// was valid, plus every issue found along the way.
func build(fsys fs.FS, root string, tree *Tree) (*Registry, *validator.Result) {
	reg := &Registry{
		fsys:       fsys,
		root:       root,
		categories: make(map[string]manifest.Category),
		tools:      make(map[string]*manifest.Manifest),
		aliases:    make(map[string]string),
		byCategory: make(map[string][]string),
		toolDirs:   make(map[string]string),
	}
	result := &validator.Result{}

	// Aliases are applied after every tool is known so that shadowing can be
	// detected regardless of scan order.
	type aliasDecl struct {
		alias, tool, file string
		index            int
	}
	var aliasDecls []aliasDecl
	declaredCategory := make(map[string]string)

	for _, cd := range tree.Categories {
		cat, ok := parseCategory(cd, result)
		if !ok {
			continue
		}
		if _, dup := reg.categories[cat.Name]; dup {
			result.Add(issue(cd.Category.Path, "/name", "duplicate category name", cat.Name))
			continue
		}
		if cat.Name != path.Base(cd.Dir) {
			result.Add(warning(cd.Category.Path, "/name", "does not match directory name "+path.Base(cd.Dir), cat.Name))
		}
		reg.categories[cat.Name] = *cat
		reg.categoryOrder = append(reg.categoryOrder, cat.Name)
		reg.byCategory[cat.Name] = []string{}

		for _, td := range cd.Tools {
			m, ok := parseManifest(td, result)
			if !ok {
				continue
			}
			if prev, dup := reg.toolDirs[m.Name]; dup {
				result.Add(issue(td.Manifest.Path, "/name", "duplicate tool name, already defined in "+path.Join(prev, manifest.ManifestFile), m.Name))
				continue
			}
			if m.Name != path.Base(td.Dir) {
				result.Add(warning(td.Manifest.Path, "/name", "does not match directory name "+path.Base(td.Dir), m.Name))
			}

			reg.tools[m.Name] = m
			reg.toolDirs[m.Name] = td.Dir
			reg.byCategory[cat.Name] = append(reg.byCategory[cat.Name], m.Name)
			declaredCategory[m.Name] = cat.Name

			for i, alias := range m.Aliases {
				aliasDecls = append(aliasDecls, aliasDecl{alias: alias, tool: m.Name, file: td.Manifest.Path, index: i})
			}
		}
	}

	// Category references are checked once every category is known.
	for _, name := range reg.Names() {
		m := reg.tools[name]
		file := path.Join(reg.toolDirs[name], manifest.ManifestFile)
		if _, ok := reg.categories[m.Category]; !ok {
			result.Add(issue(file, "/category", "references unknown category", m.Category))
			continue
		}
		if m.Category != declaredCategory[name] {
			result.Add(warning(file, "/category", "tool is stored under category "+declaredCategory[name], m.Category))
		}
	}

	for _, d := range aliasDecls {
		field := "/aliases/" + strconv.Itoa(d.index)
		if _, isTool := reg.tools[d.alias]; isTool && d.alias != d.tool {
			result.Add(warning(d.file, field, "is shadowed by the tool of the same name", d.alias))
		}
		if prev, ok := reg.aliases[d.alias]; ok && prev != d.tool {
			result.Add(warning(d.file, field, "alias also declared by "+prev+"; "+d.tool+" wins", d.alias))
		}
		reg.aliases[d.alias] = d.tool
	}

	for _, name := range reg.Names() {
		dir := reg.toolDirs[name]
		for i, f := range reg.tools[name].Files {
			if f.Strategy == manifest.StrategyReference {
				continue
			}
			if _, err := fs.Stat(fsys, path.Join(dir, path.Clean(f.Source))); err != nil {
				result.Add(warning(path.Join(dir, manifest.ManifestFile), "/files/"+strconv.Itoa(i)+"/source", "source file not found", f.Source))
			}
		}
	}

	for _, name := range reg.categoryOrder {
		if len(reg.byCategory[name]) == 0 {
			result.Add(validator.Issue{
				Severity: validator.SeverityInfo,
				Path:     path.Join(categoryDir(tree, name), manifest.CategoryFile),
				Message:  "category has no tools",
			})
		}
	}

	return reg, result
}

func parseCategory(cd CategoryDir, result *validator.Result) (*manifest.Category, bool) {
	if cd.Category.Err != nil {
		msg := "cannot read " + manifest.CategoryFile + ": " + cd.Category.Err.Error()
		if errors.Is(cd.Category.Err, fs.ErrNotExist) {
			msg = "missing " + manifest.CategoryFile
		}
		result.Add(issue(cd.Category.Path, "", msg, nil))
		return nil, false
	}

	cat, issues, err := manifest.ParseCategory(cd.Category.Data)
	result.Merge(cd.Category.Path, issues)
	if err != nil {
		if issues == nil {
			result.Add(issue(cd.Category.Path, "", err.Error(), nil))
		}
		return nil, false
	}
	return cat, true
}

func parseManifest(td ToolDir, result *validator.Result) (*manifest.Manifest, bool) {
	if td.Manifest.Err != nil {
		result.Add(issue(td.Manifest.Path, "", "cannot read "+manifest.ManifestFile+": "+td.Manifest.Err.Error(), nil))
		return nil, false
	}

	m, issues, err := manifest.ParseManifest(td.Manifest.Data)
	result.Merge(td.Manifest.Path, issues)
	if err != nil {
		if issues == nil {
			result.Add(issue(td.Manifest.Path, "", err.Error(), nil))
		}
		return nil, false
	}
	return m, true
}

func categoryDir(tree *Tree, name string) string {
	for _, cd := range tree.Categories {
		if path.Base(cd.Dir) == name {
			return cd.Dir
		}
	}
	return name
}

func issue(file, field, msg string, value any) validator.Issue {
	return validator.Issue{Severity: validator.SeverityError, Path: file, Field: field, Message: msg, Value: value}
}

func warning(file, field, msg string, value any) validator.Issue {
	return validator.Issue{Severity: validator.SeverityWarning, Path: file, Field: field, Message: msg, Value: value}
}

// Root returns the root the registry was loaded from, empty for embedded trees.
func (r *Registry) Root() string {
	return r.root
}

// Categories returns every category in scan order.
func (r *Registry) Categories() []manifest.Category {
	out := make([]manifest.Category, 0, len(r.categoryOrder))
	for _, name := range r.categoryOrder {
		out = append(out, r.categories[name])
	}
	return out
}

// Category returns a category and its tools in scan order. The lookup is
// case-insensitive.
func (r *Registry) Category(name string) (manifest.Category, []*manifest.Manifest, bool) {
	name = strings.ToLower(name)
	cat, ok := r.categories[name]
	if !ok {
		return manifest.Category{}, nil, false
	}
	tools := make([]*manifest.Manifest, 0, len(r.byCategory[name]))
	for _, t := range r.byCategory[name] {
		tools = append(tools, r.tools[t])
	}
	return cat, tools, true
}

// CategoryNames returns every category name in scan order.
func (r *Registry) CategoryNames() []string {
	return slices.Clone(r.categoryOrder)
}

// Tools returns every tool grouped by category, in scan order.
func (r *Registry) Tools() []*manifest.Manifest {
	out := make([]*manifest.Manifest, 0, len(r.tools))
	for _, cat := range r.categoryOrder {
		for _, name := range r.byCategory[cat] {
			out = append(out, r.tools[name])
		}
	}
	return out
}

// Names returns every canonical tool name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.tools))
	for name := range r.tools {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Alias returns the canonical tool name an alias points to.
func (r *Registry) Alias(alias string) (string, bool) {
	name, ok := r.aliases[strings.ToLower(alias)]
	return name, ok
}

// Resolve maps a tool name or alias to its manifest. The input is
// lower-cased; tool names take precedence over aliases. There is no fuzzy
// or partial matching.
func (r *Registry) Resolve(nameOrAlias string) (*manifest.Manifest, bool) {
	lower := strings.ToLower(nameOrAlias)
	if m, ok := r.tools[lower]; ok {
		return m, true
	}
	if canonical, ok := r.aliases[lower]; ok {
		m, ok := r.tools[canonical]
		return m, ok
	}
	return nil, false
}

// ResolveTool is the function form of Registry.Resolve.
func ResolveTool(reg *Registry, nameOrAlias string) (*manifest.Manifest, bool) {
	return reg.Resolve(nameOrAlias)
}

// ResolveToolPath returns the directory holding m's files: the registry root
// joined with the tool's category and directory name. For an embedded
// registry the path is relative to the embedded tree.
func ResolveToolPath(reg *Registry, m *manifest.Manifest) string {
	dir, ok := reg.toolDirs[m.Name]
	if !ok {
		dir = path.Join(m.Category, m.Name)
	}
	if reg.root == "" {
		return dir
	}
	return filepath.Join(reg.root, filepath.FromSlash(dir))
}

// ReadSource returns the content of one of m's source files.
func (r *Registry) ReadSource(m *manifest.Manifest, source string) ([]byte, error) {
	dir, ok := r.toolDirs[m.Name]
	if !ok {
		return nil, errors.Wrapf(ErrToolNotFound, "reading %s", source)
	}
	name := path.Join(dir, path.Clean(source))
	data, err := fileutil.ReadFSFileWithLimit(r.fsys, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading source %s of %s", source, m.Name)
	}
	return data, nil
}
