package registry

import (
	"io/fs"
	"log/slog"
	"path"
	"strings"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/pkg/fileutil"
)

// Document is one registry file as found on disk.
type Document struct {
	// Path is slash-separated and relative to the registry root.
	Path string
	Data []byte
	// Err is set when the file could not be read. A missing file carries
	// fs.ErrNotExist.
	Err error
}

// CategoryDir is a category directory and the tool manifests inside it.
type CategoryDir struct {
	Dir      string
	Category Document
	Tools    []ToolDir
}

// ToolDir is a tool directory that contains a manifest.
type ToolDir struct {
	Dir      string
	Manifest Document
}

// Tree is the raw result of walking a registry root.
type Tree struct {
	Categories []CategoryDir
}

// Scan walks fsys and collects every category and manifest document without
// interpreting them. Entries are visited in fs.ReadDir order, which is sorted
// by name. Directories whose names start with a dot are ignored, and tool
// directories without a manifest are skipped.
//
// Only a failure to list the root or a category directory is returned as an
// error; unreadable documents are reported through Document.Err.
func Scan(fsys fs.FS) (*Tree, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, errors.Wrap(err, "reading registry root")
	}

	tree := &Tree{}
	for _, entry := range entries {
		if !entry.IsDir() || hidden(entry.Name()) {
			continue
		}

		cat := CategoryDir{
			Dir:      entry.Name(),
			Category: readDocument(fsys, path.Join(entry.Name(), manifest.CategoryFile)),
		}

		toolEntries, err := fs.ReadDir(fsys, entry.Name())
		if err != nil {
			return nil, errors.Wrapf(err, "reading category directory %s", entry.Name())
		}
		for _, te := range toolEntries {
			if !te.IsDir() || hidden(te.Name()) {
				continue
			}
			dir := path.Join(entry.Name(), te.Name())
			doc := readDocument(fsys, path.Join(dir, manifest.ManifestFile))
			if errors.Is(doc.Err, fs.ErrNotExist) {
				slog.Debug("skipping directory without manifest", "dir", dir)
				continue
			}
			cat.Tools = append(cat.Tools, ToolDir{Dir: dir, Manifest: doc})
		}

		tree.Categories = append(tree.Categories, cat)
	}

	return tree, nil
}

func readDocument(fsys fs.FS, name string) Document {
	data, err := fileutil.ReadFSFileWithLimit(fsys, name)
	return Document{Path: name, Data: data, Err: err}
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
