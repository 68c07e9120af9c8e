// Package fileutil provides file system helpers used when writing into a
// project: atomic replacement and size-limited reads.
package fileutil

import (
	"os"
	"path/filepath"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// DefaultFilePerm is the mode given to files that did not exist before.
const DefaultFilePerm = 0o644

// ReplaceFile writes data to path so that readers see either the old or the
// new content, never a partial file. Parent directories are created. An
// existing file keeps its permission bits; a new one gets DefaultFilePerm.
//
// When path is a symlink the file it points to is replaced and the link is
// kept, so dotfiles managed through links stay linked.
func ReplaceFile(path string, data []byte) error {
	path, err := resolveLink(path)
	if err != nil {
		return err
	}

	perm := os.FileMode(DefaultFilePerm)
	switch info, err := os.Stat(path); {
	case err == nil && info.IsDir():
		return errors.Newf("%s is a directory", path)
	case err == nil:
		perm = info.Mode().Perm()
	case !os.IsNotExist(err):
		return errors.Wrapf(err, "checking %s", path)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, "creating parent directory for %s", path)
	}
	return errors.Wrapf(writeAtomic(path, data, perm), "writing %s", path)
}

// resolveLink follows path through any symlinks. A dangling link resolves
// to the path it names, so writing creates the link's target.
func resolveLink(path string) (string, error) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		return path, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "checking %s", path)
	}
	if info.Mode()&os.ModeSymlink == 0 {
		return path, nil
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if !os.IsNotExist(err) {
		return "", errors.Wrapf(err, "resolving symlink %s", path)
	}

	target, err := os.Readlink(path)
	if err != nil {
		return "", errors.Wrapf(err, "reading symlink %s", path)
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	return resolveLink(target)
}

// writeAtomic stages data in a temp file next to path and renames it into
// place. The temp file is removed on any failure.
func writeAtomic(path string, data []byte, perm os.FileMode) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".guidelines-*.tmp")
	if err != nil {
		return errors.Wrap(err, "creating temp file")
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return errors.Wrap(err, "writing temp file")
	}
	if err = tmp.Chmod(perm); err != nil {
		return errors.Wrap(err, "setting file permissions")
	}
	if err = tmp.Sync(); err != nil {
		return errors.Wrap(err, "syncing temp file")
	}
	if err = tmp.Close(); err != nil {
		return errors.Wrap(err, "closing temp file")
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(err, "renaming temp file")
	}
	return nil
}
