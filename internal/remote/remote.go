// Package remote fetches the upstream configs registry into the user cache.
package remote

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/git"
	"github.com/thoreinstein/guidelines/internal/paths"
)

// ErrSubdirNotFound means the fetched repository has no registry at the
// configured subdirectory.
var ErrSubdirNotFound = errors.New("registry directory not found in remote")

// Source identifies a remote registry.
type Source struct {
	URL string
	// Ref is a branch or tag; empty means the default branch.
	Ref string
	// Subdir is the registry root inside the repository.
	Subdir string
}

// Fetcher keeps one shallow clone per Source under CacheDir.
type Fetcher struct {
	CacheDir string
	// Out receives git output.
	Out    io.Writer
	Logger *slog.Logger

	clone func(ctx context.Context, url, dest string, opts git.CloneOptions) error
	pull  func(ctx context.Context, repoPath string, out io.Writer) error
}

// NewFetcher returns a Fetcher that clones into cacheDir.
func NewFetcher(cacheDir string, out io.Writer, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{
		CacheDir: cacheDir,
		Out:      out,
		Logger:   logger,
		clone:    git.Clone,
		pull:     git.Pull,
	}
}

// CachePath returns where src is cloned.
func (f *Fetcher) CachePath(src Source) string {
	sum := sha256.Sum256([]byte(src.URL + "#" + src.Ref))
	return filepath.Join(f.CacheDir, git.RepoName(src.URL)+"-"+hex.EncodeToString(sum[:])[:12])
}

// Fetch returns the local registry directory for src. An existing clone is
// reused as is unless refresh is set, in which case it is fast-forwarded.
// A cache directory that is not a git checkout is replaced.
func (f *Fetcher) Fetch(ctx context.Context, src Source, refresh bool) (string, error) {
	if err := git.ValidateURL(src.URL); err != nil {
		return "", err
	}

	dir := f.CachePath(src)
	log := f.Logger.With("url", src.URL, "cache", dir)

	switch exists, err := paths.Exists(dir); {
	case err != nil:
		return "", err
	case exists && git.ValidateRemote(dir) == nil:
		if refresh {
			log.Info("updating remote registry")
			if err := f.pull(ctx, dir, f.Out); err != nil {
				return "", errors.Wrapf(err, "updating %s", src.URL)
			}
		} else {
			log.Debug("using cached remote registry")
		}
	default:
		if exists {
			log.Warn("replacing invalid cache directory")
			if err := os.RemoveAll(dir); err != nil {
				return "", errors.Wrapf(err, "removing %s", dir)
			}
		}
		if err := f.cloneInto(ctx, src, dir); err != nil {
			return "", err
		}
	}

	root := dir
	if src.Subdir != "" {
		root = filepath.Join(dir, filepath.FromSlash(src.Subdir))
	}
	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		return "", errors.WithDetailf(ErrSubdirNotFound, "%q in %s", src.Subdir, src.URL)
	}
	return root, nil
}

// cloneInto clones next to dir and renames, so an interrupted clone never
// leaves a half-populated cache entry.
func (f *Fetcher) cloneInto(ctx context.Context, src Source, dir string) error {
	if err := paths.EnsureDir(f.CacheDir, 0); err != nil {
		return err
	}

	tmp, err := os.MkdirTemp(f.CacheDir, ".clone-*")
	if err != nil {
		return errors.Wrap(err, "creating temp directory")
	}
	defer os.RemoveAll(tmp)

	f.Logger.Info("fetching remote registry", "url", src.URL, "ref", src.Ref)
	checkout := filepath.Join(tmp, "repo")
	if err := f.clone(ctx, src.URL, checkout, git.CloneOptions{Depth: 1, Ref: src.Ref, Output: f.Out}); err != nil {
		return errors.Wrapf(err, "cloning %s", src.URL)
	}

	if err := os.Rename(checkout, dir); err != nil {
		return errors.Wrap(err, "moving clone into cache")
	}
	return nil
}
