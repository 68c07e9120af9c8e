// Package git wraps the git command line for cloning and updating the remote
// configs registry.
package git

import (
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// ErrInvalidURL is returned for URLs git should not be handed.
var ErrInvalidURL = errors.New("invalid git URL")

// scpLike matches user@host:path/repo.git.
var scpLike = regexp.MustCompile(`^[A-Za-z0-9._-]+@[A-Za-z0-9.-]+:[A-Za-z0-9._/~-]+\.git$`)

var allowedSchemes = []string{"https://", "http://", "ssh://", "git://", "file://"}

// ValidateURL rejects anything other than a known scheme or an scp-like
// address. Option-looking values and transport helpers such as ext:: are
// refused.
func ValidateURL(url string) error {
	switch {
	case url == "":
		return errors.WithDetail(ErrInvalidURL, "URL is empty")
	case strings.HasPrefix(url, "-"):
		return errors.WithDetailf(ErrInvalidURL, "%q looks like a command line option", url)
	}

	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(url, scheme) && len(url) > len(scheme) {
			return nil
		}
	}
	if scpLike.MatchString(url) {
		return nil
	}
	return errors.WithDetailf(ErrInvalidURL, "%q must use one of %s or user@host:path.git",
		url, strings.Join(allowedSchemes, ", "))
}

// CloneOptions tune Clone.
type CloneOptions struct {
	// Depth limits history; zero clones everything.
	Depth int
	// Ref is a branch or tag to check out instead of the default branch.
	Ref string
	// Output receives git's progress. Nil discards it.
	Output io.Writer
}

// Clone clones url into dest.
func Clone(ctx context.Context, url, dest string, opts CloneOptions) error {
	if err := ValidateURL(url); err != nil {
		return err
	}

	args := []string{"clone", "--quiet"}
	if opts.Depth > 0 {
		args = append(args, "--depth="+strconv.Itoa(opts.Depth))
	}
	if opts.Ref != "" {
		args = append(args, "--branch", opts.Ref)
	}
	args = append(args, "--", url, dest)

	if err := run(ctx, opts.Output, args...); err != nil {
		return errors.Wrap(err, "git clone failed")
	}
	return nil
}

// Pull performs a fast-forward-only pull in repoPath.
func Pull(ctx context.Context, repoPath string, out io.Writer) error {
	if err := run(ctx, out, "-C", repoPath, "pull", "--quiet", "--ff-only"); err != nil {
		return errors.Wrap(err, "git pull failed")
	}
	return nil
}

func run(ctx context.Context, out io.Writer, args ...string) error {
	if out == nil {
		out = io.Discard
	}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = out
	cmd.Stderr = out
	// Never block on a credential prompt.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")
	return cmd.Run()
}

// ValidateRemote checks if repoPath is a valid git repository by verifying
// the existence of a .git directory.
func ValidateRemote(repoPath string) error {
	gitDir := filepath.Join(repoPath, ".git")
	info, err := os.Stat(gitDir)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Newf("not a git repository: %s", repoPath)
		}
		return errors.Wrap(err, "checking git directory")
	}
	if !info.IsDir() {
		return errors.Newf(".git is not a directory: %s", gitDir)
	}
	return nil
}

// RepoName derives a short name from a git URL: the last path segment,
// lowercased, without the .git suffix.
func RepoName(url string) string {
	// Handle SSH URLs (git@github.com:user/repo.git)
	if strings.HasPrefix(url, "git@") {
		if colonIdx := strings.LastIndex(url, ":"); colonIdx != -1 {
			url = url[colonIdx+1:]
		}
	}

	name := filepath.Base(strings.TrimRight(url, "/"))
	name = strings.TrimSuffix(name, ".git")
	return strings.ToLower(name)
}
