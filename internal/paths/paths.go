package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/thoreinstein/guidelines/internal/errors"
)

// AppName names the application directories under the XDG roots.
const AppName = "guidelines"

// Sentinel errors for path resolution.
var (
	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")

	// ErrOutsideTarget indicates a destination would be written outside the target directory.
	ErrOutsideTarget = errors.New("path escapes target directory")
)

// DefaultDirPerm is the permission for directories created inside a project.
const DefaultDirPerm = 0o755

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0755) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return errors.Wrapf(os.MkdirAll(path, perm), "creating directory %s", path)
}

// EnsureParentDir creates the parent directory of path when it is missing.
func EnsureParentDir(path string) error {
	return EnsureDir(filepath.Dir(path), 0)
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDir returns the guidelines configuration directory.
// Returns: <ConfigHome>/guidelines/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// ConfigFile returns the default configuration file path.
// Returns: <ConfigHome>/guidelines/config.yaml
func ConfigFile() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// RemoteCacheDir returns the directory holding fetched upstream registries.
// Returns: <CacheHome>/guidelines/remote/
func RemoteCacheDir() string {
	return filepath.Join(CacheHome(), AppName, "remote")
}

// ResolveDestination joins a manifest destination onto the target directory.
//
// Destinations are relative, slash-separated paths. Absolute destinations and
// destinations that climb out of targetDir are rejected so a registry cannot
// write outside the project it is applied to.
func ResolveDestination(targetDir, rel string) (string, error) {
	if rel == "" || strings.ContainsRune(rel, '\x00') {
		return "", errors.WithDetailf(ErrInvalidPath, "destination %q", rel)
	}
	local := filepath.FromSlash(rel)
	if filepath.IsAbs(local) || strings.HasPrefix(rel, "/") {
		return "", errors.WithDetailf(ErrOutsideTarget, "destination %q is absolute", rel)
	}

	root := filepath.Clean(targetDir)
	full := filepath.Join(root, local)
	within, err := filepath.Rel(root, full)
	if err != nil || within == ".." || strings.HasPrefix(within, ".."+string(filepath.Separator)) {
		return "", errors.WithDetailf(ErrOutsideTarget, "destination %q", rel)
	}
	return full, nil
}

// Exists reports whether path exists. Errors other than "not exist" are returned.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, errors.Wrapf(err, "checking %s", path)
}
