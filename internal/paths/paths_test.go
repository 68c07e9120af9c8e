package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/thoreinstein/guidelines/internal/errors"
)

func TestConfigHome(t *testing.T) {
	got := ConfigHome()
	if got == "" {
		t.Error("ConfigHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("ConfigHome() = %q, want absolute path", got)
	}
}

func TestCacheHome(t *testing.T) {
	got := CacheHome()
	if got == "" {
		t.Error("CacheHome() returned empty string")
	}
	if !filepath.IsAbs(got) {
		t.Errorf("CacheHome() = %q, want absolute path", got)
	}
}

func TestAppDirs(t *testing.T) {
	if !strings.HasSuffix(ConfigFile(), filepath.Join(AppName, "config.yaml")) {
		t.Errorf("ConfigFile() = %q, want suffix %q", ConfigFile(), filepath.Join(AppName, "config.yaml"))
	}
	if filepath.Dir(ConfigFile()) != ConfigDir() {
		t.Errorf("ConfigFile() %q not inside ConfigDir() %q", ConfigFile(), ConfigDir())
	}
	if !strings.HasPrefix(RemoteCacheDir(), CacheHome()) {
		t.Errorf("RemoteCacheDir() = %q, want under %q", RemoteCacheDir(), CacheHome())
	}
}

func TestResolveDestination(t *testing.T) {
	target := t.TempDir()

	tests := []struct {
		name    string
		rel     string
		want    string
		wantErr error
	}{
		{"simple file", ".oxlintrc.json", filepath.Join(target, ".oxlintrc.json"), nil},
		{"nested file", ".github/workflows/ci.yml", filepath.Join(target, ".github", "workflows", "ci.yml"), nil},
		{"dot segments inside target", "a/../b.txt", filepath.Join(target, "b.txt"), nil},
		{"empty", "", "", ErrInvalidPath},
		{"absolute", "/etc/passwd", "", ErrOutsideTarget},
		{"escapes target", "../outside.txt", "", ErrOutsideTarget},
		{"escapes after descent", "a/../../outside.txt", "", ErrOutsideTarget},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveDestination(target, tt.rel)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveDestination(%q) error = %v, want %v", tt.rel, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveDestination(%q) unexpected error: %v", tt.rel, err)
			}
			if got != tt.want {
				t.Errorf("ResolveDestination(%q) = %q, want %q", tt.rel, got, tt.want)
			}
		})
	}
}

func TestEnsureParentDir(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a", "b", "c.txt")

	if err := EnsureParentDir(target); err != nil {
		t.Fatalf("EnsureParentDir() error = %v", err)
	}
	info, err := os.Stat(filepath.Join(dir, "a", "b"))
	if err != nil {
		t.Fatalf("parent not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("parent is not a directory")
	}

	// Idempotent
	if err := EnsureParentDir(target); err != nil {
		t.Errorf("second EnsureParentDir() error = %v", err)
	}
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "present.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	ok, err := Exists(file)
	if err != nil || !ok {
		t.Errorf("Exists(present) = %v, %v; want true, nil", ok, err)
	}
	ok, err = Exists(filepath.Join(dir, "missing.txt"))
	if err != nil || ok {
		t.Errorf("Exists(missing) = %v, %v; want false, nil", ok, err)
	}
}
