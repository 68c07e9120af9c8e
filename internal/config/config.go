// Package config provides configuration management for guidelines using Viper.
package config

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/paths"
	"github.com/thoreinstein/guidelines/pkg/fileutil"
)

// EnvPrefix is the prefix of environment variable overrides,
// e.g. GUIDELINES_REMOTE_URL.
const EnvPrefix = "GUIDELINES"

// ProjectFile is the per-project configuration file, looked up in the
// working directory before the user configuration.
const ProjectFile = ".guidelines.yaml"

// Defaults for the remote registry.
const (
	DefaultRemoteURL    = "https://github.com/danielbodnar/guidelines.git"
	DefaultRemoteSubdir = "configs"
)

// Config represents the top-level configuration structure.
type Config struct {
	Version    int    `mapstructure:"version" yaml:"version"`
	ConfigsDir string `mapstructure:"configs_dir" yaml:"configs_dir,omitempty"`
	Remote     Remote `mapstructure:"remote" yaml:"remote"`

	// Variables are default template variables. They are read straight from
	// the YAML file because Viper folds map keys to lower case.
	Variables map[string]string `mapstructure:"-" yaml:"variables,omitempty"`
}

// Remote describes where the upstream registry is fetched from.
type Remote struct {
	URL      string `mapstructure:"url" yaml:"url"`
	Ref      string `mapstructure:"ref" yaml:"ref,omitempty"`
	Subdir   string `mapstructure:"subdir" yaml:"subdir"`
	CacheDir string `mapstructure:"cache_dir" yaml:"cache_dir,omitempty"`
}

// Init resets Viper and registers search paths, env overrides and defaults.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(userConfigDir())

	viper.SetEnvPrefix(EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	viper.SetDefault("version", 1)
	viper.SetDefault("configs_dir", "")
	viper.SetDefault("remote.url", DefaultRemoteURL)
	viper.SetDefault("remote.ref", "")
	viper.SetDefault("remote.subdir", DefaultRemoteSubdir)
	viper.SetDefault("remote.cache_dir", paths.RemoteCacheDir())
}

// userConfigDir honors GUIDELINES_CONFIG_DIR so tests and CI can point the
// lookup somewhere hermetic.
func userConfigDir() string {
	if dir := os.Getenv(EnvPrefix + "_CONFIG_DIR"); dir != "" {
		return dir
	}
	return paths.ConfigDir()
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file. Otherwise
// ./.guidelines.yaml is used when present, then the user configuration.
// A missing file is only an error when path was given explicitly.
func Load(path string) (*Config, error) {
	switch {
	case path != "":
		viper.SetConfigFile(path)
	default:
		if ok, _ := paths.Exists(ProjectFile); ok {
			viper.SetConfigFile(ProjectFile)
		}
	}

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		switch {
		case errors.As(err, &notFound) && path == "":
			// no file anywhere; defaults apply
		case errors.Is(err, fs.ErrNotExist) || errors.As(err, &notFound):
			return nil, errors.Wrapf(err, "config file not found at %s", path)
		default:
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if used := viper.ConfigFileUsed(); used != "" {
		vars, err := readVariables(used)
		if err != nil {
			return nil, err
		}
		cfg.Variables = vars
	}

	if errs := Validate(&cfg); len(errs) > 0 {
		return nil, errors.Wrap(errors.Join(errs...), "validating config")
	}

	return &cfg, nil
}

// FileUsed returns the configuration file Viper read, or "" if none.
func FileUsed() string {
	return viper.ConfigFileUsed()
}

// DefaultFile returns where the user configuration file lives.
func DefaultFile() string {
	return filepath.Join(userConfigDir(), "config.yaml")
}

// Settings returns every known key with its effective value, flattened to
// dotted keys.
func Settings() map[string]any {
	out := make(map[string]any)
	for _, key := range viper.AllKeys() {
		out[key] = viper.Get(key)
	}
	return out
}

// Get returns the effective value of a dotted key and whether it is known.
func Get(key string) (any, bool) {
	key = strings.ToLower(key)
	if !viper.IsSet(key) {
		return nil, false
	}
	return viper.Get(key), true
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Version: 1,
		Remote: Remote{
			URL:      DefaultRemoteURL,
			Subdir:   DefaultRemoteSubdir,
			CacheDir: paths.RemoteCacheDir(),
		},
	}
}

// Write validates cfg and saves it to path as YAML, creating the parent
// directory.
func Write(path string, cfg *Config) error {
	if errs := Validate(cfg); len(errs) > 0 {
		return errors.Join(errs...)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	if err := paths.EnsureParentDir(path); err != nil {
		return err
	}
	return errors.Wrapf(fileutil.ReplaceFile(path, data), "writing config %s", path)
}

func readVariables(path string) (map[string]string, error) {
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", path)
	}

	var raw struct {
		Variables map[string]string `yaml:"variables"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrapf(err, "parsing variables in %s", path)
	}
	return raw.Variables, nil
}
