package commands

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/configs"
	"github.com/thoreinstein/guidelines/internal/config"
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/logging"
	"github.com/thoreinstein/guidelines/internal/registry"
	"github.com/thoreinstein/guidelines/internal/remote"
)

// fetchRemote is replaced in tests.
var fetchRemote = func(c *cobra.Command, cfg config.Remote, refresh bool, logger *slog.Logger) (string, error) {
	var gitOut io.Writer = io.Discard
	if verbosity > 0 {
		gitOut = c.ErrOrStderr()
	}
	f := remote.NewFetcher(cfg.CacheDir, gitOut, logger)
	return f.Fetch(c.Context(), remote.Source{URL: cfg.URL, Ref: cfg.Ref, Subdir: cfg.Subdir}, refresh)
}

// registryDir picks the registry directory: --remote, then --configs-dir,
// then configs_dir from the configuration. Empty means the embedded one.
func registryDir(c *cobra.Command) (string, error) {
	cfg := currentConfig()
	logger := logging.FromContext(c.Context())

	switch {
	case remoteFlag:
		dir, err := fetchRemote(c, cfg.Remote, refreshFlag, logger)
		if err != nil {
			return "", errors.NewSystemError(errors.Wrap(err, "fetching remote registry"),
				"Check remote.url in "+config.DefaultFile()+" or drop --remote to use the built-in registry")
		}
		return dir, nil
	case configsDirFlag != "":
		return configsDirFlag, nil
	default:
		return cfg.ConfigsDir, nil
	}
}

// loadRegistry loads the registry selected by the global flags.
func loadRegistry(c *cobra.Command) (*registry.Registry, error) {
	dir, err := registryDir(c)
	if err != nil {
		return nil, err
	}

	var reg *registry.Registry
	if dir == "" {
		reg, err = registry.LoadFS(configs.FS(), "")
	} else {
		reg, err = registry.Load(dir)
	}
	if err != nil {
		if errors.Is(err, registry.ErrInvalidRegistry) {
			return nil, errors.NewRegistryError(err)
		}
		return nil, errors.NewSystemError(err, "")
	}

	logging.FromContext(c.Context()).Debug("registry loaded",
		"root", reg.Root(), "categories", len(reg.CategoryNames()), "tools", len(reg.Names()))
	return reg, nil
}

// currentConfig returns the loaded configuration or the defaults.
func currentConfig() *config.Config {
	if appConfig != nil {
		return appConfig
	}
	return config.Default()
}
