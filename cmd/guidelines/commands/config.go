package commands

import (
	"fmt"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/guidelines/internal/config"
	"github.com/thoreinstein/guidelines/internal/editor"
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/logging"
	"github.com/thoreinstein/guidelines/internal/paths"
)

var (
	configInitProject bool
	configInitForce   bool
)

// openEditor is replaced in tests.
var openEditor = editor.Open

func init() {
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	configInitCmd.Flags().BoolVar(&configInitProject, "project", false,
		"write ./"+config.ProjectFile+" instead of the user configuration")
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false,
		"replace an existing file")
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show guidelines configuration",
	Long: `Show the effective configuration: defaults, overridden by the config
file, overridden by GUIDELINES_* environment variables.

The file is ./.guidelines.yaml when present, otherwise config.yaml in the
user configuration directory.

Without a subcommand, lists all configuration values.`,
	Example: `  # List all configuration
  guidelines config

  # Get one value
  guidelines config get remote.url
  guidelines config get variables.AUTHOR

  # Where is the file?
  guidelines config path

  # Create one and edit it
  guidelines config init
  guidelines config edit

See Also: guidelines init`,
	RunE: runConfigList,
}

var configGetCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Get a configuration value",
	Long: `Get a single configuration value by key.

Nested keys use dot notation. Template variables are read as
variables.<NAME>, with the name's case preserved.`,
	Example: `  guidelines config get remote.cache_dir
  guidelines config get variables.AUTHOR

See Also: guidelines config list`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: runConfigGet,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all configuration",
	Long:  `List all configuration values in YAML format.`,
	Example: `  guidelines config list

See Also: guidelines config get`,
	RunE: runConfigList,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	Long: `Print the configuration file in use, or where the user configuration
file would be created when none exists.`,
	Example: `  guidelines config path`,
	RunE:    runConfigPath,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a configuration file with the defaults",
	Long: `Write a configuration file holding the default settings, ready to edit.

By default the user configuration file is written. With --project,
./` + config.ProjectFile + ` is written instead; it takes precedence over the user
file whenever guidelines runs in that directory.`,
	Example: `  guidelines config init
  guidelines config init --project

See Also: guidelines config edit`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfigInit,
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the configuration file in $EDITOR",
	Long: `Open the configuration file in your editor.

Uses $EDITOR, then $VISUAL, then nano or vi. The file must exist; create it
with guidelines config init.`,
	Example: `  guidelines config edit
  EDITOR="code --wait" guidelines config edit

See Also: guidelines config init, guidelines config path`,
	Args: userArgs(cobra.NoArgs),
	RunE: runConfigEdit,
}

func runConfigGet(c *cobra.Command, args []string) error {
	key := args[0]
	w := c.OutOrStdout()

	if name, ok := strings.CutPrefix(key, "variables."); ok {
		value, set := currentConfig().Variables[name]
		if !set {
			fmt.Fprintln(w, "not set")
			return nil
		}
		fmt.Fprintln(w, value)
		return nil
	}

	val, ok := config.Get(key)
	if !ok {
		keys := make([]string, 0)
		for k := range config.Settings() {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		return errors.NewUserError(errors.Newf("unknown configuration key %q", key),
			"Known keys: "+strings.Join(keys, ", "))
	}

	switch v := val.(type) {
	case []any:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	case []string:
		for _, item := range v {
			fmt.Fprintln(w, item)
		}
	default:
		fmt.Fprintln(w, v)
	}
	return nil
}

func runConfigList(c *cobra.Command, _ []string) error {
	data, err := yaml.Marshal(currentConfig())
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	fmt.Fprint(c.OutOrStdout(), string(data))
	return nil
}

func runConfigPath(c *cobra.Command, _ []string) error {
	w := c.OutOrStdout()
	if used := config.FileUsed(); used != "" {
		fmt.Fprintln(w, used)
		return nil
	}
	fmt.Fprintf(w, "%s %s\n", config.DefaultFile(), styleDim.Sprint("(not created)"))
	return nil
}

func runConfigInit(c *cobra.Command, _ []string) error {
	path := config.DefaultFile()
	if configInitProject {
		path = config.ProjectFile
	}

	exists, err := paths.Exists(path)
	if err != nil {
		return errors.NewSystemError(err, "")
	}
	if exists && !configInitForce {
		return errors.NewUserError(errors.Newf("%s already exists", path),
			"Run: guidelines config edit, or pass --force to replace it")
	}

	cfg := config.Default()
	// Left empty so the platform default keeps applying.
	cfg.Remote.CacheDir = ""
	if err := config.Write(path, cfg); err != nil {
		return errors.NewSystemError(err, "")
	}

	logging.FromContext(c.Context()).Info("config written", "path", path)
	fmt.Fprintf(c.OutOrStdout(), "%s %s\n", styleGreen.Sprint("Created"), path)
	return nil
}

func runConfigEdit(c *cobra.Command, _ []string) error {
	path := config.FileUsed()
	if path == "" {
		path = config.DefaultFile()
	}
	if ok, _ := paths.Exists(path); !ok {
		return errors.NewUserError(errors.Newf("config file not found at %s", path),
			"Run: guidelines config init")
	}

	fmt.Fprintf(c.OutOrStdout(), "Location: %s\n", path)
	streams := editor.Streams{In: c.InOrStdin(), Out: c.OutOrStdout(), Err: c.ErrOrStderr()}
	if err := openEditor(c.Context(), path, streams); err != nil {
		if errors.Is(err, editor.ErrNoEditor) {
			return errors.NewUserError(err, "Set $EDITOR")
		}
		return errors.NewSystemError(err, "")
	}
	return nil
}
