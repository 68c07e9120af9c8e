// Package commands implements the CLI commands for guidelines.
package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/cmd"
	"github.com/thoreinstein/guidelines/internal/config"
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/logging"
)

// verbosity holds the count of -v flags.
var verbosity int

// quiet holds the value of the -q/--quiet flag.
var quiet bool

// logFormat holds the value of the --log-format flag.
var logFormat string

// logFile holds the path to the log file.
var logFile string

// remoteFlag selects the upstream registry instead of the embedded one.
var remoteFlag bool

// refreshFlag forces the cached upstream registry to be updated.
var refreshFlag bool

// configsDirFlag points at a registry directory on disk.
var configsDirFlag string

// appConfig is the loaded configuration; defaults when no file exists.
var appConfig *config.Config

// configLoadErr holds any error that occurred during config loading.
var configLoadErr error

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v",
		"increase verbosity level (e.g., -v, -vv)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false,
		"suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text",
		"log format: text, json")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "",
		"write logs to file in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&remoteFlag, "remote", "r", false,
		"use the upstream registry fetched with git")
	rootCmd.PersistentFlags().BoolVar(&refreshFlag, "refresh", false,
		"update the cached upstream registry (with --remote)")
	rootCmd.PersistentFlags().StringVar(&configsDirFlag, "configs-dir", "",
		"load the registry from this directory")

	rootCmd.SetVersionTemplate("guidelines version {{.Version}}\n")

	// Silence errors and usage so we can control error output
	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return errors.NewUserError(errors.Mark(err, errors.ErrInvalidInput), "Run: "+c.CommandPath()+" --help")
	})
}

// userArgs marks positional argument errors as user errors.
func userArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(c *cobra.Command, args []string) error {
		if err := check(c, args); err != nil {
			return errors.NewUserError(errors.Mark(err, errors.ErrInvalidInput), "Run: "+c.CommandPath()+" --help")
		}
		return nil
	}
}

func initConfig() {
	config.Init()
	// Capture load errors for later reporting
	appConfig, configLoadErr = config.Load("")
}

var rootCmd = &cobra.Command{
	Use:   "guidelines",
	Short: "Shared config files for linters, formatters, editors, CI and more",
	Long: `guidelines copies curated tool configuration into a project.

Each tool in the registry ships its config files together with a strategy
for placing them: copy, merge into an existing file, render a template, or
append to a shared file. Dev dependencies and scripts are added to an
existing package.json.

The registry embedded in the binary is used by default. Use --configs-dir
to point at a registry on disk, or --remote to fetch the upstream one.`,
	Example: `  # Browse what is available
  guidelines list
  guidelines list linters

  # Inspect a tool
  guidelines info oxlint

  # Add configs to the current project
  guidelines init oxlint lefthook
  guidelines init --category linters --dry-run

  See Also: guidelines search, guidelines validate`,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		// Initialize logging first
		if err := setupLogging(cmd); err != nil {
			return err
		}
		return checkConfig(cmd)
	},
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// setupLogging configures the default logger based on verbosity flags.
func setupLogging(cmd *cobra.Command) error {
	if quiet && verbosity > 0 {
		return errors.NewUserError(errors.New("cannot use --quiet and --verbose together"), "")
	}

	format, ok := logging.ParseFormat(logFormat)
	if !ok {
		return errors.NewUserError(errors.Newf("unknown log format %q", logFormat), "Use --log-format text or --log-format json")
	}

	var level slog.Level
	if quiet {
		level = slog.LevelError
	} else {
		v := verbosity

		// CLI flags take precedence, but if not set, check env var
		if v == 0 {
			if val, ok := os.LookupEnv(config.EnvPrefix + "_DEBUG"); ok {
				switch val {
				case "1", "true":
					v = 2 // Debug
				case "2":
					v = 3 // Trace
				}
			}
		}
		level = logging.LevelFromVerbosity(v)
	}

	cfg := logging.Config{
		Level:  level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	}
	if logFile != "" {
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return errors.NewUserError(errors.Wrap(err, "opening log file"), "")
		}
		cfg.File = f
	}

	logger := logging.New(cfg)
	slog.SetDefault(logger)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(logging.NewContext(ctx, logger))

	return nil
}

// checkConfig reports a broken configuration file. help, version and the
// config commands that locate or rewrite the file still work so the user
// can fix it.
func checkConfig(cmd *cobra.Command) error {
	switch strings.TrimPrefix(cmd.CommandPath(), cmd.Root().Name()+" ") {
	case "help", "version", "config path", "config init", "config edit":
		return nil
	}
	if configLoadErr != nil {
		file := config.FileUsed()
		if file == "" {
			file = config.DefaultFile()
		}
		return errors.NewUserError(errors.Mark(configLoadErr, errors.ErrInvalidConfig), "Check "+file)
	}
	return nil
}

// Execute runs the root command, prints any error and returns the process
// exit code.
func Execute() int {
	rootCmd.Version = cmd.Version
	err := rootCmd.Execute()
	if err == nil {
		return errors.ExitSuccess
	}

	if strings.HasPrefix(err.Error(), "unknown command") {
		err = errors.NewUserError(err, "Run: guidelines --help")
	}

	stderr := rootCmd.ErrOrStderr()
	fmt.Fprintf(stderr, "%s %v\n", color.RedString("Error:"), err)
	for _, detail := range errors.GetAllDetails(err) {
		fmt.Fprintf(stderr, "  %s\n", detail)
	}
	if s := errors.Suggestion(err); s != "" {
		fmt.Fprintf(stderr, "\n  %s\n", s)
	}
	return errors.ExitCode(err)
}
