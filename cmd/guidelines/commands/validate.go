package commands

import (
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/configs"
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/registry"
	"github.com/thoreinstein/guidelines/internal/validator"
)

var validateJSON bool

func init() {
	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(validateCmd)
}

var validateCmd = &cobra.Command{
	Use:   "validate [dir]",
	Short: "Check a configs tree for schema and consistency errors",
	Long: `Validate every category.json and manifest.json in a configs tree and
report all problems at once. Schema violations, bad versions and unknown
categories are errors. Shadowed or duplicate aliases, tools stored under
another category and missing source files are warnings.

Without a directory, the registry selected by --configs-dir, --remote or
the configuration is checked; by default that is the built-in one.`,
	Example: `  # Check a working copy
  guidelines validate ./configs

  # For CI
  guidelines validate ./configs --json

See Also: guidelines list`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: runValidate,
}

func runValidate(c *cobra.Command, args []string) error {
	var dir string
	if len(args) == 1 {
		dir = args[0]
	} else {
		d, err := registryDir(c)
		if err != nil {
			return err
		}
		dir = d
	}

	var fsys fs.FS
	if dir == "" {
		fsys = configs.FS()
	} else {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			return errors.NewUserError(errors.Newf("%s is not a directory", dir), "")
		}
		fsys = os.DirFS(dir)
	}

	result, err := registry.Check(fsys)
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "scanning configs"), "")
	}

	format := validator.FormatText
	if validateJSON {
		format = validator.FormatJSON
	}
	if err := validator.NewReporter(c.OutOrStdout(), format).Report(result); err != nil {
		return err
	}

	if result.HasErrors() {
		return errors.NewUserError(errors.Newf("configs tree has %d error(s)", len(result.Errors())), "")
	}
	return nil
}
