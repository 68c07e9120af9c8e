package commands

import (
	"context"
	"fmt"
	"io"
	"maps"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/internal/config"
	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/logging"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/materialize"
	"github.com/thoreinstein/guidelines/internal/pkgjson"
	"github.com/thoreinstein/guidelines/internal/registry"
)

var (
	initCategory    string
	initInteractive bool
	initForce       bool
	initDryRun      bool
	initDiff        bool
	initVars        []string
	initDir         string
)

func init() {
	initCmd.Flags().StringVarP(&initCategory, "category", "c", "",
		"initialize every tool in a category")
	initCmd.Flags().BoolVarP(&initInteractive, "interactive", "i", false,
		"pick tools with a fuzzy finder")
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false,
		"overwrite existing files for copy and template strategies")
	initCmd.Flags().BoolVarP(&initDryRun, "dry-run", "n", false,
		"show what would be done without writing anything")
	initCmd.Flags().BoolVar(&initDiff, "diff", false,
		"with --dry-run, print a diff for every file that would change")
	initCmd.Flags().StringArrayVar(&initVars, "var", nil,
		"template variable as KEY=VALUE (repeatable)")
	initCmd.Flags().StringVar(&initDir, "dir", ".",
		"project directory to write into")
	rootCmd.AddCommand(initCmd)
}

var initCmd = &cobra.Command{
	Use:   "init [tools...]",
	Short: "Add tool configuration files to a project",
	Long: `Materialize the config files of one or more tools into the project
directory. Each file is placed according to its strategy:

  copy       written when absent; replaced only with --force
  template   like copy, with {{KEY}} placeholders filled from variables
  merge      JSON, YAML or TOML merged into an existing file; existing keys win
  append     added to the end of an existing file unless already present
  reference  documentation only, never written

Dev dependencies, dependencies and scripts are added to an existing
package.json. Template variables come from the variables map in the
configuration file, overridden by --var.

Unknown tool names are reported and skipped; the command then exits 1.`,
	Example: `  # Add two tools
  guidelines init oxlint prettier

  # Everything in a category
  guidelines init --category git-hooks

  # Preview, with diffs
  guidelines init vscode --dry-run --diff

  # Fill template variables
  guidelines init license --var AUTHOR="Jane Doe" --var YEAR=2026

  # Pick from a list
  guidelines init -i

See Also: guidelines list, guidelines info`,
	RunE: runInit,
}

// initCounts tallies file outcomes for one tool.
type initCounts map[materialize.Action]int

func runInit(c *cobra.Command, args []string) error {
	if initDiff && !initDryRun {
		return errors.NewUserError(errors.New("--diff requires --dry-run"), "Run: guidelines init --dry-run --diff <tools>")
	}

	vars, err := templateVars(currentConfig().Variables, initVars)
	if err != nil {
		return err
	}

	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	names, err := initTargets(reg, args)
	if err != nil {
		return err
	}
	if names == nil {
		fmt.Fprintln(c.OutOrStdout(), "Cancelled.")
		return nil
	}

	out := c.OutOrStdout()
	logger := logging.FromContext(c.Context())
	if initDryRun {
		fmt.Fprintf(out, "\n%s\n", styleMagenta.Sprint("[dry-run] no files will be written"))
	}

	mt := materialize.New(initDir, out, logger)
	opts := materialize.Options{
		Force:     initForce,
		DryRun:    initDryRun,
		Variables: vars,
		Diff:      initDiff,
	}

	var (
		unknown  []string
		failures []error
		seen     = make(map[string]bool)
	)
	for _, name := range names {
		m, ok := reg.Resolve(name)
		if !ok {
			fmt.Fprintf(c.ErrOrStderr(), "%s %v\n", styleRed.Sprint("Error:"), unknownTool(name))
			unknown = append(unknown, name)
			continue
		}
		if seen[m.Name] {
			continue
		}
		seen[m.Name] = true

		if err := initTool(c.Context(), out, reg, mt, m, opts); err != nil {
			failures = append(failures, err)
		}
	}
	fmt.Fprintln(out)

	if len(failures) > 0 {
		return errors.NewSystemError(errors.Join(failures...), "Fix the files listed above and run init again")
	}
	if len(unknown) > 0 {
		err := errors.Mark(errors.Newf("unknown tool(s): %s", strings.Join(unknown, ", ")), registry.ErrToolNotFound)
		return errors.NewUserError(err, "Run: guidelines list")
	}
	return nil
}

// initTargets returns the tool names to initialize. nil means the
// interactive picker was aborted.
func initTargets(reg *registry.Registry, args []string) ([]string, error) {
	names := append([]string(nil), args...)

	if initCategory != "" {
		_, tools, ok := reg.Category(initCategory)
		if !ok {
			return nil, errors.NewUserError(unknownCategory(initCategory),
				"Available: "+strings.Join(reg.CategoryNames(), ", "))
		}
		if !initInteractive {
			for _, m := range tools {
				names = append(names, m.Name)
			}
		}
	}

	if initInteractive {
		candidates := reg.Tools()
		if initCategory != "" {
			_, candidates, _ = reg.Category(initCategory)
		}
		picked, err := pickTools(candidates, true)
		if err != nil {
			return nil, err
		}
		if len(picked) == 0 {
			return nil, nil
		}
		for _, m := range picked {
			names = append(names, m.Name)
		}
	}

	if len(names) == 0 {
		return nil, errors.NewUserError(errors.New("no tools specified"),
			"Run: guidelines init <tool>..., guidelines init --category <name>, or guidelines init -i")
	}
	return names, nil
}

// templateVars overlays KEY=VALUE flags on the configured variables.
func templateVars(base map[string]string, flags []string) (map[string]string, error) {
	vars := make(map[string]string, len(base)+len(flags))
	maps.Copy(vars, base)

	for _, kv := range flags {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || !config.ValidVariableName(key) {
			return nil, errors.NewUserError(errors.Mark(errors.Newf("invalid --var %q", kv), errors.ErrInvalidInput),
				"Use KEY=VALUE, where KEY is letters, digits and underscores")
		}
		vars[key] = value
	}
	return vars, nil
}

// initTool materializes one tool and prints its section of the report.
func initTool(ctx context.Context, out io.Writer, reg *registry.Registry, mt *materialize.Materializer, m *manifest.Manifest, opts materialize.Options) error {
	fmt.Fprintf(out, "\n%s %s\n", styleName.Sprint(m.DisplayName), styleDim.Sprint("v"+m.Version))

	for _, req := range m.Requires {
		if _, ok := reg.Resolve(req); ok {
			fmt.Fprintf(out, "  %s %s %s\n", styleYellow.Sprint("requires"), req,
				styleDim.Sprint("(run: guidelines init "+req+")"))
		}
	}

	results, applyErr := mt.Apply(ctx, reg, m, opts)

	var pkgErr error
	if len(m.Dependencies)+len(m.DevDependencies)+len(m.Scripts) > 0 {
		res, err := pkgjson.Merge(mt.TargetDir, m, pkgjson.Options{DryRun: opts.DryRun})
		if err != nil {
			pkgErr = errors.Wrapf(err, "%s: %s", m.Name, pkgjson.FileName)
			fmt.Fprintf(out, "  %s %s: %v\n", styleRed.Sprint("fail     "), pkgjson.FileName, err)
		} else {
			printPackageUpdate(out, res, opts.DryRun)
		}
	}

	if len(m.Suggests) > 0 {
		fmt.Fprintf(out, "  %s %s\n", styleDim.Sprint("suggested:"), strings.Join(m.Suggests, ", "))
	}

	counts := make(initCounts)
	for _, r := range results {
		counts[r.Action]++
	}
	if summary := counts.String(); summary != "" {
		fmt.Fprintf(out, "  %s\n", summary)
	}

	return errors.Join(applyErr, pkgErr)
}

func printPackageUpdate(out io.Writer, res *pkgjson.Result, dryRun bool) {
	prefix := "  "
	if dryRun {
		prefix += styleMagenta.Sprint("[dry-run]") + " "
	}

	switch {
	case !res.Found:
		fmt.Fprintf(out, "%s%s %s %s\n", prefix, styleDim.Sprint("skip     "), pkgjson.FileName,
			styleDim.Sprint("(not found)"))
	case !res.Changed():
		fmt.Fprintf(out, "%s%s %s %s\n", prefix, styleDim.Sprint("skip     "), pkgjson.FileName,
			styleDim.Sprint("(up to date)"))
	default:
		var added []string
		for _, s := range res.Added {
			added = append(added, fmt.Sprintf("%s +%d", s.Name, len(s.Keys)))
		}
		fmt.Fprintf(out, "%s%s %s %s\n", prefix, styleCyan.Sprint("update   "), pkgjson.FileName,
			styleDim.Sprint("("+strings.Join(added, ", ")+")"))
	}
}

func (c initCounts) String() string {
	var parts []string
	if n := c[materialize.Created]; n > 0 {
		parts = append(parts, styleGreen.Sprintf("%d created", n))
	}
	if n := c[materialize.Overwritten]; n > 0 {
		parts = append(parts, styleYellow.Sprintf("%d overwritten", n))
	}
	if n := c[materialize.Skipped]; n > 0 {
		parts = append(parts, styleDim.Sprintf("%d skipped", n))
	}
	if n := c[materialize.Failed]; n > 0 {
		parts = append(parts, styleRed.Sprintf("%d failed", n))
	}
	return strings.Join(parts, ", ")
}
