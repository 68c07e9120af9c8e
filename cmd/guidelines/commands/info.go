package commands

import (
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
)

var infoJSON bool

func init() {
	infoCmd.Flags().BoolVar(&infoJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(infoCmd)
}

var infoCmd = &cobra.Command{
	Use:   "info <tool>",
	Short: "Show details about a tool",
	Long: `Show a tool's description, category, homepage, schema references,
aliases, tags, files with their strategies, dependencies, scripts, template
variables and related tools. Aliases are accepted.`,
	Example: `  # Show oxlint
  guidelines info oxlint

  # Aliases work too
  guidelines info oxc

  # Raw manifest
  guidelines info oxlint --json

See Also: guidelines list, guidelines init`,
	Args: userArgs(cobra.ExactArgs(1)),
	RunE: runInfo,
}

func runInfo(c *cobra.Command, args []string) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	m, ok := reg.Resolve(args[0])
	if !ok {
		return errors.NewUserError(unknownTool(args[0]),
			"Available tools: "+strings.Join(reg.Names(), ", "))
	}

	w := c.OutOrStdout()
	if infoJSON {
		return writeJSON(w, m)
	}
	printInfo(w, m)
	return nil
}

func printInfo(w io.Writer, m *manifest.Manifest) {
	fmt.Fprintln(w, header(m.DisplayName+" v"+m.Version))
	fmt.Fprintln(w, kv("Description", m.Description))
	fmt.Fprintln(w, kv("Category", m.Category))
	if m.Homepage != "" {
		fmt.Fprintln(w, kv("Homepage", styleCyan.Sprint(m.Homepage)))
	}

	if s := m.Schema; s != nil {
		fmt.Fprintf(w, "\n  %s\n", styleBold.Sprint("Schema References:"))
		if s.URL != "" {
			fmt.Fprintln(w, kv("  SchemaStore", styleCyan.Sprint(s.URL)))
		}
		if s.VendorURL != "" {
			fmt.Fprintln(w, kv("  Vendor", styleCyan.Sprint(s.VendorURL)))
		}
		if s.NodeModulesPath != "" {
			fmt.Fprintln(w, kv("  node_modules", styleDim.Sprint(s.NodeModulesPath)))
		}
	}

	if len(m.Aliases) > 0 {
		fmt.Fprintln(w, kv("Aliases", strings.Join(m.Aliases, ", ")))
	}
	if len(m.Tags) > 0 {
		tags := make([]string, len(m.Tags))
		for i, t := range m.Tags {
			tags[i] = styleMagenta.Sprint(t)
		}
		fmt.Fprintln(w, kv("Tags", strings.Join(tags, ", ")))
	}

	fmt.Fprintf(w, "\n  %s\n", styleBold.Sprint("Files:"))
	for _, f := range m.Files {
		line := styleGreen.Sprint(f.Target()) + " " + styleDim.Sprintf("[%s]", f.Strategy)
		if f.Description != "" {
			line += " " + styleDim.Sprint(f.Description)
		}
		fmt.Fprintln(w, bullet(line))
	}

	printPackages(w, "Dependencies:", m.Dependencies)
	printPackages(w, "Dev Dependencies:", m.DevDependencies)

	if len(m.Scripts) > 0 {
		fmt.Fprintf(w, "\n  %s\n", styleBold.Sprint("Scripts:"))
		for _, name := range sortedKeys(m.Scripts) {
			fmt.Fprintln(w, bullet(styleBold.Sprint(name)+": "+styleDim.Sprint(m.Scripts[name])))
		}
	}

	if len(m.Variables) > 0 {
		fmt.Fprintf(w, "\n  %s\n", styleBold.Sprint("Template Variables:"))
		for _, name := range sortedKeys(m.Variables) {
			v := m.Variables[name]
			line := styleBold.Sprint(name) + ": " + v.Description
			if v.Default != "" {
				line += " " + styleDim.Sprintf("(default %s)", v.Default)
			}
			fmt.Fprintln(w, bullet(line))
		}
	}

	if len(m.Suggests) > 0 {
		fmt.Fprintf(w, "\n  %s %s\n", styleBold.Sprint("Suggested companions:"), strings.Join(m.Suggests, ", "))
	}
	if len(m.Requires) > 0 {
		fmt.Fprintf(w, "\n  %s %s\n", styleBold.Sprint("Requires:"), strings.Join(m.Requires, ", "))
	}
	fmt.Fprintln(w)
}

func printPackages(w io.Writer, title string, pkgs map[string]string) {
	if len(pkgs) == 0 {
		return
	}
	fmt.Fprintf(w, "\n  %s\n", styleBold.Sprint(title))
	for _, name := range sortedKeys(pkgs) {
		fmt.Fprintln(w, bullet(name+"@"+styleYellow.Sprint(pkgs[name])))
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
