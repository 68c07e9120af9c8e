package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/registry"
)

var listJSON bool

func init() {
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output in JSON format")
	rootCmd.AddCommand(listCmd)
}

var listCmd = &cobra.Command{
	Use:   "list [category]",
	Short: "List categories, or the tools in a category",
	Long: `Without an argument, list every category with its tool count.
With a category name, list that category's tools with their versions,
descriptions and aliases.`,
	Example: `  # List categories
  guidelines list

  # List linters
  guidelines list linters

  # Machine-readable output
  guidelines list linters --json

See Also: guidelines info, guidelines search`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: runList,
}

// categorySummary is the JSON form of a category in list output.
type categorySummary struct {
	manifest.Category
	Tools int `json:"tools"`
}

// categoryListing is the JSON form of list <category>.
type categoryListing struct {
	manifest.Category
	Tools []*manifest.Manifest `json:"tools"`
}

func runList(c *cobra.Command, args []string) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	if len(args) == 1 {
		return listCategory(c, reg, args[0])
	}
	return listCategories(c, reg)
}

func listCategories(c *cobra.Command, reg *registry.Registry) error {
	w := c.OutOrStdout()

	if listJSON {
		out := make([]categorySummary, 0, len(reg.CategoryNames()))
		for _, cat := range reg.Categories() {
			_, tools, _ := reg.Category(cat.Name)
			out = append(out, categorySummary{Category: cat, Tools: len(tools)})
		}
		return writeJSON(w, out)
	}

	fmt.Fprintln(w, header("Available Categories"))
	for _, cat := range reg.Categories() {
		_, tools, _ := reg.Category(cat.Name)
		fmt.Fprintln(w, bullet(fmt.Sprintf("%s %s  %s",
			styleName.Sprint(cat.Name), styleDim.Sprintf("(%d tools)", len(tools)), cat.Description)))
	}
	fmt.Fprintf(w, "\n  %s guidelines list <category> %s\n\n", styleDim.Sprint("Run"), styleDim.Sprint("for details"))
	return nil
}

func listCategory(c *cobra.Command, reg *registry.Registry, name string) error {
	w := c.OutOrStdout()

	cat, tools, ok := reg.Category(name)
	if !ok {
		return errors.NewUserError(unknownCategory(name),
			"Available: "+strings.Join(reg.CategoryNames(), ", "))
	}

	if listJSON {
		return writeJSON(w, categoryListing{Category: cat, Tools: tools})
	}

	fmt.Fprintln(w, header(cat.DisplayName))
	fmt.Fprintf(w, "  %s\n\n", styleDim.Sprint(cat.Description))
	for _, m := range tools {
		fmt.Fprintf(w, "  %s %s  %s\n", styleName.Sprint(m.Name), styleDim.Sprint("v"+m.Version), m.Description)
		if len(m.Aliases) > 0 {
			fmt.Fprintf(w, "    %s\n", styleDim.Sprint("aliases: "+strings.Join(m.Aliases, ", ")))
		}
	}
	fmt.Fprintln(w)
	return nil
}
