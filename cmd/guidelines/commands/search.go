package commands

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/registry"
)

var (
	searchCategory    string
	searchJSON        bool
	searchInteractive bool
)

func init() {
	searchCmd.Flags().StringVarP(&searchCategory, "category", "c", "", "Only search one category")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "Browse results with a fuzzy finder")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search tools by name, alias, tag or description",
	Long: `Search the registry. Matching is case-insensitive. Results are ranked:
exact name, exact alias, name prefix, name substring, alias or tag
substring, then display name or description.

Without a query every tool is listed (subject to --category).`,
	Example: `  # Find linters for JavaScript
  guidelines search lint

  # Restrict to a category
  guidelines search --category ci

  # Browse interactively
  guidelines search -i

See Also: guidelines info, guidelines list`,
	Args: userArgs(cobra.MaximumNArgs(1)),
	RunE: runSearch,
}

// searchResult is the JSON form of a match.
type searchResult struct {
	Name        string   `json:"name"`
	Category    string   `json:"category"`
	Version     string   `json:"version"`
	Description string   `json:"description"`
	Aliases     []string `json:"aliases,omitempty"`
	Score       int      `json:"score"`
}

func runSearch(c *cobra.Command, args []string) error {
	reg, err := loadRegistry(c)
	if err != nil {
		return err
	}

	if searchCategory != "" {
		if _, _, ok := reg.Category(searchCategory); !ok {
			return errors.NewUserError(unknownCategory(searchCategory),
				"Available: "+strings.Join(reg.CategoryNames(), ", "))
		}
	}

	var query string
	if len(args) > 0 {
		query = args[0]
	}
	matches := reg.Search(query, registry.SearchOptions{Category: searchCategory})

	w := c.OutOrStdout()
	switch {
	case searchInteractive:
		return browse(w, matches)
	case searchJSON:
		out := make([]searchResult, 0, len(matches))
		for _, m := range matches {
			out = append(out, searchResult{
				Name:        m.Tool.Name,
				Category:    m.Tool.Category,
				Version:     m.Tool.Version,
				Description: m.Tool.Description,
				Aliases:     m.Tool.Aliases,
				Score:       m.Score,
			})
		}
		return writeJSON(w, out)
	default:
		return printMatches(w, matches)
	}
}

func printMatches(w io.Writer, matches []registry.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No tools found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
		styleBold.Sprint("NAME"), styleBold.Sprint("CATEGORY"),
		styleBold.Sprint("VERSION"), styleBold.Sprint("DESCRIPTION"))
	for _, m := range matches {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			styleGreen.Sprint(m.Tool.Name),
			m.Tool.Category,
			m.Tool.Version,
			styleDim.Sprint(truncate(m.Tool.Description, 60)))
	}
	return tw.Flush()
}

func browse(w io.Writer, matches []registry.Match) error {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No tools found.")
		return nil
	}

	tools := make([]*manifest.Manifest, 0, len(matches))
	for _, m := range matches {
		tools = append(tools, m.Tool)
	}
	picked, err := pickTools(tools, false)
	if err != nil || len(picked) == 0 {
		return err
	}

	printInfo(w, picked[0])
	fmt.Fprintf(w, "\n  %s guidelines init %s\n\n", styleDim.Sprint("Run:"), picked[0].Name)
	return nil
}
