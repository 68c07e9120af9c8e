package commands

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/paths"
)

var (
	genDocDir    string
	genDocFormat string
)

var genDocCmd = &cobra.Command{
	Use:    "gen-doc",
	Short:  "Generate reference documentation for the CLI",
	Hidden: true,
	Args:   userArgs(cobra.NoArgs),
	RunE:   runGenDoc,
}

func init() {
	genDocCmd.Flags().StringVarP(&genDocDir, "dir", "d", "", "output directory for documentation")
	genDocCmd.Flags().StringVar(&genDocFormat, "format", "markdown", "markdown or man")
	rootCmd.AddCommand(genDocCmd)
}

func runGenDoc(c *cobra.Command, _ []string) error {
	if genDocDir == "" {
		return errors.NewUserError(errors.New("output directory is required"), "Pass --dir <path>")
	}
	if err := paths.EnsureDir(genDocDir, 0); err != nil {
		return errors.NewSystemError(err, "")
	}

	// Generated pages must not depend on the local environment.
	rootCmd.DisableAutoGenTag = true

	var err error
	switch genDocFormat {
	case "markdown", "md":
		err = doc.GenMarkdownTreeCustom(rootCmd, genDocDir, filePrepender, linkHandler)
	case "man":
		err = doc.GenManTree(rootCmd, &doc.GenManHeader{Title: "GUIDELINES", Section: "1"}, genDocDir)
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", genDocFormat), "Use --format markdown or --format man")
	}
	if err != nil {
		return errors.NewSystemError(errors.Wrap(err, "generating documentation"), "")
	}

	fmt.Fprintf(c.OutOrStdout(), "Documentation generated in %s\n", genDocDir)
	return nil
}

// filePrepender adds front matter; guidelines_config_get.md becomes
// "config get".
func filePrepender(filename string) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	title := strings.ReplaceAll(strings.TrimPrefix(base, "guidelines_"), "_", " ")

	return fmt.Sprintf(`---
title: "%s"
description: "Reference for guidelines %s"
---
`, title, title)
}

func linkHandler(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	return "/reference/" + strings.ToLower(base) + "/"
}
