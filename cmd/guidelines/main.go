// Package main is the entry point for the guidelines CLI.
package main

import (
	"os"

	"github.com/thoreinstein/guidelines/cmd"
	"github.com/thoreinstein/guidelines/cmd/guidelines/commands"
)

func main() {
	cmd.FromBuildInfo()
	os.Exit(commands.Execute())
}
