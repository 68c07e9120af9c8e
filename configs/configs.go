// Package configs embeds the registry that ships with the binary.
package configs

import (
	"embed"
	"io/fs"
)

// The all: prefix keeps dotfiles such as .oxlintrc.json.
//
//go:embed all:agents all:ci all:editors all:formatters all:git all:git-hooks
//go:embed all:infrastructure all:linters all:testing all:typescript
var files embed.FS

// FS returns the embedded registry. Category directories sit at its root.
func FS() fs.FS {
	return files
}
