package commands

import (
	"fmt"
	"os"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/logging"
	"github.com/thoreinstein/guidelines/internal/manifest"
)

// pickTools opens a fuzzy finder over tools. A nil result with a nil error
// means the user aborted. Replaced in tests.
var pickTools = func(tools []*manifest.Manifest, multi bool) ([]*manifest.Manifest, error) {
	if !logging.IsTTY(os.Stdin) {
		return nil, errors.NewUserError(errors.New("interactive mode needs a terminal"),
			"Pass tool names as arguments instead")
	}

	label := func(i int) string {
		return fmt.Sprintf("%s/%s  %s", tools[i].Category, tools[i].Name, tools[i].Description)
	}
	opts := []fuzzyfinder.Option{
		fuzzyfinder.WithPromptString("tool> "),
		fuzzyfinder.WithPreviewWindow(func(i, _, _ int) string {
			if i == -1 {
				return ""
			}
			return preview(tools[i])
		}),
	}
	if multi {
		opts = append(opts, fuzzyfinder.WithHeader("Tab to select, Enter to confirm"))
	}

	var (
		idxs []int
		err  error
	)
	if multi {
		idxs, err = fuzzyfinder.FindMulti(tools, label, opts...)
	} else {
		var idx int
		idx, err = fuzzyfinder.Find(tools, label, opts...)
		idxs = []int{idx}
	}
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "interactive selection failed")
	}

	picked := make([]*manifest.Manifest, 0, len(idxs))
	for _, i := range idxs {
		picked = append(picked, tools[i])
	}
	return picked, nil
}

// preview is the plain-text summary shown next to the finder list.
func preview(m *manifest.Manifest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s v%s\n%s\n\nCategory: %s\n", m.DisplayName, m.Version, m.Description, m.Category)
	if len(m.Aliases) > 0 {
		fmt.Fprintf(&b, "Aliases: %s\n", strings.Join(m.Aliases, ", "))
	}
	b.WriteString("\nFiles:\n")
	for _, f := range m.Files {
		fmt.Fprintf(&b, "  %s (%s)\n", f.Target(), f.Strategy)
	}
	return b.String()
}
