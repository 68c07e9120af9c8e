package commands

import (
	"encoding/json"
	"io"

	"github.com/fatih/color"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/registry"
)

// Terminal styles. fatih/color drops them when stdout is not a terminal or
// NO_COLOR is set.
var (
	styleBold    = color.New(color.Bold)
	styleTitle   = color.New(color.Bold, color.FgCyan)
	styleName    = color.New(color.Bold, color.FgCyan)
	styleDim     = color.New(color.FgHiBlack)
	styleGreen   = color.New(color.FgGreen)
	styleYellow  = color.New(color.FgYellow)
	styleMagenta = color.New(color.FgMagenta)
	styleCyan    = color.New(color.FgCyan)
	styleRed     = color.New(color.FgRed)
)

// header formats a section title with a blank line before and after.
func header(title string) string {
	return "\n" + styleTitle.Sprint(title) + "\n"
}

// kv formats an indented "key: value" line.
func kv(key, value string) string {
	return "  " + styleDim.Sprint(key+":") + " " + value
}

// bullet formats an indented list item.
func bullet(text string) string {
	return "  " + styleDim.Sprint("•") + " " + text
}

// writeJSON outputs v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return errors.Wrap(enc.Encode(v), "encoding JSON")
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// unknownTool and unknownCategory keep the registry sentinels matchable.
func unknownTool(name string) error {
	return errors.Mark(errors.Newf("unknown tool %q", name), registry.ErrToolNotFound)
}

func unknownCategory(name string) error {
	return errors.Mark(errors.Newf("unknown category %q", name), registry.ErrCategoryNotFound)
}
