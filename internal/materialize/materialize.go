// Package materialize places a tool's files into a target project.
package materialize

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"slices"
	"strings"
	"unicode"

	"github.com/fatih/color"

	"github.com/thoreinstein/guidelines/internal/errors"
	"github.com/thoreinstein/guidelines/internal/manifest"
	"github.com/thoreinstein/guidelines/internal/paths"
	"github.com/thoreinstein/guidelines/internal/structured"
	"github.com/thoreinstein/guidelines/internal/template"
	"github.com/thoreinstein/guidelines/pkg/fileutil"
)

// Action is the outcome for one file.
type Action string

const (
	Created     Action = "created"
	Overwritten Action = "overwritten"
	Skipped     Action = "skipped"
	Failed      Action = "failed"
)

// Result reports what happened to one file entry.
type Result struct {
	Action   Action
	Path     string // destination, relative to the target directory
	Strategy manifest.Strategy
	Err      error
}

// Options control a single Apply.
type Options struct {
	// Force overwrites existing copy and template destinations.
	Force bool
	// DryRun classifies every file without touching the filesystem.
	DryRun bool
	// Variables fill {{KEY}} placeholders in template files.
	Variables map[string]string
	// Diff prints a patch for each file a dry run would change.
	Diff bool
}

// SourceReader reads a file shipped with a tool.
// *registry.Registry implements it.
type SourceReader interface {
	ReadSource(m *manifest.Manifest, source string) ([]byte, error)
}

// Materializer writes tool files under TargetDir and reports progress to Out.
type Materializer struct {
	TargetDir string
	Out       io.Writer
	Logger    *slog.Logger
}

// New returns a Materializer for targetDir that reports to out.
func New(targetDir string, out io.Writer, logger *slog.Logger) *Materializer {
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Materializer{TargetDir: targetDir, Out: out, Logger: logger}
}

// plan is what a strategy decided for one file.
type plan struct {
	action   Action
	verb     string
	existing []byte
	content  []byte
	// write is false when the file is skipped or would not change.
	write bool
}

// Apply materializes every non-reference file of m in manifest order. A
// failing file does not stop the others; all failures come back joined.
// Nothing already written is rolled back.
func (mt *Materializer) Apply(ctx context.Context, src SourceReader, m *manifest.Manifest, opts Options) ([]Result, error) {
	var (
		results []Result
		errs    []error
	)

	for _, f := range m.Files {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		if f.Strategy == manifest.StrategyReference {
			continue
		}

		res := Result{Path: f.Target(), Strategy: f.Strategy}
		p, err := mt.apply(src, m, f, opts)
		if err != nil {
			res.Action = Failed
			res.Err = err
			errs = append(errs, errors.Wrapf(err, "%s: %s", m.Name, f.Target()))
			mt.Logger.Debug("file failed", "tool", m.Name, "path", f.Target(), "error", err)
		} else {
			res.Action = p.action
			mt.Logger.Debug("file materialized",
				"tool", m.Name, "path", f.Target(), "strategy", f.Strategy, "action", p.action, "dry_run", opts.DryRun)
		}

		mt.report(res, p, opts)
		results = append(results, res)
	}

	return results, errors.Join(errs...)
}

func (mt *Materializer) apply(src SourceReader, m *manifest.Manifest, f manifest.FileEntry, opts Options) (plan, error) {
	dest, err := paths.ResolveDestination(mt.TargetDir, f.Target())
	if err != nil {
		return plan{}, err
	}

	data, err := src.ReadSource(m, f.Source)
	if err != nil {
		return plan{}, err
	}

	exists, err := destinationExists(dest)
	if err != nil {
		return plan{}, err
	}

	var p plan
	switch f.Strategy {
	case manifest.StrategyCopy:
		p, err = planCopy(dest, exists, data, opts)
	case manifest.StrategyTemplate:
		mt.warnUnset(m, f, data, opts.Variables)
		p, err = planCopy(dest, exists, []byte(template.Render(string(data), opts.Variables)), opts)
	case manifest.StrategyMerge:
		p, err = planMerge(dest, exists, data)
	case manifest.StrategyAppend:
		p, err = planAppend(dest, exists, data)
	default:
		return plan{}, errors.Newf("unknown strategy %q", f.Strategy)
	}
	if err != nil {
		return plan{}, err
	}

	if p.write && !opts.DryRun {
		if err := fileutil.ReplaceFile(dest, p.content); err != nil {
			return plan{}, err
		}
	}
	return p, nil
}

func destinationExists(dest string) (bool, error) {
	info, err := os.Stat(dest)
	switch {
	case err == nil:
		if info.IsDir() {
			return false, errors.Newf("%s is a directory", dest)
		}
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, errors.Wrapf(err, "checking %s", dest)
	}
}

func readExisting(dest string) ([]byte, error) {
	data, err := fileutil.ReadFileWithLimit(dest)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", dest)
	}
	return data, nil
}

func planCopy(dest string, exists bool, content []byte, opts Options) (plan, error) {
	switch {
	case !exists:
		return plan{action: Created, verb: "create", content: content, write: true}, nil
	case !opts.Force:
		return plan{action: Skipped, verb: "skip"}, nil
	}

	p := plan{action: Overwritten, verb: "overwrite", content: content, write: true}
	if opts.Diff {
		existing, err := readExisting(dest)
		if err != nil {
			return plan{}, err
		}
		p.existing = existing
	}
	return p, nil
}

// planMerge always reports Overwritten for an existing destination, even
// when the merge adds nothing and the file is left as it was.
func planMerge(dest string, exists bool, data []byte) (plan, error) {
	if !exists {
		return plan{action: Created, verb: "create", content: data, write: true}, nil
	}

	existing, err := readExisting(dest)
	if err != nil {
		return plan{}, err
	}
	merged, changed, err := structured.MergeDocuments(structured.FormatOf(dest), existing, data)
	if err != nil {
		return plan{}, err
	}
	return plan{action: Overwritten, verb: "merge", existing: existing, content: merged, write: changed}, nil
}

func planAppend(dest string, exists bool, data []byte) (plan, error) {
	if !exists {
		return plan{action: Created, verb: "create", content: data, write: true}, nil
	}

	existing, err := readExisting(dest)
	if err != nil {
		return plan{}, err
	}
	block := strings.TrimSpace(string(data))
	if strings.Contains(string(existing), block) {
		return plan{action: Skipped, verb: "skip", existing: existing}, nil
	}

	content := strings.TrimRightFunc(string(existing), unicode.IsSpace) + "\n\n" + string(data)
	return plan{action: Overwritten, verb: "append", existing: existing, content: []byte(content), write: true}, nil
}

// warnUnset logs declared variables that a template uses but the caller did
// not supply. The placeholders are left in place.
func (mt *Materializer) warnUnset(m *manifest.Manifest, f manifest.FileEntry, data []byte, vars map[string]string) {
	for _, key := range template.Missing(string(data), vars) {
		if _, declared := m.Variables[key]; declared {
			mt.Logger.Warn("template variable not set", "tool", m.Name, "path", f.Target(), "variable", key)
		}
	}
}

var (
	verbColors = map[string]*color.Color{
		"create":    color.New(color.FgGreen),
		"overwrite": color.New(color.FgYellow),
		"merge":     color.New(color.FgCyan),
		"append":    color.New(color.FgCyan),
		"skip":      color.New(color.FgHiBlack),
		"fail":      color.New(color.FgRed, color.Bold),
	}
	dryRunColor = color.New(color.FgMagenta)
)

// verbWidth aligns paths after the longest verb.
var verbWidth = len("overwrite")

func (mt *Materializer) report(res Result, p plan, opts Options) {
	verb := p.verb
	if res.Action == Failed {
		verb = "fail"
	}

	var b strings.Builder
	b.WriteString("  ")
	if opts.DryRun {
		b.WriteString(dryRunColor.Sprint("[dry-run]"))
		b.WriteByte(' ')
	}
	b.WriteString(verbColors[verb].Sprint(fmt.Sprintf("%-*s", verbWidth, verb)))
	b.WriteByte(' ')
	b.WriteString(res.Path)
	if res.Err != nil {
		b.WriteString(": ")
		b.WriteString(res.Err.Error())
	}
	fmt.Fprintln(mt.Out, b.String())

	if opts.DryRun && opts.Diff && p.write && !slices.Equal(p.existing, p.content) {
		writeDiff(mt.Out, res.Path, p.existing, p.content)
	}
}
