// Package diff compares the HTML renditions of two versions of a document.
// Renditions are paired by attachment order; a rendition present in only
// one version diffs against empty content.
package diff

import (
	"context"
	"fmt"
	"html"
	"io"
	"strconv"
	"strings"

	"github.com/jpl-au/docver/internal/store"
	"github.com/microcosm-cc/bluemonday"
	"github.com/sergi/go-diff/diffmatchpatch"
)

// contextLines is the number of unchanged lines shown before/after changes.
// When equal sections exceed 2*contextLines, they're collapsed with "...".
const contextLines = 3

// Options configures a diff operation.
type Options struct {
	Version1 int
	Version2 int
	Text     bool // strip markup and compare visible text
}

// Source provides what a diff needs from the service.
type Source interface {
	Document(ctx context.Context, docID string) (store.DocumentView, error)
	ReadBlob(name string) (string, error)
}

// Result holds one diff.
type Result struct {
	Old  string `json:"old"`  // old label
	New  string `json:"new"`  // new label
	Diff string `json:"diff"` // plain diff text
}

// Run diffs every rendition pair of docID between opts.Version1 and
// opts.Version2 and writes them to w.
func Run(ctx context.Context, w io.Writer, src Source, docID string, opts Options, colour bool) ([]Result, error) {
	doc, err := src.Document(ctx, docID)
	if err != nil {
		return nil, err
	}
	v1, err := findVersion(doc, opts.Version1)
	if err != nil {
		return nil, err
	}
	v2, err := findVersion(doc, opts.Version2)
	if err != nil {
		return nil, err
	}

	n := max(len(v1.HTMLPaths), len(v2.HTMLPaths))
	results := make([]Result, 0, n)
	for i := range n {
		oldLabel, oldContent, err := rendition(src, docID, v1, i, opts.Text)
		if err != nil {
			return nil, err
		}
		newLabel, newContent, err := rendition(src, docID, v2, i, opts.Text)
		if err != nil {
			return nil, err
		}
		r := Compute(oldContent, newContent, oldLabel, newLabel)
		results = append(results, r)
		fmt.Fprint(w, r.Format(colour))
	}
	return results, nil
}

func findVersion(doc store.DocumentView, version int) (store.VersionView, error) {
	for _, v := range doc.Versions {
		if v.Version == version {
			return v, nil
		}
	}
	return store.VersionView{}, fmt.Errorf("%s v%d: %w", doc.DocID, version, store.ErrVersionNotFound)
}

// rendition returns the label and content of the i-th rendition of v, or
// "/dev/null" and "" when v has fewer renditions.
func rendition(src Source, docID string, v store.VersionView, i int, text bool) (string, string, error) {
	if i >= len(v.HTMLPaths) {
		return "/dev/null", "", nil
	}
	p := v.HTMLPaths[i].Path
	content, err := src.ReadBlob(p)
	if err != nil {
		return "", "", fmt.Errorf("read %s: %w", p, err)
	}
	if text {
		content = StripTags(content)
	}
	return fmt.Sprintf("%s v%d [%d] %s", docID, v.Version, i+1, p), content, nil
}

var strict = bluemonday.StrictPolicy()

// StripTags removes all markup from an HTML document, leaving one line per
// non-blank line of visible text.
func StripTags(s string) string {
	s = html.UnescapeString(strict.Sanitize(s))
	var lines []string
	for l := range strings.Lines(s) {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return strings.Join(lines, "\n")
}

// Compute returns a diff between old and new content.
func Compute(oldContent, newContent, oldLabel, newLabel string) Result {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(oldContent, newContent)
	d := dmp.DiffMain(a, b, false)
	d = dmp.DiffCharsToLines(d, lines)
	d = dmp.DiffCleanupSemantic(d)

	return Result{
		Old:  oldLabel,
		New:  newLabel,
		Diff: format(d),
	}
}

// format converts diffs to unified-style text.
func format(diffs []diffmatchpatch.Diff) string {
	var b strings.Builder
	for _, d := range diffs {
		// Trim trailing newline to avoid artefact empty string from Split
		text := strings.TrimSuffix(d.Text, "\n")
		if text == "" {
			continue
		}
		lines := strings.Split(text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, l := range lines {
				b.WriteString("- " + l + "\n")
			}
		case diffmatchpatch.DiffInsert:
			for _, l := range lines {
				b.WriteString("+ " + l + "\n")
			}
		case diffmatchpatch.DiffEqual:
			if len(lines) > 2*contextLines {
				for i := range contextLines {
					b.WriteString("  " + lines[i] + "\n")
				}
				b.WriteString("  ...\n")
				for i := len(lines) - contextLines; i < len(lines); i++ {
					b.WriteString("  " + lines[i] + "\n")
				}
			} else {
				for _, l := range lines {
					b.WriteString("  " + l + "\n")
				}
			}
		}
	}
	return b.String()
}

// Colourise adds ANSI colours to diff output.
func Colourise(d string) string {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		reset = "\033[0m"
	)

	var b strings.Builder
	for _, line := range strings.Split(d, "\n") {
		if line == "" {
			continue
		}
		switch {
		case strings.HasPrefix(line, "- "):
			b.WriteString(red + line + reset + "\n")
		case strings.HasPrefix(line, "+ "):
			b.WriteString(green + line + reset + "\n")
		default:
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Format returns the full diff with header.
func (r Result) Format(colour bool) string {
	header := fmt.Sprintf("--- %s\n+++ %s\n", r.Old, r.New)
	if colour {
		return header + Colourise(r.Diff)
	}
	return header + r.Diff
}

// ParseVersionRange parses "v1:v2" into two version numbers.
func ParseVersionRange(s string) (v1, v2 int, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid version range %q (expected v1:v2)", s)
	}
	if parts[0] == "" || parts[1] == "" {
		return 0, 0, fmt.Errorf("invalid version range %q: both versions required", s)
	}
	if v1, err = strconv.Atoi(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("invalid start version: %w", err)
	}
	if v2, err = strconv.Atoi(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("invalid end version: %w", err)
	}
	if v1 < 1 {
		return 0, 0, fmt.Errorf("start version must be >= 1, got %d", v1)
	}
	if v2 < 1 {
		return 0, 0, fmt.Errorf("end version must be >= 1, got %d", v2)
	}
	return v1, v2, nil
}
