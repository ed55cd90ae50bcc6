// Package grep runs regular expressions over the HTML renditions of
// documents. Search matches metadata and change descriptions; grep reads the
// rendition content itself, line by line, with familiar Unix flags.
package grep

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/jpl-au/docver/internal/diff"
	"github.com/jpl-au/docver/internal/glob"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures a grep operation.
type Options struct {
	DocID       string // only this document, or doc_ids matching a glob
	AllVersions bool   // search every version, not just the latest
	Markup      bool   // match the raw HTML instead of the visible text
	IgnoreCase  bool   // -i
	Invert      bool   // -v: select non-matching lines
	IDsOnly     bool   // -l: print matching doc_ids only
	CountOnly   bool   // -c: print match counts only
	Context     int    // -C: lines of context around matches
}

// Match is one matching line.
type Match struct {
	Line    int    `json:"line"` // 1-indexed
	Content string `json:"content"`
}

// Hit holds the matches within one rendition.
type Hit struct {
	DocID     string  `json:"doc_id"`
	Version   int     `json:"version"`
	Rendition int     `json:"rendition"` // 1-indexed
	Path      string  `json:"path"`
	Matches   []Match `json:"matches"`

	lines []string
}

// Label identifies the rendition in output, e.g. "report@v2#1".
func (h Hit) Label() string {
	return fmt.Sprintf("%s@v%d#%d", h.DocID, h.Version, h.Rendition)
}

// Result contains the outcome of a grep operation.
type Result struct {
	Hits []Hit `json:"hits"`
}

// Run searches renditions for pattern and writes output to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, pattern string, opts Options) (Result, error) {
	result := Result{Hits: []Hit{}}

	flags := ""
	if opts.IgnoreCase {
		flags = "(?i)"
	}
	re, err := regexp.Compile(flags + pattern)
	if err != nil {
		return result, fmt.Errorf("invalid regex: %w", err)
	}

	var docs []store.DocumentView
	switch {
	case opts.DocID != "" && !glob.IsPattern(opts.DocID):
		d, err := svc.Document(ctx, opts.DocID)
		if err != nil {
			return result, err
		}
		docs = []store.DocumentView{d}
	default:
		if docs, err = svc.ListDocuments(ctx); err != nil {
			return result, err
		}
		if opts.DocID != "" {
			if docs, err = glob.Filter(docs, opts.DocID); err != nil {
				return result, err
			}
		}
	}

	for _, d := range docs {
		versions := d.Versions
		if !opts.AllVersions && len(versions) > 0 {
			versions = versions[:1]
		}
		for _, v := range versions {
			for i, r := range v.HTMLPaths {
				content, err := svc.ReadBlob(r.Path)
				if err != nil {
					return result, fmt.Errorf("read %s: %w", r.Path, err)
				}
				if !opts.Markup {
					content = diff.StripTags(content)
				}
				matches, lines, err := matchLines(re, content, opts.Invert)
				if err != nil {
					return result, fmt.Errorf("scanning %s: %w", r.Path, err)
				}
				if len(matches) == 0 {
					continue
				}
				result.Hits = append(result.Hits, Hit{
					DocID:     d.DocID,
					Version:   v.Version,
					Rendition: i + 1,
					Path:      r.Path,
					Matches:   matches,
					lines:     lines,
				})
			}
		}
	}

	switch {
	case opts.IDsOnly:
		seen := make(map[string]bool)
		for _, h := range result.Hits {
			if !seen[h.DocID] {
				seen[h.DocID] = true
				fmt.Fprintln(w, h.DocID)
			}
		}
	case opts.CountOnly:
		for _, h := range result.Hits {
			fmt.Fprintf(w, "%s:%d\n", h.Label(), len(h.Matches))
		}
	case opts.Context > 0:
		for _, h := range result.Hits {
			printContext(w, h, opts.Context)
		}
	default:
		for _, h := range result.Hits {
			for _, m := range h.Matches {
				fmt.Fprintf(w, "%s:%d:%s\n", h.Label(), m.Line, m.Content)
			}
		}
	}
	return result, nil
}

// printContext follows grep convention: ":" marks matching lines, "-"
// context lines, and "--" separates non-contiguous groups.
func printContext(w io.Writer, h Hit, n int) {
	printed := make(map[int]bool)
	needSep := false
	for _, m := range h.Matches {
		start := max(m.Line-n-1, 0)
		end := min(m.Line+n, len(h.lines))

		if needSep && !printed[start] {
			fmt.Fprintln(w, "--")
		}
		for i := start; i < end; i++ {
			if printed[i] {
				continue
			}
			printed[i] = true
			sep := "-"
			if i+1 == m.Line {
				sep = ":"
			}
			fmt.Fprintf(w, "%s%s%d%s%s\n", h.Label(), sep, i+1, sep, h.lines[i])
		}
		needSep = true
	}
}

// matchLines returns the lines matching re (or not, with invert) together
// with every line of content.
func matchLines(re *regexp.Regexp, content string, invert bool) ([]Match, []string, error) {
	var (
		matches []Match
		lines   []string
	)
	scanner := bufio.NewScanner(strings.NewReader(content))
	scanner.Buffer(make([]byte, 64*1024), 10*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		lines = append(lines, line)
		if re.MatchString(line) != invert {
			matches = append(matches, Match{Line: len(lines), Content: line})
		}
	}
	return matches, lines, scanner.Err()
}
