// Package format renders document trees, votes and check reports for the
// CLI. Plain text goes to pipes; Markdown is produced for glamour when
// stdout is a terminal.
package format

import (
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

const missing = " [missing]"

// now is replaced in tests so relative times are stable.
var now = time.Now

// List prints one line per document: doc_id, latest version and version count.
func List(w io.Writer, docs []store.DocumentView) error {
	for _, d := range docs {
		fmt.Fprintf(w, "%s  v%d  (%s)\n", d.DocID, d.LatestVersion, plural(len(d.Versions), "version"))
	}
	return nil
}

// Long prints a table of documents with rendition counts and the age of the
// latest version.
func Long(w io.Writer, docs []store.DocumentView) error {
	if len(docs) == 0 {
		return nil
	}

	width := len("DOC_ID")
	for _, d := range docs {
		width = max(width, len(d.DocID))
	}

	fmt.Fprintf(w, "%-*s  %6s  %8s  %4s  %-16s  %s\n", width, "DOC_ID", "LATEST", "VERSIONS", "HTML", "UPDATED", "STATUS")
	for _, d := range docs {
		html := 0
		updated := "-"
		for i, v := range d.Versions {
			html += len(v.HTMLPaths)
			if i == 0 {
				updated = humanize.RelTime(v.CreatedAt, now(), "ago", "from now")
			}
		}
		status := "-"
		if s, ok := d.Metadata["status"].(string); ok && s != "" {
			status = s
		}
		fmt.Fprintf(w, "%-*s  %6s  %8d  %4d  %-16s  %s\n",
			width, d.DocID, fmt.Sprintf("v%d", d.LatestVersion), len(d.Versions), html, updated, status)
	}
	return nil
}

// Tree prints each document with its versions and renditions. Files absent
// from the uploads directory are flagged.
func Tree(w io.Writer, docs []store.DocumentView) error {
	for _, d := range docs {
		fmt.Fprintln(w, d.DocID)
		for i, v := range d.Versions {
			last := i == len(d.Versions)-1
			connector, pfx := "├── ", "│   "
			if last {
				connector, pfx = "└── ", "    "
			}
			desc := ""
			if v.ChangeDescription != "" {
				desc = fmt.Sprintf("  %q", v.ChangeDescription)
			}
			fmt.Fprintf(w, "%sv%d  %s%s%s\n", connector, v.Version, v.FilePath, flag(v.FileConsistent), desc)
			for j, h := range v.HTMLPaths {
				c := "├── "
				if j == len(v.HTMLPaths)-1 {
					c = "└── "
				}
				fmt.Fprintf(w, "%s%s%s%s\n", pfx, c, h.Path, flag(h.Consistent))
			}
		}
	}
	return nil
}

// Markdown renders document trees as Markdown for terminal display.
func Markdown(docs []store.DocumentView) string {
	var b strings.Builder
	for _, d := range docs {
		fmt.Fprintf(&b, "# %s\n\n", d.DocID)

		keys := make([]string, 0, len(d.Metadata))
		for k := range d.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, "- **%s**: %v\n", k, d.Metadata[k])
		}
		if len(keys) > 0 {
			b.WriteString("\n")
		}

		b.WriteString("| Version | File | HTML | Created | Change |\n")
		b.WriteString("|---|---|---|---|---|\n")
		for _, v := range d.Versions {
			html := make([]string, len(v.HTMLPaths))
			for i, h := range v.HTMLPaths {
				html[i] = "`" + h.Path + "`" + flag(h.Consistent)
			}
			fmt.Fprintf(&b, "| v%d | `%s`%s | %s | %s | %s |\n",
				v.Version, v.FilePath, flag(v.FileConsistent), strings.Join(html, "<br>"),
				humanize.RelTime(v.CreatedAt, now(), "ago", "from now"),
				strings.ReplaceAll(v.ChangeDescription, "|", `\|`))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// VoteCounts prints the good/bad tally per version.
func VoteCounts(w io.Writer, counts []store.VoteCount) error {
	if len(counts) == 0 {
		fmt.Fprintln(w, "No votes recorded.")
		return nil
	}
	width := len("DOC_ID")
	for _, c := range counts {
		width = max(width, len(c.DocID))
	}
	fmt.Fprintf(w, "%-*s  %4s  %5s  %5s\n", width, "DOC_ID", "VER", "GOOD", "BAD")
	for _, c := range counts {
		fmt.Fprintf(w, "%-*s  %4s  %5d  %5d\n", width, c.DocID, fmt.Sprintf("v%d", c.Version), c.GoodCount, c.BadCount)
	}
	return nil
}

// Votes prints every vote, one per line.
func Votes(w io.Writer, votes []store.Vote) error {
	if len(votes) == 0 {
		fmt.Fprintln(w, "No votes recorded.")
		return nil
	}
	for _, v := range votes {
		voter := v.VoterInfo
		if voter == "" {
			voter = "-"
		}
		fmt.Fprintf(w, "%s  v%-3d  %-4s  %s  %s\n",
			v.DocID, v.Version, v.VoteType, v.CreatedAt.Local().Format("2006-01-02 15:04"), voter)
	}
	return nil
}

// Check prints row counts followed by any missing or unreferenced files.
func Check(w io.Writer, r service.CheckReport) error {
	fmt.Fprintf(w, "documents:  %s\n", humanize.Comma(r.Counts.Documents))
	fmt.Fprintf(w, "versions:   %s\n", humanize.Comma(r.Counts.Versions))
	fmt.Fprintf(w, "renditions: %s\n", humanize.Comma(r.Counts.Renditions))
	fmt.Fprintf(w, "votes:      %s\n", humanize.Comma(r.Counts.Votes))

	if len(r.Missing) == 0 && len(r.Unreferenced) == 0 {
		fmt.Fprintln(w, "\nAll files present.")
		return nil
	}
	if len(r.Missing) > 0 {
		fmt.Fprintf(w, "\nMissing (%d):\n", len(r.Missing))
		for _, m := range r.Missing {
			fmt.Fprintf(w, "  %s v%d  %-4s  %s\n", m.DocID, m.Version, m.Kind, m.Path)
		}
	}
	if len(r.Unreferenced) > 0 {
		fmt.Fprintf(w, "\nUnreferenced (%d):\n", len(r.Unreferenced))
		for _, p := range r.Unreferenced {
			fmt.Fprintf(w, "  %s\n", p)
		}
	}
	return nil
}

// HistoryEntry is one row of a document's history.
type HistoryEntry struct {
	Version           int       `json:"version"`
	CreatedAt         time.Time `json:"created_at"`
	ChangeDescription string    `json:"change_description"`
	Renditions        int       `json:"renditions"`
	Good              int       `json:"good"`
	Bad               int       `json:"bad"`
}

// History prints one line per version, newest first.
func History(w io.Writer, entries []HistoryEntry) error {
	for _, e := range entries {
		desc := e.ChangeDescription
		if desc == "" {
			desc = "-"
		}
		fmt.Fprintf(w, "v%-3d  %s  %2d html  +%d/-%d  %s\n",
			e.Version, e.CreatedAt.Local().Format("2006-01-02 15:04"),
			e.Renditions, e.Good, e.Bad, desc)
	}
	return nil
}

func flag(consistent bool) string {
	if consistent {
		return ""
	}
	return missing
}

func plural(n int, word string) string {
	if n == 1 {
		return "1 " + word
	}
	return fmt.Sprintf("%d %ss", n, word)
}
