// Package ls lists document trees with sorting and output selection.
//
// Output is one of: a one-line-per-document list, a long table, a tree of
// versions and renditions, or Markdown for terminal rendering.
package ls

import (
	"context"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/jpl-au/docver/internal/format"
	"github.com/jpl-au/docver/internal/glob"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// SortField specifies how to sort results.
type SortField string

const (
	SortNone SortField = ""     // store order: most recently created document first
	SortName SortField = "name" // doc_id ascending
	SortTime SortField = "time" // newest latest version first
)

// Options configures a list operation.
type Options struct {
	DocID    string    // list a single document, or those matching a glob
	Long     bool      // table with counts and age
	Tree     bool      // versions and renditions
	Markdown bool      // Markdown for glamour
	Sort     SortField // Sort field (name, time)
	Reverse  bool      // Reverse sort order
}

// Result contains the listed documents.
type Result struct {
	Documents []store.DocumentView `json:"documents"`
}

// Run lists documents and writes formatted output to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	pattern := glob.IsPattern(opts.DocID)
	if opts.DocID != "" && !pattern {
		doc, err := svc.Document(ctx, opts.DocID)
		if err != nil {
			return result, err
		}
		result.Documents = []store.DocumentView{doc}
	} else {
		docs, err := svc.ListDocuments(ctx)
		if err != nil {
			return result, err
		}
		if pattern {
			if docs, err = glob.Filter(docs, opts.DocID); err != nil {
				return result, err
			}
		}
		result.Documents = docs
	}

	sortDocs(result.Documents, opts.Sort, opts.Reverse)

	var err error
	switch {
	case opts.Markdown:
		_, err = io.WriteString(w, format.Markdown(result.Documents))
	case opts.Tree || (opts.DocID != "" && !pattern):
		err = format.Tree(w, result.Documents)
	case opts.Long:
		err = format.Long(w, result.Documents)
	default:
		err = format.List(w, result.Documents)
	}
	return result, err
}

// updated is the creation time of the latest version.
func updated(d store.DocumentView) time.Time {
	if len(d.Versions) == 0 {
		return time.Time{}
	}
	return d.Versions[0].CreatedAt
}

// sortDocs orders docs in place. Ties on time fall back to doc_id so output
// is stable across runs.
func sortDocs(docs []store.DocumentView, field SortField, reverse bool) {
	var cmp func(a, b store.DocumentView) int
	switch field {
	case SortName:
		cmp = func(a, b store.DocumentView) int { return strings.Compare(a.DocID, b.DocID) }
	case SortTime:
		cmp = func(a, b store.DocumentView) int {
			if c := updated(b).Compare(updated(a)); c != 0 {
				return c
			}
			return strings.Compare(a.DocID, b.DocID)
		}
	default:
		if reverse {
			slices.Reverse(docs)
		}
		return
	}
	slices.SortStableFunc(docs, func(a, b store.DocumentView) int {
		if reverse {
			return -cmp(a, b)
		}
		return cmp(a, b)
	})
}
