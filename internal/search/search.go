// Package search runs substring searches over document metadata and change
// descriptions and prints which field matched.
package search

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures a search.
type Options struct {
	Long bool // print the matching field of each hit
}

// Result contains the matched documents.
type Result struct {
	Query     string               `json:"query"`
	Documents []store.DocumentView `json:"documents"`
}

// Run searches for q and writes one line per matching document.
func Run(ctx context.Context, w io.Writer, svc service.Service, q string, opts Options) (Result, error) {
	result := Result{Query: q}

	docs, err := svc.Search(ctx, q)
	if err != nil {
		return result, err
	}
	result.Documents = docs

	if len(docs) == 0 {
		fmt.Fprintf(w, "No documents match %q\n", q)
		return result, nil
	}
	for _, d := range docs {
		fmt.Fprintf(w, "%s  v%d\n", d.DocID, d.LatestVersion)
		if opts.Long {
			for _, m := range Matches(d, q) {
				fmt.Fprintf(w, "  %s\n", m)
			}
		}
	}
	return result, nil
}

// Matches describes where q occurs in d: metadata keys whose encoded value
// contains q, and versions whose change description does. The comparison is
// case-sensitive, like the store's.
func Matches(d store.DocumentView, q string) []string {
	var out []string
	keys := make([]string, 0, len(d.Metadata))
	for k := range d.Metadata {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		enc, err := metadata.Encode(metadata.Metadata{k: d.Metadata[k]})
		if err != nil {
			continue
		}
		if strings.Contains(enc, q) {
			out = append(out, fmt.Sprintf("metadata.%s: %v", k, d.Metadata[k]))
		}
	}
	for _, v := range d.Versions {
		if strings.Contains(v.ChangeDescription, q) {
			out = append(out, fmt.Sprintf("v%d: %s", v.Version, v.ChangeDescription))
		}
	}
	return out
}
