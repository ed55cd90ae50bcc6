// Package history lists the versions of one document with their vote
// tallies, optionally followed by the diff between each consecutive pair.
package history

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/docver/internal/diff"
	"github.com/jpl-au/docver/internal/format"
	"github.com/jpl-au/docver/internal/service"
)

// Options configures a history operation.
type Options struct {
	Limit    int  // Maximum versions to show, newest first (0 = all)
	ShowDiff bool // Show rendition diffs between consecutive versions
	Colour   bool // Colourise diff output
}

// Result contains the listed versions.
type Result struct {
	DocID    string                `json:"doc_id"`
	Versions []format.HistoryEntry `json:"versions"`
}

// Run retrieves the history of docID and writes it to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, docID string, opts Options) (Result, error) {
	result := Result{DocID: docID}

	doc, err := svc.Document(ctx, docID)
	if err != nil {
		return result, err
	}
	counts, err := svc.VoteCounts(ctx)
	if err != nil {
		return result, err
	}
	tally := make(map[int][2]int)
	for _, c := range counts {
		if c.DocID == docID {
			tally[c.Version] = [2]int{c.GoodCount, c.BadCount}
		}
	}

	versions := doc.Versions
	if opts.Limit > 0 && opts.Limit < len(versions) {
		versions = versions[:opts.Limit]
	}
	result.Versions = make([]format.HistoryEntry, 0, len(versions))
	for _, v := range versions {
		t := tally[v.Version]
		result.Versions = append(result.Versions, format.HistoryEntry{
			Version:           v.Version,
			CreatedAt:         v.CreatedAt,
			ChangeDescription: v.ChangeDescription,
			Renditions:        len(v.HTMLPaths),
			Good:              t[0],
			Bad:               t[1],
		})
	}

	if err := format.History(w, result.Versions); err != nil {
		return result, err
	}
	if !opts.ShowDiff {
		return result, nil
	}

	// Versions are newest first; diff each against its predecessor.
	for i := 0; i+1 < len(versions); i++ {
		fmt.Fprintln(w)
		_, err := diff.Run(ctx, w, svc, docID, diff.Options{
			Version1: versions[i+1].Version,
			Version2: versions[i].Version,
		}, opts.Colour)
		if err != nil {
			return result, err
		}
	}
	return result, nil
}
