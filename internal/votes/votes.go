// Package votes records votes and reports tallies for the CLI.
package votes

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jpl-au/docver/internal/duration"
	"github.com/jpl-au/docver/internal/format"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures a votes report.
type Options struct {
	All   bool   // list every vote instead of tallies
	Since string // only votes newer than this window, e.g. "7d"
	DocID string // only votes for this document
}

// Result holds the report. Counts is set for tallies, Votes for --all.
type Result struct {
	Counts []store.VoteCount `json:"counts,omitempty"`
	Votes  []store.Vote      `json:"votes,omitempty"`
}

// now is replaced in tests.
var now = time.Now

// Cast records a vote and prints the service message. A rejected vote is
// returned as an error carrying the message.
func Cast(ctx context.Context, w io.Writer, svc service.Service, docID string, version int, voteType, voter string) (service.Result, error) {
	r := svc.CastVote(ctx, docID, version, voteType, voter)
	if !r.OK {
		return r, errors.New(r.Message)
	}
	fmt.Fprintln(w, r.Message)
	return r, nil
}

// Run writes vote tallies, or every vote with opts.All.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	// Unfiltered tallies come straight from the aggregate query.
	if !opts.All && opts.Since == "" && opts.DocID == "" {
		counts, err := svc.VoteCounts(ctx)
		if err != nil {
			return result, err
		}
		result.Counts = counts
		return result, format.VoteCounts(w, counts)
	}

	all, err := svc.AllVotes(ctx)
	if err != nil {
		return result, err
	}
	var cutoff time.Time
	if opts.Since != "" {
		if cutoff, err = duration.Since(now(), opts.Since); err != nil {
			return result, err
		}
	}
	filtered := []store.Vote{}
	for _, v := range all {
		if opts.DocID != "" && v.DocID != opts.DocID {
			continue
		}
		if v.CreatedAt.Before(cutoff) {
			continue
		}
		filtered = append(filtered, v)
	}

	if opts.All {
		result.Votes = filtered
		return result, format.Votes(w, filtered)
	}
	result.Counts = Tally(filtered)
	return result, format.VoteCounts(w, result.Counts)
}

// Tally aggregates votes per (doc_id, version) in input order, which for
// AllVotes is doc_id then version.
func Tally(votes []store.Vote) []store.VoteCount {
	type key struct {
		docID   string
		version int
	}
	idx := map[key]int{}
	counts := []store.VoteCount{}
	for _, v := range votes {
		k := key{v.DocID, v.Version}
		i, ok := idx[k]
		if !ok {
			i = len(counts)
			idx[k] = i
			counts = append(counts, store.VoteCount{DocID: v.DocID, Version: v.Version})
		}
		switch v.VoteType {
		case store.VoteGood:
			counts[i].GoodCount++
		case store.VoteBad:
			counts[i].BadCount++
		}
	}
	return counts
}
