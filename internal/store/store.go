// Package store persists versioned documents, their HTML renditions and the
// votes cast against individual versions. The SQLite implementation keeps
// every mutation inside a single transaction and relies on foreign-key
// cascades to remove dependent rows.
package store

import (
	"encoding/json"
	"time"

	"github.com/jpl-au/docver/internal/metadata"
)

// Vote types recognised by VoteCounts. Other values are stored but counted
// in neither bucket.
const (
	VoteGood = "good"
	VoteBad  = "bad"
)

// UpsertInput carries one upload. Files are already persisted by the caller;
// the ledger records their paths only.
type UpsertInput struct {
	DocID             string
	Metadata          metadata.Metadata // patch merged into stored metadata
	ChangeDescription string
	FilePath          string   // primary PDF
	HTMLPaths         []string // renditions, in attachment order
}

// DocumentView is a document with its full version tree.
type DocumentView struct {
	ID            int64             `json:"id"`
	DocID         string            `json:"doc_id"`
	Metadata      metadata.Metadata `json:"metadata"`
	LatestVersion int               `json:"latest_version"`
	Versions      []VersionView     `json:"versions"`
}

// VersionView is one version with its renditions. FileConsistent is filled
// in by callers that can see the blob store; the store leaves it false.
type VersionView struct {
	ID                int64          `json:"id"`
	Version           int            `json:"version"`
	ChangeDescription string         `json:"change_description"`
	FilePath          string         `json:"file_path"`
	CreatedAt         time.Time      `json:"created_at"`
	FileConsistent    bool           `json:"file_consistent"`
	HTMLPaths         []RenditionRef `json:"html_paths"`
}

// RenditionRef is an HTML companion file of a version.
type RenditionRef struct {
	Path       string `json:"path"`
	Consistent bool   `json:"consistent"`
}

// Vote is a single recorded vote.
type Vote struct {
	DocID     string    `json:"doc_id"`
	Version   int       `json:"version"`
	VoteType  string    `json:"vote_type"`
	VoterInfo string    `json:"voter_info"`
	CreatedAt time.Time `json:"created_at"`
}

// VoteCount aggregates the votes of one (document, version) pair.
type VoteCount struct {
	DocID     string `json:"doc_id"`
	Version   int    `json:"version"`
	GoodCount int    `json:"good_count"`
	BadCount  int    `json:"bad_count"`
}

// Deleted describes the outcome of a version deletion. Files lists the
// primary and rendition paths that were referenced by the removed version;
// the caller owns removing them from blob storage.
type Deleted struct {
	DocumentID      int64    `json:"document_id"`
	DocID           string   `json:"doc_id"`
	Version         int      `json:"version"`
	Latest          int      `json:"latest_version"`
	DocumentRemoved bool     `json:"document_removed"`
	Files           []string `json:"files"`
}

// Counts holds row counts of every table.
type Counts struct {
	Documents  int64 `json:"documents"`
	Versions   int64 `json:"versions"`
	Renditions int64 `json:"html_documents"`
	Votes      int64 `json:"votes"`
}

// MarshalJSON encodes a value with indentation for human-readable CLI output.
func MarshalJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
