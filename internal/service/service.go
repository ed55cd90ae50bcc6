// Package service defines the interface between the transports (CLI, HTTP,
// MCP) and the document service. Transports depend on this interface only,
// so they can be tested against fakes.
package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"

	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/store"
)

// Service is the document service.
type Service interface {
	// Upload saves the primary file and renditions to blob storage and
	// records them as the next version of in.DocID. Blobs saved before a
	// failure are removed again.
	Upload(ctx context.Context, in UploadInput) (UploadResult, error)

	// UpsertVersion records a version whose files are already in blob
	// storage. Failures are *StoreError.
	UpsertVersion(ctx context.Context, in store.UpsertInput) (documentID int64, version int, err error)

	// DeleteVersion removes one version, its renditions and votes, and its
	// files. The document goes with its last version.
	DeleteVersion(ctx context.Context, docID string, version int) Result

	// CastVote records a vote against a version.
	CastVote(ctx context.Context, docID string, version int, voteType, voterInfo string) Result

	// VoteCounts aggregates good/bad votes per version.
	VoteCounts(ctx context.Context) ([]store.VoteCount, error)

	// AllVotes lists every vote.
	AllVotes(ctx context.Context) ([]store.Vote, error)

	// ListDocuments returns all document trees, newest first, with file
	// consistency flags.
	ListDocuments(ctx context.Context) ([]store.DocumentView, error)

	// Document returns one document tree.
	Document(ctx context.Context, docID string) (store.DocumentView, error)

	// Search returns documents whose metadata or change descriptions
	// contain q. Empty q returns nothing.
	Search(ctx context.Context, q string) ([]store.DocumentView, error)

	// OpenBlob opens a stored file by name.
	OpenBlob(name string) (*os.File, error)

	// ReadBlob returns the content of a stored file.
	ReadBlob(name string) (string, error)

	// Check reports missing and unreferenced files plus row counts.
	Check(ctx context.Context) (CheckReport, error)

	// Vacuum removes uploads no row references and compacts the database.
	// With dryRun nothing changes. Returns the unreferenced file names.
	Vacuum(ctx context.Context, dryRun bool) ([]string, error)

	// Tx runs fn in a database transaction.
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
}

// File is an uploaded file: its client-side name and content.
type File struct {
	Name string
	Body io.Reader
}

// UploadInput is one upload request.
type UploadInput struct {
	DocID             string
	Metadata          metadata.Metadata
	ChangeDescription string
	File              File
	HTML              []File
}

// UploadResult reports the version an upload created.
type UploadResult struct {
	DocumentID int64    `json:"document_id"`
	DocID      string   `json:"doc_id"`
	Version    int      `json:"version"`
	FilePath   string   `json:"file_path"`
	HTMLPaths  []string `json:"html_paths"`
}

// Result is the outcome of delete and vote operations. Not-found conditions
// and store failures are reported here rather than as errors.
type Result struct {
	OK      bool   `json:"success"`
	Message string `json:"message"`
}

// CheckReport lists inconsistencies between rows and blob storage.
type CheckReport struct {
	Counts       store.Counts  `json:"counts"`
	Missing      []MissingFile `json:"missing"`
	Unreferenced []string      `json:"unreferenced"`
}

// MissingFile is a recorded path whose blob is absent.
type MissingFile struct {
	DocID   string `json:"doc_id"`
	Version int    `json:"version"`
	Path    string `json:"path"`
	Kind    string `json:"kind"` // "pdf" or "html"
}

// StoreError wraps a failure of the store while recording an upload.
type StoreError struct {
	Err error
}

func (e *StoreError) Error() string { return "DocumentStoreError: " + e.Err.Error() }
func (e *StoreError) Unwrap() error { return e.Err }

// IsStoreError reports whether err is or wraps a *StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
