// interfaces.go defines the storage abstraction consumed by the service layer.
//
// The interfaces are granular (Reader, Ledger, Voter, Maintainer) so that
// consumers depend only on the capability they use. Mutating methods open
// their own transaction; the package-level functions in ledger.go, cascade.go
// and votes.go take an explicit *sql.Tx for callers composing larger units.

package store

import (
	"context"
	"database/sql"
)

// Querier is satisfied by *sql.DB and *sql.Tx.
type Querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Reader reconstructs document trees.
type Reader interface {
	// ListDocuments returns every document, newest first.
	ListDocuments(ctx context.Context) ([]DocumentView, error)

	// Document returns the tree of a single document.
	Document(ctx context.Context, docID string) (DocumentView, error)

	// Search returns documents whose metadata or any change description
	// contains q. An empty q matches nothing.
	Search(ctx context.Context, q string) ([]DocumentView, error)
}

// Ledger records and removes versions.
type Ledger interface {
	// UpsertVersion creates the document or appends a version to it.
	UpsertVersion(ctx context.Context, in UpsertInput) (documentID int64, version int, err error)

	// DeleteVersion removes one version and, when it was the last, the document.
	DeleteVersion(ctx context.Context, docID string, version int) (Deleted, error)
}

// Voter records and aggregates votes.
type Voter interface {
	CastVote(ctx context.Context, docID string, version int, voteType, voterInfo string) error
	VoteCounts(ctx context.Context) ([]VoteCount, error)
	AllVotes(ctx context.Context) ([]Vote, error)
}

// Maintainer groups lifecycle and diagnostic operations.
type Maintainer interface {
	Init() error
	Close() error
	Checkpoint(ctx context.Context) error
	Vacuum(ctx context.Context) error
	Counts(ctx context.Context) (Counts, error)
	FilePaths(ctx context.Context) (map[string]bool, error)
	Tx(ctx context.Context, fn func(tx *sql.Tx) error) error
	DB() *sql.DB
}

// Store is the full storage interface.
type Store interface {
	Reader
	Ledger
	Voter
	Maintainer
}
