// ledger.go implements the create-or-append version operation.
//
// A doc_id seen for the first time creates the document at version 1. A known
// doc_id gets version latest_version+1 and its metadata merged with the
// patch. Re-uploading is never a conflict.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jpl-au/docver/internal/metadata"
)

// UpsertVersion records an upload within tx and returns the document's
// internal id and the new version number.
func UpsertVersion(ctx context.Context, tx *sql.Tx, in UpsertInput) (int64, int, error) {
	if in.DocID == "" {
		return 0, 0, fmt.Errorf("%w: empty doc_id", ErrInvalidInput)
	}
	if in.FilePath == "" {
		return 0, 0, fmt.Errorf("%w: empty file path", ErrInvalidInput)
	}

	var (
		docID   int64
		latest  int
		rawMeta string
	)
	err := tx.QueryRowContext(ctx,
		`SELECT id, latest_version, metadata FROM documents WHERE doc_id = ?`,
		in.DocID).Scan(&docID, &latest, &rawMeta)

	var version int
	switch {
	case errors.Is(err, sql.ErrNoRows):
		enc, err := metadata.Encode(in.Metadata)
		if err != nil {
			return 0, 0, err
		}
		res, err := tx.ExecContext(ctx,
			`INSERT INTO documents (doc_id, metadata, latest_version) VALUES (?, ?, 1)`,
			in.DocID, enc)
		if err != nil {
			return 0, 0, fmt.Errorf("insert document: %w", err)
		}
		if docID, err = res.LastInsertId(); err != nil {
			return 0, 0, fmt.Errorf("insert document: %w", err)
		}
		version = 1

	case err != nil:
		return 0, 0, fmt.Errorf("lookup document: %w", err)

	default:
		stored, err := metadata.Parse([]byte(rawMeta))
		if err != nil {
			return 0, 0, fmt.Errorf("stored metadata for %s: %w", in.DocID, err)
		}
		enc, err := metadata.Encode(metadata.Merge(stored, in.Metadata))
		if err != nil {
			return 0, 0, err
		}
		version = latest + 1
		if _, err := tx.ExecContext(ctx,
			`UPDATE documents SET metadata = ?, latest_version = ? WHERE id = ?`,
			enc, version, docID); err != nil {
			return 0, 0, fmt.Errorf("update document: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx,
		`INSERT INTO versions (document_id, version, change_description, file_path) VALUES (?, ?, ?, ?)`,
		docID, version, in.ChangeDescription, in.FilePath)
	if err != nil {
		return 0, 0, fmt.Errorf("insert version: %w", err)
	}
	versionID, err := res.LastInsertId()
	if err != nil {
		return 0, 0, fmt.Errorf("insert version: %w", err)
	}

	for _, p := range in.HTMLPaths {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO html_documents (version_id, file_path) VALUES (?, ?)`,
			versionID, p); err != nil {
			return 0, 0, fmt.Errorf("insert html document: %w", err)
		}
	}

	return docID, version, nil
}

// UpsertVersion runs the package-level UpsertVersion in its own transaction.
func (s *SQLiteStore) UpsertVersion(ctx context.Context, in UpsertInput) (int64, int, error) {
	var (
		id      int64
		version int
	)
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		id, version, err = UpsertVersion(ctx, tx, in)
		return err
	})
	return id, version, err
}
