// cascade.go implements version deletion.
//
// Renditions and votes of the version are removed by the ON DELETE CASCADE
// rules when the version row goes; no manual dependent deletes are issued.
// latest_version is recomputed from the surviving versions, and a document
// left without versions is deleted (cascading any remaining votes).
//
// Blob removal is not done here. The returned Deleted.Files lists what the
// version referenced so the caller can remove the files once the
// transaction has committed.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// lookupVersion resolves (doc_id, version) to row ids, distinguishing a
// missing document from a missing version.
func lookupVersion(ctx context.Context, q Querier, docID string, version int) (documentID, versionID int64, err error) {
	err = q.QueryRowContext(ctx, `SELECT id FROM documents WHERE doc_id = ?`, docID).Scan(&documentID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, 0, ErrDocumentNotFound
	}
	if err != nil {
		return 0, 0, fmt.Errorf("lookup document: %w", err)
	}

	err = q.QueryRowContext(ctx,
		`SELECT id FROM versions WHERE document_id = ? AND version = ?`,
		documentID, version).Scan(&versionID)
	if errors.Is(err, sql.ErrNoRows) {
		return documentID, 0, ErrVersionNotFound
	}
	if err != nil {
		return documentID, 0, fmt.Errorf("lookup version: %w", err)
	}
	return documentID, versionID, nil
}

// DeleteVersion removes one version of docID within tx.
func DeleteVersion(ctx context.Context, tx *sql.Tx, docID string, version int) (Deleted, error) {
	d := Deleted{DocID: docID, Version: version}

	documentID, versionID, err := lookupVersion(ctx, tx, docID, version)
	if err != nil {
		return d, err
	}
	d.DocumentID = documentID

	rows, err := tx.QueryContext(ctx,
		`SELECT file_path FROM html_documents WHERE version_id = ? ORDER BY id`, versionID)
	if err != nil {
		return d, fmt.Errorf("list html documents: %w", err)
	}
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			rows.Close()
			return d, fmt.Errorf("scan html document: %w", err)
		}
		d.Files = append(d.Files, p)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return d, fmt.Errorf("list html documents: %w", err)
	}
	rows.Close()

	var primary string
	if err := tx.QueryRowContext(ctx,
		`SELECT file_path FROM versions WHERE id = ?`, versionID).Scan(&primary); err != nil {
		return d, fmt.Errorf("read version: %w", err)
	}
	d.Files = append(d.Files, primary)

	if _, err := tx.ExecContext(ctx, `DELETE FROM versions WHERE id = ?`, versionID); err != nil {
		return d, fmt.Errorf("delete version: %w", err)
	}

	if err := tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(version), 0) FROM versions WHERE document_id = ?`,
		documentID).Scan(&d.Latest); err != nil {
		return d, fmt.Errorf("recompute latest version: %w", err)
	}

	if d.Latest == 0 {
		if _, err := tx.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, documentID); err != nil {
			return d, fmt.Errorf("delete document: %w", err)
		}
		d.DocumentRemoved = true
		return d, nil
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET latest_version = ? WHERE id = ?`, d.Latest, documentID); err != nil {
		return d, fmt.Errorf("update latest version: %w", err)
	}
	return d, nil
}

// DeleteVersion runs the package-level DeleteVersion in its own transaction.
func (s *SQLiteStore) DeleteVersion(ctx context.Context, docID string, version int) (Deleted, error) {
	var d Deleted
	err := s.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		d, err = DeleteVersion(ctx, tx, docID, version)
		return err
	})
	return d, err
}
