// sqlite_ops.go provides SQLite connection management and shared helpers.
//
// This is the only file that imports the SQLite driver. Per-connection
// pragmas (foreign keys, busy timeout) are passed in the DSN so that every
// pooled connection gets them; cascades silently stop working on a
// connection opened without foreign_keys.
//
// Transactions begin IMMEDIATE: the write lock is taken at BEGIN, so two
// uploads to the same doc_id cannot both read the same latest_version.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Register sqlite driver
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store on a SQLite database in WAL mode.
type SQLiteStore struct {
	db *sql.DB
}

var _ Store = (*SQLiteStore)(nil)

// dsnParams are applied to every connection the pool opens.
const dsnParams = "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)&_txlock=immediate"

// Open opens the SQLite database file at path. The caller should call Close
// on the returned store.
func Open(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path+dsnParams)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}

	// journal_mode is persistent in the file, once is enough.
	if _, err := db.Exec(`PRAGMA journal_mode=WAL`); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Init creates tables and indexes if they don't exist.
func (s *SQLiteStore) Init() error {
	return execSchema(s.db)
}

// Close releases the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// DB exposes the underlying connection.
func (s *SQLiteStore) DB() *sql.DB {
	return s.db
}

// Checkpoint writes all WAL data back to the main database file and
// truncates the WAL.
func (s *SQLiteStore) Checkpoint(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `PRAGMA wal_checkpoint(TRUNCATE)`); err != nil {
		return fmt.Errorf("WAL checkpoint: %w", err)
	}
	return nil
}

// Vacuum checkpoints the WAL and rebuilds the database file, returning
// pages freed by deletes to the filesystem. It cannot run inside a
// transaction.
func (s *SQLiteStore) Vacuum(ctx context.Context) error {
	if err := s.Checkpoint(ctx); err != nil {
		return err
	}
	if _, err := s.db.ExecContext(ctx, `VACUUM`); err != nil {
		return fmt.Errorf("vacuum: %w", err)
	}
	return nil
}

// Tx executes fn within a database transaction. fn returning an error rolls
// the transaction back; otherwise it is committed.
//
//	err := s.Tx(ctx, func(tx *sql.Tx) error {
//	    _, _, err := store.UpsertVersion(ctx, tx, in)
//	    return err
//	})
func (s *SQLiteStore) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// scanner abstracts sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// unixTime converts a stored unix timestamp to UTC.
func unixTime(sec int64) time.Time {
	return time.Unix(sec, 0).UTC()
}
