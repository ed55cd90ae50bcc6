// schema.go provisions the SQLite schema and holds the store's sentinel errors.
//
// Table definitions are embedded from sql/ and executed in lexical order, so
// the numeric prefixes (001_, 002_) fix the creation order that the foreign
// keys need: documents, versions, html_documents, votes. Every statement uses
// IF NOT EXISTS and Init may run against an existing database.

package store

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
)

//go:embed sql/*.sql
var schemas embed.FS

var (
	// ErrDocumentNotFound indicates no document exists for the doc_id.
	ErrDocumentNotFound = errors.New("document not found")
	// ErrVersionNotFound indicates the document exists but the version does not.
	ErrVersionNotFound = errors.New("version not found")
	// ErrInvalidInput is returned when a required field (doc_id, file path) is empty.
	ErrInvalidInput = errors.New("invalid input")
)

// ExecEmbedded executes all .sql files from an embedded filesystem in
// alphabetical order.
func ExecEmbedded(db *sql.DB, fsys embed.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("read schema directory: %w", err)
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		path := dir + "/" + entry.Name()
		data, err := fsys.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		if _, err := db.Exec(string(data)); err != nil {
			return fmt.Errorf("exec %s: %w", entry.Name(), err)
		}
	}
	return nil
}

func execSchema(db *sql.DB) error {
	return ExecEmbedded(db, schemas, "sql")
}
