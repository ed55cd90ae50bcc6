// log_storage.go persists audit entries in SQLite. The project column is a
// blake2b hash of the repository directory, so entries from many projects
// share one database without recording their paths.
//
// Write failures are reported on stderr and otherwise ignored: an upload
// must not fail because its audit entry could not be written.

package log

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/crypto/blake2b"
)

// Logger writes audit log entries to a SQLite database.
type Logger struct {
	db      *sql.DB
	project string
}

func (l *Logger) log(e Entry) {
	var detail *string
	if len(e.Detail) > 0 {
		if b, err := json.Marshal(e.Detail); err == nil {
			s := string(b)
			detail = &s
		}
	}

	success := 0
	if e.Success {
		success = 1
	}

	_, err := l.db.Exec(`
		INSERT INTO log (start, end, project, source, author, action, doc_id, version,
		                 result_version, success, error, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.Start, e.End, l.project, e.Source, nilIfEmpty(e.Author), e.Action,
		nilIfEmpty(e.DocID), nilIfZero(e.Version), nilIfZero(e.ResultVersion),
		success, nilIfEmpty(e.Error), detail,
	)
	if err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "docver: audit log write failed: %v\n", err)
	}
}

// Record is a stored entry as returned by Recent.
type Record struct {
	Time          time.Time `json:"time"`
	Source        string    `json:"source"`
	Author        string    `json:"author,omitempty"`
	Action        string    `json:"action"`
	DocID         string    `json:"doc_id,omitempty"`
	Version       int       `json:"version,omitempty"`
	ResultVersion int       `json:"result_version,omitempty"`
	Success       bool      `json:"success"`
	Error         string    `json:"error,omitempty"`
}

// Recent returns the newest entries of the current project, newest first.
// limit <= 0 means 50.
func Recent(ctx context.Context, limit int) ([]Record, error) {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		return nil, fmt.Errorf("audit log not open")
	}
	if limit <= 0 {
		limit = 50
	}

	rows, err := l.db.QueryContext(ctx, `
		SELECT start, source, COALESCE(author, ''), action, COALESCE(doc_id, ''),
		       COALESCE(version, 0), COALESCE(result_version, 0), success, COALESCE(error, '')
		FROM log WHERE project = ?
		ORDER BY id DESC LIMIT ?`, l.project, limit)
	if err != nil {
		return nil, fmt.Errorf("query audit log: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			r       Record
			start   int64
			success int
		)
		if err := rows.Scan(&start, &r.Source, &r.Author, &r.Action, &r.DocID,
			&r.Version, &r.ResultVersion, &success, &r.Error); err != nil {
			return nil, fmt.Errorf("scan audit log: %w", err)
		}
		r.Time = time.Unix(start, 0).UTC()
		r.Success = success == 1
		out = append(out, r)
	}
	return out, rows.Err()
}

// dbPathFunc returns the database path. Tests override it.
var dbPathFunc = defaultDBPath

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".docver", "log", "docver-log.db")
	}
	return filepath.Join(home, ".docver", "log", "docver-log.db")
}

func dbPath() string {
	return dbPathFunc()
}

// DBPath returns the path to the log database.
func DBPath() string {
	return dbPath()
}

// hash derives a 16 hex character project identifier.
func hash(s string) string {
	h, err := blake2b.New(8, nil)
	if err != nil {
		panic("blake2b.New failed: " + err.Error())
	}
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func migrate(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS log (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			start          INTEGER NOT NULL,
			end            INTEGER NOT NULL,
			project        TEXT NOT NULL,
			source         TEXT NOT NULL,
			author         TEXT,
			action         TEXT NOT NULL,
			doc_id         TEXT,
			version        INTEGER,
			result_version INTEGER,
			success        INTEGER NOT NULL,
			error          TEXT,
			detail         TEXT
		);
		CREATE INDEX IF NOT EXISTS idx_log_project ON log(project, id);
		CREATE INDEX IF NOT EXISTS idx_log_doc ON log(doc_id);
	`)
	return err
}

func nilIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nilIfZero(n int) *int {
	if n == 0 {
		return nil
	}
	return &n
}
