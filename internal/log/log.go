// Package log records an audit trail of docver operations. Entries are
// stored in ~/.docver/log/docver-log.db and cover CLI commands, HTTP
// requests that mutate data, and MCP tool calls across all projects.
//
// Build entries with the fluent API:
//
//	log.Event("document:rm", "delete").
//		Author(cmd.Author()).
//		DocID(docID).
//		Version(v).
//		Write(err)
//
// The source is "{extension}:{command}" for CLI commands, "http:{route}" for
// the server and "mcp:{tool}" for MCP tools.
package log

import (
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

var (
	global *Logger
	mu     sync.Mutex
)

// Entry represents a single log entry.
type Entry struct {
	Source  string // e.g. "document:add", "http:upload", "mcp:docver_vote"
	Author  string // who performed the action
	Action  string // upload, delete, vote, list, search...
	DocID   string // input: doc_id targeted
	Version int    // input: version targeted

	ResultVersion int // output: version created

	Start int64 // unix timestamp when Event() called
	End   int64 // unix timestamp when Write() called

	Success bool
	Error   string
	Detail  map[string]any
}

// Builder constructs a log entry. Create with [Event], chain setters, then
// call [Builder.Write].
type Builder struct {
	entry Entry
}

// Event starts a log entry for an operation.
func Event(source, action string) *Builder {
	return &Builder{
		entry: Entry{
			Source: source,
			Action: action,
			Start:  time.Now().Unix(),
		},
	}
}

// Author sets who performed the operation. HTTP handlers pass the client
// address; MCP tools pass "mcp".
func (b *Builder) Author(author string) *Builder {
	b.entry.Author = author
	return b
}

// DocID sets the document this operation targets.
func (b *Builder) DocID(docID string) *Builder {
	b.entry.DocID = docID
	return b
}

// Version sets the requested version.
func (b *Builder) Version(version int) *Builder {
	b.entry.Version = version
	return b
}

// ResultVersion sets the version the operation produced.
func (b *Builder) ResultVersion(version int) *Builder {
	b.entry.ResultVersion = version
	return b
}

// Detail adds a key-value pair to the entry.
func (b *Builder) Detail(key string, value any) *Builder {
	if b.entry.Detail == nil {
		b.entry.Detail = make(map[string]any)
	}
	b.entry.Detail[key] = value
	return b
}

// Write records the entry; err decides success or failure.
func (b *Builder) Write(err error) {
	b.entry.End = time.Now().Unix()
	b.entry.Success = err == nil
	if err != nil {
		b.entry.Error = err.Error()
	}
	Log(b.entry)
}

// Open initialises the global logger. Safe to call multiple times.
func Open() error {
	mu.Lock()
	defer mu.Unlock()

	if global != nil {
		return nil
	}

	p := dbPath()
	if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return err
	}

	db, err := sql.Open("sqlite", p+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return err
	}

	if err := migrate(db); err != nil {
		db.Close()
		return err
	}

	global = &Logger{db: db}
	return nil
}

// SetProject sets the project identifier for subsequent entries. dir is
// the absolute path of the .docver directory.
func SetProject(dir string) {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.project = hash(dir)
	}
}

// Project returns the current project identifier, empty if unset.
func Project() string {
	mu.Lock()
	defer mu.Unlock()
	if global == nil {
		return ""
	}
	return global.project
}

// Log writes an entry. No-op when the logger is not open.
func Log(e Entry) {
	mu.Lock()
	l := global
	mu.Unlock()

	if l == nil {
		return
	}
	l.log(e)
}

// Close closes the global logger.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if global != nil {
		global.db.Close()
		global = nil
	}
}
