// Package document provides the document service: the store, the blob
// directory and extension events behind one service.Service implementation
// shared by the CLI, the HTTP server and the MCP server.
package document

import (
	"context"
	"database/sql"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/blob"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/repo"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

var _ service.Service = (*Service)(nil)

// Service implements service.Service over a SQLite store and an uploads
// directory.
type Service struct {
	store  *store.SQLiteStore
	blobs  *blob.FS
	paths  repo.Paths
	extCtx extension.Context // for firing events to extensions
}

// New opens the repository database db. When dir is empty the repository is
// discovered by walking up from the working directory.
// Returns repo.ErrNotInitialised if no matching database is found.
func New(db, dir string) (*Service, error) {
	p, err := repo.Resolve(db, dir)
	if err != nil {
		return nil, err
	}
	return Open(p)
}

// Open opens the repository at p.
func Open(p repo.Paths) (*Service, error) {
	s, err := store.Open(p.DB)
	if err != nil {
		return nil, err
	}
	// Schema statements are idempotent; running them keeps databases created
	// by older builds current.
	if err := s.Init(); err != nil {
		s.Close()
		return nil, err
	}
	return &Service{
		store: s,
		blobs: blob.New(p.Uploads),
		paths: p,
	}, nil
}

// Init creates a repository in dir (current directory when empty).
func Init(force bool, db, dir string) (repo.Paths, error) {
	return repo.Init(force, db, dir)
}

// Close checkpoints the WAL and closes the database connection.
func (s *Service) Close() error {
	if err := s.store.Checkpoint(context.Background()); err != nil {
		log.Event("service:close", "checkpoint").
			Detail("error", err.Error()).
			Write(err)
	}
	return s.store.Close()
}

// SetExtensionContext sets the extension context for firing events.
func (s *Service) SetExtensionContext(ctx extension.Context) {
	s.extCtx = ctx
}

// fireEvent notifies registered event handlers. Handler errors are logged,
// never returned: the operation has already committed.
func (s *Service) fireEvent(e extension.Event) {
	if s.extCtx == nil {
		return
	}
	for _, h := range extension.Handlers() {
		if err := h.HandleEvent(s.extCtx, e); err != nil {
			log.Event("event:error", "error").
				DocID(e.EventDocID()).
				Detail("event", string(e.EventType())).
				Write(err)
		}
	}
}

// DB returns the underlying database connection for extensions.
func (s *Service) DB() *sql.DB {
	return s.store.DB()
}

// Paths returns the repository paths the service was opened with.
func (s *Service) Paths() repo.Paths {
	return s.paths
}

// Blobs returns the uploads directory store.
func (s *Service) Blobs() *blob.FS {
	return s.blobs
}

// Tx runs fn within a database transaction.
func (s *Service) Tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return s.store.Tx(ctx, fn)
}
