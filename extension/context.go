// context.go defines the Context interface through which extensions reach
// the service. Extensions receive it during Init(), after registration,
// because the service does not exist when init() functions run.

package extension

import (
	"database/sql"

	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/service"
)

// Context provides extensions controlled access to docver internals.
type Context interface {
	// Service returns the document service.
	Service() service.Service

	// DB exposes the database for extensions needing custom tables.
	// Extensions should create their own tables, not modify core tables.
	DB() *sql.DB

	// Config returns user configuration.
	Config() *config.Config
}

type extContext struct {
	svc service.Service
	db  *sql.DB
	cfg *config.Config
}

// NewContext creates a new extension context.
func NewContext(svc service.Service, db *sql.DB, cfg *config.Config) Context {
	return &extContext{
		svc: svc,
		db:  db,
		cfg: cfg,
	}
}

func (c *extContext) Service() service.Service { return c.svc }
func (c *extContext) DB() *sql.DB              { return c.db }
func (c *extContext) Config() *config.Config   { return c.cfg }
