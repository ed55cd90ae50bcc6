package mcp

import (
	"context"
	"log/slog"

	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// initRepo handles docver_init. It works without an existing repository.
func (h *handlers) initRepo(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if h.svc != nil {
		return mcp.NewToolResultError("repository already initialised"), nil
	}

	p, err := document.Init(false, h.db, h.dir)
	log.Event("mcp:docver_init", "init").Author("mcp").Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	svc, err := document.Open(p)
	if err != nil {
		return mcp.NewToolResultError("init succeeded but failed to open repository: " + err.Error()), nil
	}
	if err := h.attach(svc); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	slog.Info("repository initialised", "path", p.Root)
	return mcp.NewToolResultText("repository initialised at " + p.Root), nil
}
