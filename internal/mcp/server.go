// Package mcp implements the Model Context Protocol server, exposing docver
// operations to LLM clients over stdio.
package mcp

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/repo"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is advertised to clients for capability negotiation.
const Version = "1.0.0"

// ErrNotInitialised is returned by tools when no repository exists yet.
const ErrNotInitialised = "repository not initialised - call docver_init first"

// Serve starts the MCP server over stdio. It starts even when no repository
// exists so that clients can call docver_init.
func Serve(db, dir string, cfg *config.Config) error {
	// stdout is reserved for JSON-RPC messages
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	slog.SetDefault(logger)

	h := &handlers{db: db, dir: dir, cfg: cfg}

	svc, err := document.New(db, dir)
	if err != nil && !errors.Is(err, repo.ErrNotInitialised) {
		slog.Error("failed to open repository", "error", err)
		return err
	}
	if err == nil {
		if err := h.attach(svc); err != nil {
			svc.Close()
			return err
		}
	} else {
		slog.Info("docver not initialised, starting in uninitialised mode - call docver_init to create a repository")
	}
	defer h.close()

	s := newServer(h)
	slog.Info("docver MCP server ready", "version", Version, "transport", "stdio")

	err = server.ServeStdio(s)
	if errors.Is(err, context.Canceled) {
		slog.Info("server stopped")
		return nil
	}
	return err
}

// newServer builds the MCP server with every tool and resource registered.
func newServer(h *handlers) *server.MCPServer {
	s := server.NewMCPServer(
		"docver",
		Version,
		server.WithResourceCapabilities(true, false),
		server.WithToolCapabilities(true),
	)
	registerResources(s, h)
	registerTools(s, h)
	registerExtensionTools(s, h)
	return s
}

// handlers provides MCP request handlers with access to the service.
// svc is nil until a repository exists.
type handlers struct {
	db     string
	dir    string
	cfg    *config.Config
	svc    *document.Service
	extCtx extension.Context
}

// attach adopts svc and initialises extensions against it so that tool
// calls fire the same events as the CLI.
func (h *handlers) attach(svc *document.Service) error {
	cfg := h.cfg
	if cfg == nil {
		cfg = &config.Config{}
	}
	h.svc = svc
	h.extCtx = extension.NewContext(svc, svc.DB(), cfg)
	svc.SetExtensionContext(h.extCtx)
	return extension.InitAll(h.extCtx)
}

func (h *handlers) close() {
	if h.svc == nil {
		return
	}
	if err := extension.CloseAll(); err != nil {
		slog.Warn("closing extensions", "error", err)
	}
	if err := h.svc.Close(); err != nil {
		slog.Warn("closing repository", "error", err)
	}
}

// requireInit returns an error result if no repository is open.
func (h *handlers) requireInit() *mcp.CallToolResult {
	if h.svc == nil {
		return mcp.NewToolResultError(ErrNotInitialised)
	}
	return nil
}

func registerResources(s *server.MCPServer, h *handlers) {
	s.AddResourceTemplate(
		mcp.NewResourceTemplate(
			"docver://documents/{doc_id}",
			"Document",
			mcp.WithTemplateDescription("A document with all versions, renditions and metadata"),
			mcp.WithTemplateMIMEType("application/json"),
		),
		h.readDocument,
	)
}

func registerTools(s *server.MCPServer, h *handlers) {
	s.AddTool(
		mcp.NewTool("docver_init",
			mcp.WithDescription("Initialise a docver repository in the working directory. Call this first if other tools return 'repository not initialised'."),
		),
		h.initRepo,
	)

	s.AddTool(
		mcp.NewTool("docver_list",
			mcp.WithDescription("List all documents, newest first, with their versions and HTML renditions"),
		),
		h.listDocuments,
	)

	s.AddTool(
		mcp.NewTool("docver_get",
			mcp.WithDescription("Get one document by doc_id"),
			mcp.WithString("doc_id", mcp.Required(), mcp.Description("External document identifier")),
		),
		h.getDocument,
	)

	s.AddTool(
		mcp.NewTool("docver_search",
			mcp.WithDescription("Find documents whose metadata or change descriptions contain the query (case-sensitive substring)"),
			mcp.WithString("query", mcp.Required(), mcp.Description("Text to search for")),
		),
		h.search,
	)

	s.AddTool(
		mcp.NewTool("docver_delete_version",
			mcp.WithDescription("Delete one version with its renditions, votes and files. Deleting the last version deletes the document."),
			mcp.WithString("doc_id", mcp.Required(), mcp.Description("External document identifier")),
			mcp.WithNumber("version", mcp.Required(), mcp.Description("Version number")),
			mcp.WithString("author", mcp.Description("Who is deleting, for the audit log")),
		),
		h.deleteVersion,
	)

	s.AddTool(
		mcp.NewTool("docver_guide",
			mcp.WithDescription("Read docver help. Omit topic for the overview."),
			mcp.WithString("topic", mcp.Description("Guide topic, e.g. upload, search, votes")),
		),
		h.getGuide,
	)
}

// registerExtensionTools adds the tools extensions contribute. Their
// handlers receive the extension context once a repository is open.
func registerExtensionTools(s *server.MCPServer, h *handlers) {
	for _, ext := range extension.All() {
		for _, t := range ext.MCPTools() {
			handler := t.Handler
			s.AddTool(t.Tool, func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
				if result := h.requireInit(); result != nil {
					return result, nil
				}
				return handler(ctx, h.extCtx, req)
			})
		}
	}
}
