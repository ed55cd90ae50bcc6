// tools_documents.go implements the document tools. Failures are returned as
// tool error results so the client receives a readable message.

package mcp

import (
	"context"
	"errors"

	"github.com/jpl-au/docver/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

func (h *handlers) listDocuments(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}

	docs, err := h.svc.ListDocuments(ctx)
	log.Event("mcp:docver_list", "list").Author("mcp").Detail("count", len(docs)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return JSONResult(docs)
}

func (h *handlers) getDocument(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}
	docID, err := req.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	doc, err := h.svc.Document(ctx, docID)
	log.Event("mcp:docver_get", "get").Author("mcp").DocID(docID).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return JSONResult(doc)
}

func (h *handlers) search(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}
	q := GetString(req, "query", "")

	docs, err := h.svc.Search(ctx, q)
	log.Event("mcp:docver_search", "search").Author("mcp").Detail("query", q).Detail("count", len(docs)).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return JSONResult(docs)
}

func (h *handlers) deleteVersion(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if result := h.requireInit(); result != nil {
		return result, nil
	}
	docID, err := req.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version := GetInt(req, "version", 0)

	r := h.svc.DeleteVersion(ctx, docID, version)
	var lerr error
	if !r.OK {
		lerr = errors.New(r.Message)
	}
	log.Event("mcp:docver_delete_version", "delete").
		Author(GetString(req, "author", "mcp")).
		DocID(docID).
		Version(version).
		Write(lerr)

	if !r.OK {
		return mcp.NewToolResultError(r.Message), nil
	}
	return mcp.NewToolResultText(r.Message), nil
}
