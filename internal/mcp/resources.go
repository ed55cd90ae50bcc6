// resources.go serves documents as MCP resources at
// docver://documents/{doc_id}.

package mcp

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/jpl-au/docver/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

const documentURIPrefix = "docver://documents/"

// ErrInvalidURI indicates a malformed resource URI.
var ErrInvalidURI = errors.New("invalid URI")

func (h *handlers) readDocument(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	if h.svc == nil {
		return nil, errors.New(ErrNotInitialised)
	}

	docID, err := parseDocumentURI(req.Params.URI)
	if err != nil {
		return nil, err
	}
	doc, err := h.svc.Document(ctx, docID)
	if err != nil {
		return nil, err
	}
	data, err := store.MarshalJSON(doc)
	if err != nil {
		return nil, err
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// parseDocumentURI extracts the doc_id from docver://documents/{doc_id}.
func parseDocumentURI(uri string) (string, error) {
	rest, ok := strings.CutPrefix(uri, documentURIPrefix)
	if !ok || rest == "" || strings.Contains(rest, "/") {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	docID, err := url.PathUnescape(rest)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrInvalidURI, uri)
	}
	return docID, nil
}
