// mcp.go provides the read tools of the document extension: rendition
// content, version history and rendition grep.

package document

import (
	"context"
	"io"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/cat"
	"github.com/jpl-au/docver/internal/grep"
	"github.com/jpl-au/docver/internal/history"
	"github.com/jpl-au/docver/internal/log"
	docmcp "github.com/jpl-au/docver/internal/mcp"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPTools returns docver_read, docver_history and docver_grep.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("docver_read",
				mcp.WithDescription("Read an HTML rendition of a document version. Defaults to the first rendition of the latest version."),
				mcp.WithString("doc_id", mcp.Required(), mcp.Description("Document identifier")),
				mcp.WithNumber("version", mcp.Description("Version number (default latest)")),
				mcp.WithNumber("rendition", mcp.Description("1-indexed rendition (default 1)")),
				mcp.WithBoolean("text", mcp.Description("Strip markup and return visible text")),
			),
			Handler: readRendition,
		},
		{
			Tool: mcp.NewTool("docver_history",
				mcp.WithDescription("Versions of a document, newest first, with rendition counts and vote tallies."),
				mcp.WithString("doc_id", mcp.Required(), mcp.Description("Document identifier")),
				mcp.WithNumber("limit", mcp.Description("Maximum versions to return")),
			),
			Handler: versionHistory,
		},
		{
			Tool: mcp.NewTool("docver_grep",
				mcp.WithDescription("Regex search over the visible text of HTML renditions. Searches latest versions unless all_versions is set."),
				mcp.WithString("pattern", mcp.Required(), mcp.Description("Regular expression (RE2 syntax)")),
				mcp.WithString("doc_id", mcp.Description("Restrict to one document")),
				mcp.WithBoolean("all_versions", mcp.Description("Search every version")),
				mcp.WithBoolean("ignore_case", mcp.Description("Case-insensitive matching")),
			),
			Handler: grepRenditions,
		},
	}
}

func readRendition(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := req.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := cat.Options{
		Version:   docmcp.GetInt(req, "version", 0),
		Rendition: docmcp.GetInt(req, "rendition", 1),
		Text:      docmcp.GetBool(req, "text", false),
	}

	result, err := cat.Run(ctx, io.Discard, extCtx.Service(), docID, opts)
	log.Event("mcp:docver_read", "read").Author("mcp").DocID(docID).Version(result.Version).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(result.Content), nil
}

func versionHistory(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := req.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := history.Options{Limit: docmcp.GetInt(req, "limit", 0)}

	result, err := history.Run(ctx, io.Discard, extCtx.Service(), docID, opts)
	log.Event("mcp:docver_history", "history").Author("mcp").DocID(docID).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return docmcp.JSONResult(result)
}

func grepRenditions(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	pattern, err := req.RequireString("pattern")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	opts := grep.Options{
		DocID:       docmcp.GetString(req, "doc_id", ""),
		AllVersions: docmcp.GetBool(req, "all_versions", false),
		IgnoreCase:  docmcp.GetBool(req, "ignore_case", false),
	}

	result, err := grep.Run(ctx, io.Discard, extCtx.Service(), pattern, opts)
	log.Event("mcp:docver_grep", "search").Author("mcp").DocID(opts.DocID).Detail("pattern", pattern).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return docmcp.JSONResult(result)
}
