// mcp.go provides the vote MCP tools.

package vote

import (
	"context"
	"io"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	docmcp "github.com/jpl-au/docver/internal/mcp"
	"github.com/jpl-au/docver/internal/votes"
	"github.com/mark3labs/mcp-go/mcp"
)

// MCPVoter is recorded as voter_info for votes cast through MCP.
const MCPVoter = "mcp"

// MCPTools returns the vote tools.
func (e *Extension) MCPTools() []extension.MCPTool {
	return []extension.MCPTool{
		{
			Tool: mcp.NewTool("docver_vote",
				mcp.WithDescription("Record a good or bad vote against a document version."),
				mcp.WithString("doc_id", mcp.Required(), mcp.Description("Document identifier")),
				mcp.WithNumber("version", mcp.Required(), mcp.Description("Version number")),
				mcp.WithString("vote_type", mcp.Required(), mcp.Description("good or bad"), mcp.Enum("good", "bad")),
			),
			Handler: castVote,
		},
		{
			Tool: mcp.NewTool("docver_vote_counts",
				mcp.WithDescription("Good and bad vote tallies per document version."),
				mcp.WithString("doc_id", mcp.Description("Only this document")),
				mcp.WithString("since", mcp.Description("Only votes newer than this window, e.g. 7d, 2w, 1m")),
			),
			Handler: voteCounts,
		},
		{
			Tool: mcp.NewTool("docver_votes",
				mcp.WithDescription("Every recorded vote, ordered by document, version and time."),
				mcp.WithString("doc_id", mcp.Description("Only this document")),
				mcp.WithString("since", mcp.Description("Only votes newer than this window, e.g. 7d, 2w, 1m")),
			),
			Handler: allVotes,
		},
	}
}

func castVote(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docID, err := req.RequireString("doc_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	voteType, err := req.RequireString("vote_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	version := docmcp.GetInt(req, "version", 0)

	r := extCtx.Service().CastVote(ctx, docID, version, voteType, MCPVoter)
	log.Event("mcp:docver_vote", "vote").Author("mcp").DocID(docID).Version(version).Detail("type", voteType).Write(nil)
	if !r.OK {
		return mcp.NewToolResultError(r.Message), nil
	}
	return docmcp.JSONResult(r)
}

func report(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest, all bool) (*mcp.CallToolResult, error) {
	opts := votes.Options{
		All:   all,
		DocID: docmcp.GetString(req, "doc_id", ""),
		Since: docmcp.GetString(req, "since", ""),
	}
	result, err := votes.Run(ctx, io.Discard, extCtx.Service(), opts)
	log.Event("mcp:docver_votes", "list").Author("mcp").DocID(opts.DocID).Detail("all", all).Write(err)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if all {
		return docmcp.JSONResult(result.Votes)
	}
	return docmcp.JSONResult(result.Counts)
}

func voteCounts(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return report(ctx, extCtx, req, false)
}

func allVotes(ctx context.Context, extCtx extension.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return report(ctx, extCtx, req, true)
}
