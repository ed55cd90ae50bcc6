package mcp

import (
	"context"
	"fmt"

	"github.com/jpl-au/docver/guide"
	"github.com/jpl-au/docver/internal/log"
	"github.com/mark3labs/mcp-go/mcp"
)

// getGuide handles docver_guide. An unknown topic returns the topic list.
func (h *handlers) getGuide(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topic := GetString(req, "topic", "")

	content, err := guide.Get(topic)
	log.Event("mcp:docver_guide", "read").Author("mcp").Detail("topic", topic).Write(err)

	if err != nil {
		topics, listErr := guide.List()
		if listErr != nil {
			return nil, fmt.Errorf("listing guides: %w", listErr)
		}
		return JSONResult(map[string]any{
			"error":            err.Error(),
			"available_topics": topics,
		})
	}
	return mcp.NewToolResultText(content), nil
}
