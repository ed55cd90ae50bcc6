// tools_util.go provides helpers for extracting MCP tool parameters.
// Optional parameters fall back to defaults rather than failing the call.

package mcp

import (
	"github.com/jpl-au/docver/internal/store"
	"github.com/mark3labs/mcp-go/mcp"
)

// GetString returns a string parameter or def.
func GetString(req mcp.CallToolRequest, name, def string) string {
	if v, err := req.RequireString(name); err == nil {
		return v
	}
	return def
}

// GetInt returns an integer parameter or def. JSON numbers decode as
// float64.
func GetInt(req mcp.CallToolRequest, name string, def int) int {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(float64); ok {
		return int(v)
	}
	return def
}

// GetBool returns a boolean parameter or def.
func GetBool(req mcp.CallToolRequest, name string, def bool) bool {
	args, ok := req.Params.Arguments.(map[string]any)
	if !ok {
		return def
	}
	if v, ok := args[name].(bool); ok {
		return v
	}
	return def
}

// JSONResult wraps v as pretty-printed JSON text.
func JSONResult(v any) (*mcp.CallToolResult, error) {
	data, err := store.MarshalJSON(v)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}
