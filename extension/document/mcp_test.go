package document

import (
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/config"
	docsvc "github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/service"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Extension, extension.Context) {
	t.Helper()
	dir := t.TempDir()
	_, err := docsvc.Init(false, "", dir)
	require.NoError(t, err)
	svc, err := docsvc.New("", dir)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	for _, h := range []string{"<p>old</p>", "<h1>New</h1><p>body</p>"} {
		_, err = svc.Upload(context.Background(), service.UploadInput{
			DocID: "doc",
			File:  service.File{Name: "f.pdf", Body: strings.NewReader("%PDF")},
			HTML:  []service.File{{Name: "f.html", Body: strings.NewReader(h)}},
		})
		require.NoError(t, err)
	}

	ctx := extension.NewContext(svc, svc.DB(), &config.Config{})
	e := &Extension{}
	require.NoError(t, e.Init(ctx))
	return e, ctx
}

func call(args map[string]any) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func text(res *mcp.CallToolResult) string {
	var sb strings.Builder
	for _, c := range res.Content {
		if tc, ok := c.(mcp.TextContent); ok {
			sb.WriteString(tc.Text)
		}
	}
	return sb.String()
}

func tool(t *testing.T, e *Extension, name string) extension.MCPHandler {
	t.Helper()
	for _, tl := range e.MCPTools() {
		if tl.Tool.Name == name {
			return tl.Handler
		}
	}
	t.Fatalf("tool %s not registered", name)
	return nil
}

func TestMCP_Read(t *testing.T) {
	e, extCtx := setup(t)
	read := tool(t, e, "docver_read")
	ctx := context.Background()

	res, err := read(ctx, extCtx, call(map[string]any{"doc_id": "doc"}))
	require.NoError(t, err)
	assert.False(t, res.IsError)
	assert.Equal(t, "<h1>New</h1><p>body</p>", text(res))

	res, err = read(ctx, extCtx, call(map[string]any{"doc_id": "doc", "version": float64(1)}))
	require.NoError(t, err)
	assert.Equal(t, "<p>old</p>", text(res))

	res, err = read(ctx, extCtx, call(map[string]any{"doc_id": "doc", "text": true}))
	require.NoError(t, err)
	assert.Contains(t, text(res), "New")
	assert.NotContains(t, text(res), "<h1>")

	res, err = read(ctx, extCtx, call(map[string]any{"doc_id": "doc", "rendition": float64(2)}))
	require.NoError(t, err)
	assert.True(t, res.IsError)

	res, err = read(ctx, extCtx, call(map[string]any{}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCP_History(t *testing.T) {
	e, extCtx := setup(t)
	hist := tool(t, e, "docver_history")

	res, err := hist(context.Background(), extCtx, call(map[string]any{"doc_id": "doc", "limit": float64(1)}))
	require.NoError(t, err)
	require.False(t, res.IsError, text(res))

	var out struct {
		DocID    string `json:"doc_id"`
		Versions []struct {
			Version int `json:"version"`
		} `json:"versions"`
	}
	require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
	assert.Equal(t, "doc", out.DocID)
	require.Len(t, out.Versions, 1)
	assert.Equal(t, 2, out.Versions[0].Version)

	res, err = hist(context.Background(), extCtx, call(map[string]any{"doc_id": "missing"}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestMCP_Grep(t *testing.T) {
	e, extCtx := setup(t)
	g := tool(t, e, "docver_grep")
	ctx := context.Background()

	hits := func(args map[string]any) int {
		t.Helper()
		res, err := g(ctx, extCtx, call(args))
		require.NoError(t, err)
		require.False(t, res.IsError, text(res))
		var out struct {
			Hits []struct {
				Version int `json:"version"`
			} `json:"hits"`
		}
		require.NoError(t, json.Unmarshal([]byte(text(res)), &out))
		return len(out.Hits)
	}

	assert.Equal(t, 0, hits(map[string]any{"pattern": "old"}))
	assert.Equal(t, 1, hits(map[string]any{"pattern": "old", "all_versions": true}))
	assert.Equal(t, 1, hits(map[string]any{"pattern": "OLD", "all_versions": true, "ignore_case": true, "doc_id": "doc"}))

	res, err := g(ctx, extCtx, call(map[string]any{"pattern": "("}))
	require.NoError(t, err)
	assert.True(t, res.IsError)
}
