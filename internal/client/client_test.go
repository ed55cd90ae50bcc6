package client_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jpl-au/docver/internal/client"
	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*client.Client, *document.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	_, err := document.Init(false, "", dir)
	require.NoError(t, err)
	svc, err := document.New("", dir)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	ts := httptest.NewServer(server.New(svc, server.Options{}).Handler())
	t.Cleanup(ts.Close)
	return client.New(ts.URL + "/"), svc
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0644))
	return p
}

func TestUpload_RoundTrip(t *testing.T) {
	c, svc := setup(t)
	ctx := context.Background()
	dir := t.TempDir()

	opts := client.Options{
		PDF:          writeFile(t, dir, "report.pdf", "%PDF"),
		HTML:         []string{writeFile(t, dir, "a.html", "<p>a</p>")},
		MetadataFile: writeFile(t, dir, "meta.json", `{"doc_id":"rep-1","title":"Report"}`),
	}

	res, err := c.Upload(ctx, opts)
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "rep-1", res.DocID)
	assert.Equal(t, 1, res.Version)

	doc, err := svc.Document(ctx, "rep-1")
	require.NoError(t, err)
	assert.Equal(t, "Report", doc.Metadata["title"])
	assert.Equal(t, client.DefaultChangeDescription, doc.Versions[0].ChangeDescription)
	assert.Len(t, doc.Versions[0].HTMLPaths, 1)

	opts.ChangeDescription = "second pass"
	res, err = c.Upload(ctx, opts)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Version)

	docs, err := c.Documents(ctx)
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "second pass", docs[0].Versions[0].ChangeDescription)

	found, err := c.Search(ctx, "second")
	require.NoError(t, err)
	assert.Len(t, found, 1)
}

func TestUpload_ChangeDescriptionFromMetadata(t *testing.T) {
	c, svc := setup(t)
	dir := t.TempDir()

	_, err := c.Upload(context.Background(), client.Options{
		PDF:          writeFile(t, dir, "r.pdf", "x"),
		MetadataFile: writeFile(t, dir, "m.json", `{"doc_id":"d","change_description":"from file"}`),
	})
	require.NoError(t, err)

	doc, err := svc.Document(context.Background(), "d")
	require.NoError(t, err)
	assert.Equal(t, "from file", doc.Versions[0].ChangeDescription)
}

func TestUpload_MetadataErrors(t *testing.T) {
	c, _ := setup(t)
	dir := t.TempDir()
	pdf := writeFile(t, dir, "r.pdf", "x")

	_, err := c.Upload(context.Background(), client.Options{
		PDF: pdf, MetadataFile: writeFile(t, dir, "m.json", `{"title":"no id"}`),
	})
	assert.ErrorIs(t, err, client.ErrNoDocID)

	_, err = c.Upload(context.Background(), client.Options{
		PDF: pdf, MetadataFile: writeFile(t, dir, "n.json", `[1,2]`),
	})
	assert.ErrorIs(t, err, metadata.ErrNotObject)

	_, err = c.Upload(context.Background(), client.Options{
		PDF: pdf, MetadataFile: filepath.Join(dir, "missing.json"),
	})
	assert.Error(t, err)
}

func TestUpload_ServerRejection(t *testing.T) {
	c, _ := setup(t)
	dir := t.TempDir()

	_, err := c.Upload(context.Background(), client.Options{
		PDF:          writeFile(t, dir, "r.txt", "x"),
		MetadataFile: writeFile(t, dir, "m.json", `{"doc_id":"d"}`),
	})
	var ce *client.Error
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, http.StatusBadRequest, ce.Status)
	assert.Equal(t, "File type not allowed", ce.Message)
}

func TestVoteAndDelete(t *testing.T) {
	c, _ := setup(t)
	ctx := context.Background()
	dir := t.TempDir()

	_, err := c.Upload(ctx, client.Options{
		PDF:          writeFile(t, dir, "r.pdf", "x"),
		MetadataFile: writeFile(t, dir, "m.json", `{"doc_id":"d"}`),
	})
	require.NoError(t, err)

	_, err = c.Vote(ctx, "d", 1, "good")
	require.NoError(t, err)

	counts, err := c.VoteCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 1, counts[0].GoodCount)

	_, err = c.Vote(ctx, "d", 2, "good")
	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Version not found.", ce.Message)

	msg, err := c.DeleteVersion(ctx, "d", 1)
	require.NoError(t, err)
	assert.Equal(t, "Version 1 of document d deleted.", msg)
}
