package cmd

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// startServer serves a fresh repository in-process and returns its URL and
// service.
func startServer(t *testing.T) (string, *document.Service) {
	t.Helper()
	dir := t.TempDir()
	_, err := document.Init(false, "", dir)
	require.NoError(t, err)
	svc, err := document.New("", dir)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	ts := httptest.NewServer(server.New(svc, server.Options{}).Handler())
	t.Cleanup(ts.Close)
	return ts.URL, svc
}

func TestUpload(t *testing.T) {
	url, svc := startServer(t)
	e := newBareEnv(t)

	meta := e.write("meta.json", `{"doc_id":"remote","title":"Remote"}`)
	out := e.run("upload", e.write("r.pdf", "%PDF"), "--metadata-file", meta,
		"--html", e.write("r.html", "<p>r</p>"), "-m", "over http", "--server", url)
	e.contains(out, "remote v1")

	doc, err := svc.Document(context.Background(), "remote")
	require.NoError(t, err)
	assert.Equal(t, "Remote", doc.Metadata["title"])
	require.Len(t, doc.Versions, 1)
	assert.Equal(t, "over http", doc.Versions[0].ChangeDescription)
	assert.Len(t, doc.Versions[0].HTMLPaths, 1)

	// The server URL can come from the environment.
	e.env = append(e.env, "DOCVER_SERVER="+url)
	var res struct {
		Version int `json:"version"`
	}
	e.runJSON(&res, "upload", "r.pdf", "--metadata-file", meta)
	assert.Equal(t, 2, res.Version)
}

func TestUpload_Rejected(t *testing.T) {
	url, _ := startServer(t)
	e := newBareEnv(t)

	_, err := e.runErr("upload", e.write("r.pdf", "%PDF"), "--server", url)
	assert.Error(t, err, "metadata file required")

	noID := e.write("meta.json", `{"title":"x"}`)
	out, err := e.runErr("upload", "r.pdf", "--metadata-file", noID, "--server", url)
	require.Error(t, err)
	e.contains(out, "doc_id")

	meta := e.write("ok.json", `{"doc_id":"d"}`)
	out, err = e.runErr("upload", e.write("r.txt", "x"), "--metadata-file", meta, "--server", url)
	require.Error(t, err)
	e.contains(out, "400")
}
