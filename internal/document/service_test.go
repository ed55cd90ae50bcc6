package document_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/config"
	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/jpl-au/docver/internal/validate"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupService creates a repository in a temp dir and opens a service on it.
func setupService(t *testing.T) *document.Service {
	t.Helper()
	dir := t.TempDir()
	_, err := document.Init(false, "", dir)
	require.NoError(t, err, "init repository")

	svc, err := document.New("", dir)
	require.NoError(t, err, "open service")
	t.Cleanup(func() { svc.Close() })
	return svc
}

func pdf(content string) service.File {
	return service.File{Name: "report.PDF", Body: strings.NewReader(content)}
}

func html(name, content string) service.File {
	return service.File{Name: name, Body: strings.NewReader(content)}
}

func upload(t *testing.T, svc *document.Service, in service.UploadInput) service.UploadResult {
	t.Helper()
	res, err := svc.Upload(context.Background(), in)
	require.NoError(t, err)
	return res
}

func TestUpload_StoresFilesAndRecordsVersion(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	res := upload(t, svc, service.UploadInput{
		DocID:             "doc-a",
		Metadata:          metadata.Metadata{"title": "A"},
		ChangeDescription: "first",
		File:              pdf("%PDF-1"),
		HTML:              []service.File{html("a.html", "<p>one</p>"), html("b.HTML", "<p>two</p>")},
	})
	assert.Equal(t, 1, res.Version)
	assert.Equal(t, "doc-a", res.DocID)
	assert.True(t, strings.HasSuffix(res.FilePath, ".pdf"))
	require.Len(t, res.HTMLPaths, 2)

	got, err := svc.ReadBlob(res.FilePath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1", got)

	doc, err := svc.Document(ctx, "doc-a")
	require.NoError(t, err)
	require.Len(t, doc.Versions, 1)
	v := doc.Versions[0]
	assert.True(t, v.FileConsistent)
	require.Len(t, v.HTMLPaths, 2)
	assert.Equal(t, res.HTMLPaths[0], v.HTMLPaths[0].Path)
	assert.True(t, v.HTMLPaths[0].Consistent)
	assert.True(t, v.HTMLPaths[1].Consistent)
}

func TestUpload_DocIDFromMetadata(t *testing.T) {
	svc := setupService(t)

	res := upload(t, svc, service.UploadInput{
		Metadata: metadata.Metadata{"doc_id": "from-meta"},
		File:     pdf("x"),
	})
	assert.Equal(t, "from-meta", res.DocID)
}

func TestUpload_Rejects(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	_, err := svc.Upload(ctx, service.UploadInput{DocID: "", File: pdf("x")})
	assert.ErrorIs(t, err, validate.ErrInvalidDocID)

	_, err = svc.Upload(ctx, service.UploadInput{DocID: "d", File: html("x.html", "x")})
	assert.ErrorIs(t, err, validate.ErrExtension)

	_, err = svc.Upload(ctx, service.UploadInput{
		DocID: "d", File: pdf("x"), HTML: []service.File{html("x.txt", "x")},
	})
	assert.ErrorIs(t, err, validate.ErrExtension)

	names, err := svc.Blobs().List()
	require.NoError(t, err)
	assert.Empty(t, names, "rejected uploads must not leave files")
}

func TestUpload_MergesMetadataAcrossVersions(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	upload(t, svc, service.UploadInput{DocID: "d", Metadata: metadata.Metadata{"a": "1", "b": "1"}, File: pdf("1")})
	res := upload(t, svc, service.UploadInput{DocID: "d", Metadata: metadata.Metadata{"b": "2"}, File: pdf("2")})
	assert.Equal(t, 2, res.Version)

	doc, err := svc.Document(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, "1", doc.Metadata["a"])
	assert.Equal(t, "2", doc.Metadata["b"])
	assert.Equal(t, 2, doc.LatestVersion)
}

func TestUpsertVersion_StoreErrorWrapped(t *testing.T) {
	svc := setupService(t)

	_, _, err := svc.UpsertVersion(context.Background(), store.UpsertInput{DocID: "d"})
	require.Error(t, err)
	assert.True(t, service.IsStoreError(err))
	assert.ErrorIs(t, err, store.ErrInvalidInput)
	assert.True(t, strings.HasPrefix(err.Error(), "DocumentStoreError: "))
}

func TestDeleteVersion_RemovesFilesAfterCommit(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	v1 := upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1"), HTML: []service.File{html("1.html", "1")}})
	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("2")})

	r := svc.DeleteVersion(ctx, "d", 1)
	assert.True(t, r.OK)
	assert.Equal(t, "Version 1 of document d deleted.", r.Message)

	assert.False(t, svc.Blobs().Exists(v1.FilePath))
	assert.False(t, svc.Blobs().Exists(v1.HTMLPaths[0]))

	doc, err := svc.Document(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.LatestVersion)
	require.Len(t, doc.Versions, 1)
}

func TestDeleteVersion_FailedTransactionKeepsFiles(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	v2 := upload(t, svc, service.UploadInput{DocID: "d", File: pdf("2"), HTML: []service.File{html("2.html", "2")}})
	require.True(t, svc.CastVote(ctx, "d", 2, store.VoteGood, "t").OK)

	// Fails the latest_version update, after the version row and its
	// cascades are already gone within the transaction.
	_, err := svc.DB().ExecContext(ctx, `
		CREATE TRIGGER fail_latest BEFORE UPDATE OF latest_version ON documents
		BEGIN SELECT RAISE(ABORT, 'latest_version locked'); END`)
	require.NoError(t, err)

	r := svc.DeleteVersion(ctx, "d", 2)
	assert.False(t, r.OK)
	assert.Contains(t, r.Message, "latest_version locked")

	assert.True(t, svc.Blobs().Exists(v2.FilePath))
	assert.True(t, svc.Blobs().Exists(v2.HTMLPaths[0]))

	doc, err := svc.Document(ctx, "d")
	require.NoError(t, err)
	assert.Equal(t, 2, doc.LatestVersion)
	require.Len(t, doc.Versions, 2)
	assert.Len(t, doc.Versions[0].HTMLPaths, 1)

	report, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{Documents: 1, Versions: 2, Renditions: 1, Votes: 1}, report.Counts)
	assert.Empty(t, report.Missing)
}

func TestDeleteVersion_LastVersionRemovesDocument(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	require.True(t, svc.CastVote(ctx, "d", 1, store.VoteGood, "t").OK)

	r := svc.DeleteVersion(ctx, "d", 1)
	require.True(t, r.OK)

	_, err := svc.Document(ctx, "d")
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	report, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.Equal(t, store.Counts{}, report.Counts)
	assert.Empty(t, report.Unreferenced)
}

func TestDeleteVersion_NotFoundMessages(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	r := svc.DeleteVersion(ctx, "missing", 1)
	assert.False(t, r.OK)
	assert.Equal(t, document.MsgDocumentNotFound, r.Message)

	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	r = svc.DeleteVersion(ctx, "d", 7)
	assert.False(t, r.OK)
	assert.Equal(t, document.MsgVersionNotFound, r.Message)
}

func TestDeleteVersion_MissingFileStillSucceeds(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	res := upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	require.NoError(t, os.Remove(filepath.Join(svc.Paths().Uploads, res.FilePath)))

	assert.True(t, svc.DeleteVersion(ctx, "d", 1).OK)
}

func TestCastVote(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})

	assert.True(t, svc.CastVote(ctx, "d", 1, store.VoteGood, "a").OK)
	assert.True(t, svc.CastVote(ctx, "d", 1, store.VoteBad, "b").OK)
	assert.True(t, svc.CastVote(ctx, "d", 1, store.VoteGood, "a").OK)

	r := svc.CastVote(ctx, "d", 2, store.VoteGood, "a")
	assert.Equal(t, service.Result{Message: document.MsgVersionNotFound}, r)
	r = svc.CastVote(ctx, "x", 1, store.VoteGood, "a")
	assert.Equal(t, service.Result{Message: document.MsgDocumentNotFound}, r)
	assert.False(t, svc.CastVote(ctx, "d", 1, "", "a").OK)

	counts, err := svc.VoteCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []store.VoteCount{{DocID: "d", Version: 1, GoodCount: 2, BadCount: 1}}, counts)

	votes, err := svc.AllVotes(ctx)
	require.NoError(t, err)
	assert.Len(t, votes, 3)
}

func TestSearch_AnnotatesConsistency(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	res := upload(t, svc, service.UploadInput{DocID: "d", ChangeDescription: "quarterly report", File: pdf("1")})
	require.NoError(t, os.Remove(filepath.Join(svc.Paths().Uploads, res.FilePath)))

	docs, err := svc.Search(ctx, "quarterly")
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.False(t, docs[0].Versions[0].FileConsistent)

	docs, err = svc.Search(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, docs)
}

func TestCheck_ReportsMissingAndUnreferenced(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	res := upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	require.NoError(t, os.Remove(filepath.Join(svc.Paths().Uploads, res.FilePath)))
	_, err := svc.Blobs().Save("stray.pdf", strings.NewReader("x"))
	require.NoError(t, err)

	report, err := svc.Check(ctx)
	require.NoError(t, err)
	require.Len(t, report.Missing, 1)
	assert.Equal(t, "pdf", report.Missing[0].Kind)
	assert.Equal(t, []string{"stray.pdf"}, report.Unreferenced)
	assert.Equal(t, int64(1), report.Counts.Versions)
}

type recorder struct {
	events []extension.Event
}

func (r *recorder) Name() string                  { return "test-recorder" }
func (r *recorder) Commands() []*cobra.Command    { return nil }
func (r *recorder) MCPTools() []extension.MCPTool { return nil }
func (r *recorder) HandleEvent(_ extension.Context, e extension.Event) error {
	r.events = append(r.events, e)
	return nil
}

var rec = &recorder{}

func init() { extension.Register(rec) }

func TestEvents_FiredAfterCommit(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()
	svc.SetExtensionContext(extension.NewContext(svc, svc.DB(), &config.Config{}))
	rec.events = nil

	upload(t, svc, service.UploadInput{DocID: "d", File: pdf("1")})
	svc.CastVote(ctx, "d", 1, store.VoteGood, "a")
	svc.DeleteVersion(ctx, "d", 1)
	svc.DeleteVersion(ctx, "d", 1) // not found: no event

	require.Len(t, rec.events, 3)
	assert.Equal(t, extension.EventVersionUpload, rec.events[0].EventType())
	assert.Equal(t, extension.EventVoteCast, rec.events[1].EventType())
	del := rec.events[2].(extension.VersionDeleteEvent)
	assert.True(t, del.DocumentRemoved)
}
