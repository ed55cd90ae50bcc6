package seed_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/seed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T) *document.Service {
	t.Helper()
	dir := t.TempDir()
	_, err := document.Init(false, "", dir)
	require.NoError(t, err)
	svc, err := document.New("", dir)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestRun(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	res, err := seed.Run(ctx, &buf, svc, seed.Options{})
	require.NoError(t, err)
	require.Len(t, res.Uploads, 3)
	assert.Contains(t, buf.String(), "Seeded doc-b v2 (2 html)")

	a, err := svc.Document(ctx, "doc-a")
	require.NoError(t, err)
	require.Len(t, a.Versions, 1)
	assert.Len(t, a.Versions[0].HTMLPaths, 2)
	assert.True(t, a.Versions[0].FileConsistent)

	b, err := svc.Document(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.LatestVersion)
	assert.Equal(t, "published", b.Metadata["status"])
	assert.Equal(t, "Document B", b.Metadata["name"])
	renditions := 0
	for _, v := range b.Versions {
		renditions += len(v.HTMLPaths)
	}
	assert.Equal(t, 3, renditions)
}

func TestRun_AlreadySeeded(t *testing.T) {
	svc := setupService(t)
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := seed.Run(ctx, &buf, svc, seed.Options{})
	require.NoError(t, err)

	_, err = seed.Run(ctx, &buf, svc, seed.Options{})
	assert.ErrorIs(t, err, seed.ErrSeeded)

	_, err = seed.Run(ctx, &buf, svc, seed.Options{Force: true})
	require.NoError(t, err)

	b, err := svc.Document(ctx, "doc-b")
	require.NoError(t, err)
	assert.Equal(t, 2, b.LatestVersion)

	report, err := svc.Check(ctx)
	require.NoError(t, err)
	assert.Empty(t, report.Unreferenced)
	assert.Equal(t, int64(3), report.Counts.Versions)
}
