package log

import (
	"context"
	"database/sql"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// useTempDB points the logger at a temp database for the test.
func useTempDB(t *testing.T) {
	t.Helper()
	tmpDir := t.TempDir()
	orig := dbPathFunc
	dbPathFunc = func() string {
		return filepath.Join(tmpDir, "log", "test.db")
	}
	t.Cleanup(func() {
		Close()
		dbPathFunc = orig
	})
	Close()
}

func TestLogger(t *testing.T) {
	useTempDB(t)

	t.Run("open creates database", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		assert.FileExists(t, DBPath())
	})

	t.Run("entry is written", func(t *testing.T) {
		require.NoError(t, Open())
		defer Close()
		SetProject("/srv/docs/.docver")

		Log(Entry{
			Source:        "http:upload",
			Author:        "10.0.0.1",
			Action:        "upload",
			DocID:         "doc-a",
			ResultVersion: 3,
			Success:       true,
		})

		db, err := sql.Open("sqlite", DBPath())
		require.NoError(t, err)
		defer db.Close()

		var (
			source, action, docID string
			version               sql.NullInt64
			result, success       int
		)
		err = db.QueryRow(`SELECT source, action, doc_id, version, result_version, success
			FROM log ORDER BY id DESC LIMIT 1`).
			Scan(&source, &action, &docID, &version, &result, &success)
		require.NoError(t, err)
		assert.Equal(t, "http:upload", source)
		assert.Equal(t, "upload", action)
		assert.Equal(t, "doc-a", docID)
		assert.False(t, version.Valid, "zero version stored as NULL")
		assert.Equal(t, 3, result)
		assert.Equal(t, 1, success)
	})

	t.Run("no-op when closed", func(t *testing.T) {
		Close()
		Log(Entry{Source: "test:cmd", Action: "test", Success: true})
	})

	t.Run("open is idempotent", func(t *testing.T) {
		require.NoError(t, Open())
		require.NoError(t, Open())
		Close()
	})
}

func TestBuilderAndRecent(t *testing.T) {
	useTempDB(t)
	require.NoError(t, Open())
	SetProject("/srv/docs/.docver")

	Event("document:add", "upload").
		Author("sam").
		DocID("doc-a").
		ResultVersion(1).
		Detail("renditions", 2).
		Write(nil)

	Event("document:rm", "delete").
		Author("sam").
		DocID("doc-a").
		Version(9).
		Write(errors.New("version not found"))

	// Entries of another project are not returned.
	SetProject("/elsewhere/.docver")
	Event("vote:vote", "vote").DocID("doc-z").Write(nil)
	SetProject("/srv/docs/.docver")

	recs, err := Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, "document:rm", recs[0].Source)
	assert.False(t, recs[0].Success)
	assert.Equal(t, "version not found", recs[0].Error)
	assert.Equal(t, 9, recs[0].Version)

	assert.Equal(t, "document:add", recs[1].Source)
	assert.True(t, recs[1].Success)
	assert.Equal(t, 1, recs[1].ResultVersion)
	assert.Equal(t, "sam", recs[1].Author)
}

func TestRecentClosed(t *testing.T) {
	useTempDB(t)
	_, err := Recent(context.Background(), 1)
	assert.Error(t, err)
}

func TestHash(t *testing.T) {
	h1 := hash("/home/user/project/.docver")
	h2 := hash("/home/user/project/.docver")
	h3 := hash("/home/user/other/.docver")

	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
	assert.Len(t, h1, 16)
}

func TestDBPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	orig := dbPathFunc
	dbPathFunc = defaultDBPath
	defer func() { dbPathFunc = orig }()

	assert.Equal(t, filepath.Join(home, ".docver", "log", "docver-log.db"), DBPath())
}
