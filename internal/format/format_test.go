package format

import (
	"bytes"
	"testing"
	"time"

	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixed = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func init() {
	now = func() time.Time { return fixed }
}

func docs() []store.DocumentView {
	return []store.DocumentView{
		{
			DocID:         "doc-b",
			Metadata:      metadata.Metadata{"status": "published", "title": "B"},
			LatestVersion: 2,
			Versions: []store.VersionView{
				{
					Version: 2, FilePath: "b2.pdf", FileConsistent: true, CreatedAt: fixed.Add(-2 * time.Hour),
					ChangeDescription: "second",
					HTMLPaths:         []store.RenditionRef{{Path: "b2a.html", Consistent: true}, {Path: "b2b.html"}},
				},
				{Version: 1, FilePath: "b1.pdf", CreatedAt: fixed.Add(-48 * time.Hour), HTMLPaths: []store.RenditionRef{}},
			},
		},
		{
			DocID:         "doc-a",
			Metadata:      metadata.Metadata{},
			LatestVersion: 1,
			Versions: []store.VersionView{
				{Version: 1, FilePath: "a1.pdf", FileConsistent: true, CreatedAt: fixed, HTMLPaths: []store.RenditionRef{}},
			},
		},
	}
}

func TestList(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, List(&buf, docs()))
	assert.Equal(t, "doc-b  v2  (2 versions)\ndoc-a  v1  (1 version)\n", buf.String())
}

func TestLong(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Long(&buf, docs()))
	out := buf.String()
	assert.Contains(t, out, "DOC_ID")
	assert.Contains(t, out, "2 hours ago")
	assert.Contains(t, out, "published")

	buf.Reset()
	require.NoError(t, Long(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestTree(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Tree(&buf, docs()))
	want := "doc-b\n" +
		"├── v2  b2.pdf  \"second\"\n" +
		"│   ├── b2a.html\n" +
		"│   └── b2b.html [missing]\n" +
		"└── v1  b1.pdf [missing]\n" +
		"doc-a\n" +
		"└── v1  a1.pdf\n"
	assert.Equal(t, want, buf.String())
}

func TestMarkdown(t *testing.T) {
	md := Markdown(docs())
	assert.Contains(t, md, "# doc-b")
	assert.Contains(t, md, "- **status**: published")
	assert.Contains(t, md, "| v2 | `b2.pdf` | `b2a.html`<br>`b2b.html` [missing] |")
}

func TestVoteCounts(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, VoteCounts(&buf, nil))
	assert.Equal(t, "No votes recorded.\n", buf.String())

	buf.Reset()
	require.NoError(t, VoteCounts(&buf, []store.VoteCount{{DocID: "doc-a", Version: 1, GoodCount: 3, BadCount: 1}}))
	assert.Contains(t, buf.String(), "doc-a     v1      3      1")
}

func TestVotes(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Votes(&buf, []store.Vote{{DocID: "doc-a", Version: 1, VoteType: "good", CreatedAt: fixed}}))
	assert.Contains(t, buf.String(), "doc-a  v1    good")
	assert.Contains(t, buf.String(), "  -\n")
}

func TestCheck(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Check(&buf, service.CheckReport{Counts: store.Counts{Documents: 1200}}))
	assert.Contains(t, buf.String(), "documents:  1,200")
	assert.Contains(t, buf.String(), "All files present.")

	buf.Reset()
	require.NoError(t, Check(&buf, service.CheckReport{
		Missing:      []service.MissingFile{{DocID: "d", Version: 2, Path: "x.pdf", Kind: "pdf"}},
		Unreferenced: []string{"orphan.html"},
	}))
	assert.Contains(t, buf.String(), "Missing (1):\n  d v2  pdf   x.pdf")
	assert.Contains(t, buf.String(), "Unreferenced (1):\n  orphan.html")
}

func TestHistory(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, History(&buf, []HistoryEntry{
		{Version: 2, CreatedAt: fixed, ChangeDescription: "fix", Renditions: 2, Good: 3, Bad: 1},
		{Version: 1, CreatedAt: fixed, Renditions: 1},
	}))
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)
	assert.Contains(t, string(lines[0]), " 2 html")
	assert.Contains(t, string(lines[0]), "+3/-1  fix")
	assert.Contains(t, string(lines[1]), " 1 html")
	assert.True(t, bytes.HasSuffix(lines[1], []byte("+0/-0  -")))
}
