package cat

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/jpl-au/docver/internal/document"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) *document.Service {
	t.Helper()
	p, err := document.Init(false, "", t.TempDir())
	require.NoError(t, err)
	svc, err := document.Open(p)
	require.NoError(t, err)
	t.Cleanup(func() { svc.Close() })

	for _, h := range [][]string{
		{"<p>one</p>"},
		{"<h1>Two</h1>\n<p>first &amp; second</p>", "<p>appendix</p>"},
	} {
		in := service.UploadInput{
			DocID: "doc",
			File:  service.File{Name: "d.pdf", Body: strings.NewReader("%PDF v" + h[0])},
		}
		for _, c := range h {
			in.HTML = append(in.HTML, service.File{Name: "r.html", Body: strings.NewReader(c)})
		}
		_, err := svc.Upload(context.Background(), in)
		require.NoError(t, err)
	}
	return svc
}

func TestRun(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"latest first rendition", Options{}, "<h1>Two</h1>\n<p>first &amp; second</p>"},
		{"second rendition", Options{Rendition: 2}, "<p>appendix</p>"},
		{"older version", Options{Version: 1}, "<p>one</p>"},
		{"text", Options{Text: true}, "Two\nfirst & second\n"},
		{"pdf", Options{PDF: true, Version: 1}, "%PDF v<p>one</p>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			res, err := Run(ctx, &buf, svc, "doc", tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, buf.String())
			assert.NotEmpty(t, res.Path)
		})
	}
}

func TestRun_Errors(t *testing.T) {
	svc := setup(t)
	ctx := context.Background()

	_, err := Run(ctx, &bytes.Buffer{}, svc, "missing", Options{})
	assert.ErrorIs(t, err, store.ErrDocumentNotFound)

	_, err = Run(ctx, &bytes.Buffer{}, svc, "doc", Options{Version: 9})
	assert.ErrorIs(t, err, store.ErrVersionNotFound)

	_, err = Run(ctx, &bytes.Buffer{}, svc, "doc", Options{Version: 1, Rendition: 2})
	assert.ErrorContains(t, err, "1 html rendition")
}
