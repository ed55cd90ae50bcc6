// Package cat writes a stored file of a document version: one of its HTML
// renditions by default, or the primary PDF.
package cat

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/docver/internal/diff"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures a cat operation.
type Options struct {
	Version   int  // version to read (0 = latest)
	Rendition int  // 1-indexed HTML rendition (0 = first)
	PDF       bool // write the primary file instead of a rendition
	Text      bool // strip markup from the rendition
}

// Result identifies the file written.
type Result struct {
	DocID   string `json:"doc_id"`
	Version int    `json:"version"`
	Path    string `json:"path"`
	Content string `json:"content,omitempty"` // set for renditions only
}

// Run writes the selected file of docID to w.
func Run(ctx context.Context, w io.Writer, svc service.Service, docID string, opts Options) (Result, error) {
	result := Result{DocID: docID}

	doc, err := svc.Document(ctx, docID)
	if err != nil {
		return result, err
	}
	v, err := pick(doc, opts.Version)
	if err != nil {
		return result, err
	}
	result.Version = v.Version

	if opts.PDF {
		result.Path = v.FilePath
		f, err := svc.OpenBlob(v.FilePath)
		if err != nil {
			return result, fmt.Errorf("open %s: %w", v.FilePath, err)
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return result, err
	}

	n := max(opts.Rendition, 1)
	if n > len(v.HTMLPaths) {
		return result, fmt.Errorf("%s v%d has %d html rendition(s)", docID, v.Version, len(v.HTMLPaths))
	}
	result.Path = v.HTMLPaths[n-1].Path

	content, err := svc.ReadBlob(result.Path)
	if err != nil {
		return result, fmt.Errorf("read %s: %w", result.Path, err)
	}
	if opts.Text {
		content = diff.StripTags(content) + "\n"
	}
	result.Content = content
	_, err = io.WriteString(w, content)
	return result, err
}

// pick returns the requested version, or the latest when version is 0.
func pick(doc store.DocumentView, version int) (store.VersionView, error) {
	if version == 0 && len(doc.Versions) > 0 {
		return doc.Versions[0], nil
	}
	for _, v := range doc.Versions {
		if v.Version == version {
			return v, nil
		}
	}
	return store.VersionView{}, fmt.Errorf("%s v%d: %w", doc.DocID, version, store.ErrVersionNotFound)
}
