// Package exporter copies documents out of a repository into a directory:
// one subdirectory per doc_id holding every stored file plus a manifest of
// versions, metadata and votes. The importer package reads the same layout.
package exporter

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jpl-au/docver/internal/progress"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// ManifestName is the per-document manifest file.
const ManifestName = "manifest.json"

// Manifest describes one exported document.
type Manifest struct {
	Document store.DocumentView `json:"document"`
	Votes    []store.Vote       `json:"votes"`
}

// Options configures an export operation.
type Options struct {
	DocID string // export only this document
	Force bool   // overwrite existing files
}

// Result contains the outcome of an export operation.
type Result struct {
	Documents int      `json:"documents"`
	Files     int      `json:"files"`
	Paths     []string `json:"paths"` // document directories written
}

// Run exports documents to dst, creating it when needed.
func Run(ctx context.Context, w io.Writer, svc service.Service, dst string, opts Options) (Result, error) {
	var result Result

	var docs []store.DocumentView
	if opts.DocID != "" {
		d, err := svc.Document(ctx, opts.DocID)
		if err != nil {
			return result, err
		}
		docs = []store.DocumentView{d}
	} else {
		var err error
		if docs, err = svc.ListDocuments(ctx); err != nil {
			return result, err
		}
	}
	if len(docs) == 0 {
		return result, errors.New("no documents to export")
	}

	votes, err := svc.AllVotes(ctx)
	if err != nil {
		return result, err
	}
	byDoc := make(map[string][]store.Vote)
	for _, v := range votes {
		byDoc[v.DocID] = append(byDoc[v.DocID], v)
	}

	if err := os.MkdirAll(dst, 0755); err != nil {
		return result, fmt.Errorf("creating destination directory: %w", err)
	}
	// All writes go through root so a doc_id cannot escape dst.
	root, err := os.OpenRoot(dst)
	if err != nil {
		return result, fmt.Errorf("opening destination root: %w", err)
	}
	defer root.Close()

	prog := progress.New("Exporting", len(docs))
	defer prog.Done()

	for _, d := range docs {
		n, err := exportDoc(root, svc, d, byDoc[d.DocID], opts.Force)
		if err != nil {
			return result, fmt.Errorf("export %s: %w", d.DocID, err)
		}
		prog.Step(d.DocID)

		out := filepath.Join(dst, d.DocID)
		result.Documents++
		result.Files += n
		result.Paths = append(result.Paths, out)
		fmt.Fprintf(w, "Exported: %s (%d versions, %d files) -> %s\n", d.DocID, len(d.Versions), n, out)
	}
	return result, nil
}

// exportDoc writes the files and manifest of d and returns the file count.
func exportDoc(root *os.Root, svc service.Service, d store.DocumentView, votes []store.Vote, force bool) (int, error) {
	if err := root.Mkdir(d.DocID, 0755); err != nil && !errors.Is(err, os.ErrExist) {
		return 0, err
	}

	files := 0
	for _, v := range d.Versions {
		names := []string{v.FilePath}
		for _, h := range v.HTMLPaths {
			names = append(names, h.Path)
		}
		for _, name := range names {
			if err := copyBlob(root, svc, d.DocID, name, force); err != nil {
				return files, err
			}
			files++
		}
	}

	if votes == nil {
		votes = []store.Vote{}
	}
	data, err := json.MarshalIndent(Manifest{Document: d, Votes: votes}, "", "  ")
	if err != nil {
		return files, err
	}
	return files, writeFile(root, filepath.Join(d.DocID, ManifestName), force, func(f *os.File) error {
		_, err := f.Write(append(data, '\n'))
		return err
	})
}

func copyBlob(root *os.Root, svc service.Service, docID, name string, force bool) error {
	src, err := svc.OpenBlob(name)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer src.Close()

	return writeFile(root, filepath.Join(docID, name), force, func(f *os.File) error {
		_, err := io.Copy(f, src)
		return err
	})
}

// writeFile creates name within root and fills it with fill. An existing
// file is an error unless force is set.
func writeFile(root *os.Root, name string, force bool, fill func(*os.File) error) error {
	if !force {
		if _, err := root.Stat(name); err == nil {
			return fmt.Errorf("file exists: %s (use --force to overwrite)", name)
		}
	}
	f, err := root.OpenFile(name, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("creating file %s: %w", name, err)
	}
	if err := fill(f); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", name, err)
	}
	return f.Close()
}
