// Package importer loads documents written by the exporter package back into
// a repository. Every version goes through the normal upload path, so
// imported versions are numbered after any the target already holds.
package importer

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/jpl-au/docver/internal/exporter"
	"github.com/jpl-au/docver/internal/progress"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures an import operation.
type Options struct {
	DryRun bool // report what would be imported without importing
	Votes  bool // recast exported votes against the new versions
}

// Result contains the outcome of an import operation.
type Result struct {
	Documents []string `json:"documents"`
	Versions  int      `json:"versions"`
	Votes     int      `json:"votes"`
}

// Run imports every document directory under src.
func Run(ctx context.Context, w io.Writer, svc service.Service, src string, opts Options) (Result, error) {
	result := Result{Documents: []string{}}

	// Reads go through root so manifest paths cannot escape src.
	root, err := os.OpenRoot(src)
	if err != nil {
		return result, fmt.Errorf("opening source root: %w", err)
	}
	defer root.Close()

	manifests, err := scanRoot(root)
	if err != nil {
		return result, fmt.Errorf("scanning %s: %w", src, err)
	}
	if len(manifests) == 0 {
		return result, fmt.Errorf("no %s found in %s", exporter.ManifestName, src)
	}

	prog := progress.New("Importing", len(manifests))
	defer prog.Done()

	for _, dir := range manifests {
		m, err := readManifest(root, dir)
		if err != nil {
			return result, fmt.Errorf("reading %s: %w", dir, err)
		}
		d := m.Document
		result.Documents = append(result.Documents, d.DocID)

		if opts.DryRun {
			fmt.Fprintf(w, "Would import: %s (%d versions, %d votes)\n", d.DocID, len(d.Versions), len(m.Votes))
			result.Versions += len(d.Versions)
			prog.Step(d.DocID)
			continue
		}

		renumbered, err := importDoc(ctx, svc, root, dir, d)
		result.Versions += len(renumbered)
		if err != nil {
			return result, fmt.Errorf("import %s: %w", d.DocID, err)
		}

		votes := 0
		if opts.Votes {
			for _, v := range m.Votes {
				nv, ok := renumbered[v.Version]
				if !ok {
					continue
				}
				if r := svc.CastVote(ctx, d.DocID, nv, v.VoteType, v.VoterInfo); !r.OK {
					return result, fmt.Errorf("import %s vote: %s", d.DocID, r.Message)
				}
				votes++
			}
			result.Votes += votes
		}

		prog.Step(d.DocID)
		fmt.Fprintf(w, "Imported: %s (%d versions, %d votes)\n", d.DocID, len(renumbered), votes)
	}
	return result, nil
}

// importDoc uploads the versions of d oldest first and maps each exported
// version number to the one it received.
func importDoc(ctx context.Context, svc service.Service, root *os.Root, dir string, d store.DocumentView) (map[int]int, error) {
	versions := slices.Clone(d.Versions)
	slices.SortFunc(versions, func(a, b store.VersionView) int { return a.Version - b.Version })

	renumbered := make(map[int]int, len(versions))
	for i, v := range versions {
		in := service.UploadInput{
			DocID:             d.DocID,
			ChangeDescription: v.ChangeDescription,
		}
		// The manifest holds the merged metadata; applying it once is enough.
		if i == 0 {
			in.Metadata = d.Metadata
		}

		var files []*os.File
		open := func(name string) (service.File, error) {
			f, err := root.Open(filepath.Join(dir, name))
			if err != nil {
				return service.File{}, err
			}
			files = append(files, f)
			return service.File{Name: name, Body: f}, nil
		}
		closeAll := func() {
			for _, f := range files {
				f.Close()
			}
		}

		var err error
		if in.File, err = open(v.FilePath); err != nil {
			closeAll()
			return renumbered, err
		}
		for _, h := range v.HTMLPaths {
			f, err := open(h.Path)
			if err != nil {
				closeAll()
				return renumbered, err
			}
			in.HTML = append(in.HTML, f)
		}

		res, err := svc.Upload(ctx, in)
		closeAll()
		if err != nil {
			return renumbered, fmt.Errorf("v%d: %w", v.Version, err)
		}
		renumbered[v.Version] = res.Version
	}
	return renumbered, nil
}

// scanRoot returns the subdirectories of root that hold a manifest, sorted.
func scanRoot(root *os.Root) ([]string, error) {
	f, err := root.Open(".")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	entries, err := f.ReadDir(-1)
	if err != nil {
		return nil, err
	}

	var dirs []string
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		if _, err := root.Stat(filepath.Join(e.Name(), exporter.ManifestName)); err == nil {
			dirs = append(dirs, e.Name())
		}
	}
	slices.Sort(dirs)
	return dirs, nil
}

func readManifest(root *os.Root, dir string) (exporter.Manifest, error) {
	var m exporter.Manifest
	f, err := root.Open(filepath.Join(dir, exporter.ManifestName))
	if err != nil {
		return m, err
	}
	defer f.Close()

	if err := json.NewDecoder(f).Decode(&m); err != nil {
		return m, err
	}
	if m.Document.DocID == "" {
		return m, fmt.Errorf("manifest has no doc_id")
	}
	return m, nil
}
