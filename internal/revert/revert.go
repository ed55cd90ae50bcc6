// Package revert restores an earlier version by recording its files again
// as a new version. History only moves forward: the revert is itself a
// version and can be reverted.
package revert

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Options configures a revert operation.
type Options struct {
	Message string // change description (default "Revert to vN")
}

// Result contains the outcome of a revert operation.
type Result struct {
	DocID      string `json:"doc_id"`
	RevertedTo int    `json:"reverted_to"`
	NewVersion int    `json:"new_version"`
	Message    string `json:"message"`
}

// Run copies the files of version of docID into a new version.
func Run(ctx context.Context, w io.Writer, svc service.Service, docID string, version int, opts Options) (Result, error) {
	result := Result{DocID: docID, RevertedTo: version}

	doc, err := svc.Document(ctx, docID)
	if err != nil {
		return result, err
	}
	var target *store.VersionView
	for i := range doc.Versions {
		if doc.Versions[i].Version == version {
			target = &doc.Versions[i]
			break
		}
	}
	if target == nil {
		return result, fmt.Errorf("%s v%d: %w", docID, version, store.ErrVersionNotFound)
	}

	result.Message = opts.Message
	if result.Message == "" {
		result.Message = fmt.Sprintf("Revert to v%d", version)
	}

	var files []*os.File
	defer func() {
		for _, f := range files {
			f.Close()
		}
	}()
	open := func(name string) (service.File, error) {
		f, err := svc.OpenBlob(name)
		if err != nil {
			return service.File{}, fmt.Errorf("open %s: %w", name, err)
		}
		files = append(files, f)
		return service.File{Name: name, Body: f}, nil
	}

	in := service.UploadInput{DocID: docID, ChangeDescription: result.Message}
	if in.File, err = open(target.FilePath); err != nil {
		return result, err
	}
	for _, h := range target.HTMLPaths {
		f, err := open(h.Path)
		if err != nil {
			return result, err
		}
		in.HTML = append(in.HTML, f)
	}

	res, err := svc.Upload(ctx, in)
	if err != nil {
		return result, err
	}
	result.NewVersion = res.Version

	fmt.Fprintf(w, "Reverted %s to v%d (now v%d)\n", docID, version, res.Version)
	return result, nil
}
