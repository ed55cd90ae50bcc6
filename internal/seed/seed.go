// Package seed loads a small set of demonstration documents through the
// normal upload path, so seeded files exist in the uploads directory and
// every row goes through the version ledger.
package seed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/jpl-au/docver/internal/metadata"
	"github.com/jpl-au/docver/internal/progress"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// ErrSeeded is returned when a demo document already exists and Force is
// not set.
var ErrSeeded = errors.New("demo documents already exist (use --force to replace them)")

// Options configures a seed run.
type Options struct {
	Force bool // delete existing demo documents first
}

// Result lists the versions created.
type Result struct {
	Uploads []service.UploadResult `json:"uploads"`
}

type upload struct {
	docID    string
	metadata metadata.Metadata
	change   string
	html     int
}

var uploads = []upload{
	{"doc-a", metadata.Metadata{"name": "Document A", "author": "Author 1", "year": 2023}, "Initial version", 2},
	{"doc-b", metadata.Metadata{"name": "Document B", "category": "Category X", "status": "draft"}, "First version", 1},
	{"doc-b", metadata.Metadata{"status": "published"}, "Published version", 2},
}

// Run uploads the demo documents.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	var result Result

	if err := reset(ctx, svc, opts.Force); err != nil {
		return result, err
	}

	p := progress.New("Seeding", len(uploads))
	defer p.Done()
	for _, u := range uploads {
		res, err := svc.Upload(ctx, u.input())
		if err != nil {
			return result, fmt.Errorf("seed %s: %w", u.docID, err)
		}
		result.Uploads = append(result.Uploads, res)
		p.Step(u.docID)
	}

	for _, r := range result.Uploads {
		fmt.Fprintf(w, "Seeded %s v%d (%d html)\n", r.DocID, r.Version, len(r.HTMLPaths))
	}
	return result, nil
}

// reset removes existing demo documents when force is set.
func reset(ctx context.Context, svc service.Service, force bool) error {
	for _, id := range []string{"doc-a", "doc-b"} {
		doc, err := svc.Document(ctx, id)
		if errors.Is(err, store.ErrDocumentNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if !force {
			return ErrSeeded
		}
		for _, v := range doc.Versions {
			if r := svc.DeleteVersion(ctx, id, v.Version); !r.OK {
				return errors.New(r.Message)
			}
		}
	}
	return nil
}

func (u upload) input() service.UploadInput {
	in := service.UploadInput{
		DocID:             u.docID,
		Metadata:          u.metadata.Clone(),
		ChangeDescription: u.change,
		File: service.File{
			Name: u.docID + ".pdf",
			Body: strings.NewReader(pdf(u.docID, u.change)),
		},
	}
	for i := range u.html {
		in.HTML = append(in.HTML, service.File{
			Name: fmt.Sprintf("%s-%d.html", u.docID, i+1),
			Body: strings.NewReader(page(u.docID, u.change, i+1)),
		})
	}
	return in
}

// pdf returns a minimal placeholder PDF.
func pdf(docID, change string) string {
	return "%PDF-1.4\n% " + docID + ": " + change + "\n%%EOF\n"
}

func page(docID, change string, n int) string {
	return fmt.Sprintf("<html>\n<head><title>%s</title></head>\n<body>\n<h1>%s</h1>\n<p>%s</p>\n<p>Page %d</p>\n</body>\n</html>\n",
		docID, docID, change, n)
}
