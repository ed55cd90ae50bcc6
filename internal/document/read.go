// read.go serves document trees annotated with whether their files are
// present in the uploads directory. The flags are advisory: a missing file
// is reported, never an error.

package document

import (
	"context"
	"os"

	"github.com/jpl-au/docver/internal/store"
)

func (s *Service) annotate(docs []store.DocumentView) {
	for i := range docs {
		for j := range docs[i].Versions {
			v := &docs[i].Versions[j]
			v.FileConsistent = s.blobs.Exists(v.FilePath)
			for k := range v.HTMLPaths {
				v.HTMLPaths[k].Consistent = s.blobs.Exists(v.HTMLPaths[k].Path)
			}
		}
	}
}

// ListDocuments returns every document tree, newest first.
func (s *Service) ListDocuments(ctx context.Context) ([]store.DocumentView, error) {
	docs, err := s.store.ListDocuments(ctx)
	if err != nil {
		return nil, err
	}
	s.annotate(docs)
	return docs, nil
}

// Document returns the tree of docID.
func (s *Service) Document(ctx context.Context, docID string) (store.DocumentView, error) {
	d, err := s.store.Document(ctx, docID)
	if err != nil {
		return d, err
	}
	docs := []store.DocumentView{d}
	s.annotate(docs)
	return docs[0], nil
}

// Search returns documents whose metadata or change descriptions contain q.
func (s *Service) Search(ctx context.Context, q string) ([]store.DocumentView, error) {
	docs, err := s.store.Search(ctx, q)
	if err != nil {
		return nil, err
	}
	s.annotate(docs)
	return docs, nil
}

// OpenBlob opens a stored file.
func (s *Service) OpenBlob(name string) (*os.File, error) {
	return s.blobs.Open(name)
}

// ReadBlob returns a stored file's content.
func (s *Service) ReadBlob(name string) (string, error) {
	return s.blobs.ReadString(name)
}
