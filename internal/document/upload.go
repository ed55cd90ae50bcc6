// upload.go implements ingest: files go to blob storage first, then the
// version is recorded in one transaction. Blobs written for an upload whose
// transaction fails are removed again so no file is left unreferenced.

package document

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/blob"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/jpl-au/docver/internal/validate"
)

// Upload validates in, stores its files and records the next version of
// in.DocID. When in.DocID is empty the metadata's doc_id key is used.
// Validation failures wrap validate sentinels; recording failures are
// *service.StoreError.
func (s *Service) Upload(ctx context.Context, in service.UploadInput) (service.UploadResult, error) {
	var res service.UploadResult

	docID := in.DocID
	if docID == "" {
		docID, _ = in.Metadata.DocID()
	}
	if err := validate.DocID(docID); err != nil {
		return res, err
	}
	if in.File.Body == nil {
		return res, fmt.Errorf("%w: no file", validate.ErrExtension)
	}
	pdfExt, err := validate.Extension(in.File.Name, validate.ExtPDF)
	if err != nil {
		return res, err
	}
	htmlExts := make([]string, len(in.HTML))
	for i, h := range in.HTML {
		if htmlExts[i], err = validate.Extension(h.Name, validate.ExtHTML); err != nil {
			return res, err
		}
	}

	var saved []string
	cleanup := func() {
		for _, name := range saved {
			if err := s.blobs.Remove(name); err != nil {
				log.Event("document:upload", "cleanup").
					DocID(docID).
					Detail("file", name).
					Write(err)
			}
		}
	}

	primary, err := s.blobs.Save(blob.NewName(pdfExt), in.File.Body)
	if err != nil {
		return res, fmt.Errorf("save %s: %w", in.File.Name, err)
	}
	saved = append(saved, primary)

	htmlPaths := make([]string, 0, len(in.HTML))
	for i, h := range in.HTML {
		name, err := s.blobs.Save(blob.NewName(htmlExts[i]), h.Body)
		if err != nil {
			cleanup()
			return res, fmt.Errorf("save %s: %w", h.Name, err)
		}
		saved = append(saved, name)
		htmlPaths = append(htmlPaths, name)
	}

	id, version, err := s.record(ctx, store.UpsertInput{
		DocID:             docID,
		Metadata:          in.Metadata,
		ChangeDescription: in.ChangeDescription,
		FilePath:          primary,
		HTMLPaths:         htmlPaths,
	})
	if err != nil {
		cleanup()
		return res, err
	}

	return service.UploadResult{
		DocumentID: id,
		DocID:      docID,
		Version:    version,
		FilePath:   primary,
		HTMLPaths:  htmlPaths,
	}, nil
}

// UpsertVersion records a version whose files are already stored.
func (s *Service) UpsertVersion(ctx context.Context, in store.UpsertInput) (int64, int, error) {
	return s.record(ctx, in)
}

func (s *Service) record(ctx context.Context, in store.UpsertInput) (int64, int, error) {
	var (
		id      int64
		version int
	)
	err := s.store.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		id, version, err = store.UpsertVersion(ctx, tx, in)
		return err
	})
	if err != nil {
		return 0, 0, &service.StoreError{Err: err}
	}

	s.fireEvent(extension.VersionUploadEvent{
		DocID:             in.DocID,
		Version:           version,
		FilePath:          in.FilePath,
		HTMLPaths:         in.HTMLPaths,
		ChangeDescription: in.ChangeDescription,
	})
	return id, version, nil
}
