// delete.go implements version deletion. Rows go in one transaction; the
// version's files are removed only after it has committed, so a rolled back
// delete never loses a file. File removal is best-effort.

package document

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/log"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
)

// Messages reported for not-found conditions.
const (
	MsgDocumentNotFound = "Document not found."
	MsgVersionNotFound  = "Version not found."
)

// resultFor converts a ledger error into a Result.
func resultFor(err error) service.Result {
	switch {
	case errors.Is(err, store.ErrDocumentNotFound):
		return service.Result{Message: MsgDocumentNotFound}
	case errors.Is(err, store.ErrVersionNotFound):
		return service.Result{Message: MsgVersionNotFound}
	default:
		return service.Result{Message: err.Error()}
	}
}

// DeleteVersion removes one version of docID with its renditions and votes.
func (s *Service) DeleteVersion(ctx context.Context, docID string, version int) service.Result {
	var d store.Deleted
	err := s.store.Tx(ctx, func(tx *sql.Tx) error {
		var err error
		d, err = store.DeleteVersion(ctx, tx, docID, version)
		return err
	})
	if err != nil {
		return resultFor(err)
	}

	for _, name := range d.Files {
		if err := s.blobs.Remove(name); err != nil {
			log.Event("document:rm", "remove_file").
				DocID(docID).
				Version(version).
				Detail("file", name).
				Write(err)
		}
	}

	s.fireEvent(extension.VersionDeleteEvent{
		DocID:           docID,
		Version:         version,
		LatestVersion:   d.Latest,
		DocumentRemoved: d.DocumentRemoved,
	})
	return service.Result{
		OK:      true,
		Message: fmt.Sprintf("Version %d of document %s deleted.", version, docID),
	}
}
