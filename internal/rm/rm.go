// Package rm deletes document versions.
//
// Deletion is permanent: the version's renditions and votes go with it,
// its files are removed from the uploads directory, and a document left
// without versions is removed entirely.
package rm

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/validate"
)

// Options configures a delete operation.
type Options struct {
	All bool // delete every version, removing the document
}

// Result contains the outcome of a delete operation.
type Result struct {
	DocID    string   `json:"doc_id"`
	Versions []int    `json:"versions"`
	Messages []string `json:"messages"`
}

// Run deletes version of docID, or every version when opts.All is set.
// A not-found outcome is returned as an error carrying the service message.
func Run(ctx context.Context, w io.Writer, svc service.Service, docID string, version int, opts Options) (Result, error) {
	result := Result{DocID: docID}

	if opts.All && version > 0 {
		return result, fmt.Errorf("a version and --all cannot be used together")
	}

	versions := []int{version}
	if opts.All {
		doc, err := svc.Document(ctx, docID)
		if err != nil {
			return result, err
		}
		versions = versions[:0]
		for _, v := range doc.Versions {
			versions = append(versions, v.Version)
		}
	} else if err := validate.Version(version); err != nil {
		return result, err
	}

	for _, v := range versions {
		r := svc.DeleteVersion(ctx, docID, v)
		if !r.OK {
			return result, errors.New(r.Message)
		}
		result.Versions = append(result.Versions, v)
		result.Messages = append(result.Messages, r.Message)
		fmt.Fprintln(w, r.Message)
	}
	return result, nil
}
