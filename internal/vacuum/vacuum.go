// Package vacuum reclaims space: uploads no version or rendition references
// are removed and the database file is compacted.
package vacuum

import (
	"context"
	"fmt"
	"io"

	"github.com/jpl-au/docver/internal/progress"
	"github.com/jpl-au/docver/internal/service"
)

// Options configures a vacuum run.
type Options struct {
	DryRun bool // list what would be removed without removing it
}

// Result reports the files removed, or that would be with DryRun.
type Result struct {
	Removed int      `json:"removed"`
	Files   []string `json:"files"`
	DryRun  bool     `json:"dry_run,omitempty"`
}

// Run removes unreferenced uploads and compacts the database. Use DryRun
// first to preview; removal cannot be undone.
func Run(ctx context.Context, w io.Writer, svc service.Service, opts Options) (Result, error) {
	result := Result{DryRun: opts.DryRun}

	stop := progress.Busy("Vacuuming")
	files, err := svc.Vacuum(ctx, opts.DryRun)
	stop()

	result.Files = files
	result.Removed = len(files)
	if err != nil {
		return result, err
	}

	if opts.DryRun {
		if len(files) == 0 {
			fmt.Fprintln(w, "No unreferenced uploads")
			return result, nil
		}
		for _, f := range files {
			fmt.Fprintf(w, "Would remove: %s\n", f)
		}
		fmt.Fprintf(w, "\nWould remove %d file(s)\n", len(files))
		return result, nil
	}

	for _, f := range files {
		fmt.Fprintf(w, "Removed: %s\n", f)
	}
	fmt.Fprintf(w, "Removed %d unreferenced upload(s), database compacted\n", len(files))
	return result, nil
}
