package document

import (
	"context"
	"fmt"
	"slices"

	"github.com/jpl-au/docver/internal/service"
)

// Check compares recorded file paths with the uploads directory.
func (s *Service) Check(ctx context.Context) (service.CheckReport, error) {
	var r service.CheckReport

	counts, err := s.store.Counts(ctx)
	if err != nil {
		return r, err
	}
	r.Counts = counts

	docs, err := s.ListDocuments(ctx)
	if err != nil {
		return r, err
	}
	r.Missing = []service.MissingFile{}
	for _, d := range docs {
		for _, v := range d.Versions {
			if !v.FileConsistent {
				r.Missing = append(r.Missing, service.MissingFile{
					DocID: d.DocID, Version: v.Version, Path: v.FilePath, Kind: "pdf",
				})
			}
			for _, h := range v.HTMLPaths {
				if !h.Consistent {
					r.Missing = append(r.Missing, service.MissingFile{
						DocID: d.DocID, Version: v.Version, Path: h.Path, Kind: "html",
					})
				}
			}
		}
	}

	referenced, err := s.store.FilePaths(ctx)
	if err != nil {
		return r, err
	}
	names, err := s.blobs.List()
	if err != nil {
		return r, fmt.Errorf("list uploads: %w", err)
	}
	r.Unreferenced = []string{}
	for _, n := range names {
		if !referenced[n] {
			r.Unreferenced = append(r.Unreferenced, n)
		}
	}
	slices.Sort(r.Unreferenced)
	return r, nil
}

// Vacuum removes unreferenced uploads and compacts the database. Uploads in
// flight have saved blobs that are not yet referenced, so run it while the
// repository is idle.
func (s *Service) Vacuum(ctx context.Context, dryRun bool) ([]string, error) {
	r, err := s.Check(ctx)
	if err != nil {
		return nil, err
	}
	if dryRun {
		return r.Unreferenced, nil
	}

	removed := make([]string, 0, len(r.Unreferenced))
	for _, name := range r.Unreferenced {
		if err := s.blobs.Remove(name); err != nil {
			return removed, fmt.Errorf("remove %s: %w", name, err)
		}
		removed = append(removed, name)
	}
	if err := s.store.Vacuum(ctx); err != nil {
		return removed, err
	}
	return removed, nil
}
