// stats.go reports table row counts. After deletions these must show no
// rendition or vote rows left behind by a removed version or document.

package store

import (
	"context"
	"fmt"
)

// Counts returns the number of rows in each table.
func (s *SQLiteStore) Counts(ctx context.Context) (Counts, error) {
	var c Counts
	err := s.db.QueryRowContext(ctx, `
		SELECT
			(SELECT COUNT(*) FROM documents),
			(SELECT COUNT(*) FROM versions),
			(SELECT COUNT(*) FROM html_documents),
			(SELECT COUNT(*) FROM votes)`).
		Scan(&c.Documents, &c.Versions, &c.Renditions, &c.Votes)
	if err != nil {
		return c, fmt.Errorf("count rows: %w", err)
	}
	return c, nil
}
