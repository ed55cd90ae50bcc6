// votes.go implements the vote ledger.
//
// Votes reference both the document and the version row. Repeat votes from
// the same voter are all recorded.

package store

import (
	"context"
	"database/sql"
	"fmt"
)

// CastVote records a vote against (docID, version) within tx.
func CastVote(ctx context.Context, tx *sql.Tx, docID string, version int, voteType, voterInfo string) error {
	documentID, versionID, err := lookupVersion(ctx, tx, docID, version)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO votes (document_id, version_id, vote_type, voter_info) VALUES (?, ?, ?, ?)`,
		documentID, versionID, voteType, voterInfo); err != nil {
		return fmt.Errorf("insert vote: %w", err)
	}
	return nil
}

// CastVote runs the package-level CastVote in its own transaction.
func (s *SQLiteStore) CastVote(ctx context.Context, docID string, version int, voteType, voterInfo string) error {
	return s.Tx(ctx, func(tx *sql.Tx) error {
		return CastVote(ctx, tx, docID, version, voteType, voterInfo)
	})
}

// VoteCounts aggregates votes per (document, version), ordered by doc_id
// then version.
func VoteCounts(ctx context.Context, q Querier) ([]VoteCount, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT d.doc_id, v.version,
		       COALESCE(SUM(CASE WHEN vt.vote_type = ? THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN vt.vote_type = ? THEN 1 ELSE 0 END), 0)
		FROM votes vt
		JOIN documents d ON d.id = vt.document_id
		JOIN versions v ON v.id = vt.version_id
		GROUP BY d.id, v.id
		ORDER BY d.doc_id, v.version`, VoteGood, VoteBad)
	if err != nil {
		return nil, fmt.Errorf("vote counts: %w", err)
	}
	defer rows.Close()

	counts := []VoteCount{}
	for rows.Next() {
		var c VoteCount
		if err := rows.Scan(&c.DocID, &c.Version, &c.GoodCount, &c.BadCount); err != nil {
			return nil, fmt.Errorf("scan vote count: %w", err)
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}

// VoteCounts aggregates all recorded votes.
func (s *SQLiteStore) VoteCounts(ctx context.Context) ([]VoteCount, error) {
	return VoteCounts(ctx, s.db)
}

// AllVotes lists every vote ordered by doc_id, version, then time of casting.
func AllVotes(ctx context.Context, q Querier) ([]Vote, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT d.doc_id, v.version, vt.vote_type, COALESCE(vt.voter_info, ''), vt.created_at
		FROM votes vt
		JOIN documents d ON d.id = vt.document_id
		JOIN versions v ON v.id = vt.version_id
		ORDER BY d.doc_id, v.version, vt.created_at, vt.id`)
	if err != nil {
		return nil, fmt.Errorf("list votes: %w", err)
	}
	defer rows.Close()

	votes := []Vote{}
	for rows.Next() {
		var (
			v  Vote
			ts int64
		)
		if err := rows.Scan(&v.DocID, &v.Version, &v.VoteType, &v.VoterInfo, &ts); err != nil {
			return nil, fmt.Errorf("scan vote: %w", err)
		}
		v.CreatedAt = unixTime(ts)
		votes = append(votes, v)
	}
	return votes, rows.Err()
}

// AllVotes lists every recorded vote.
func (s *SQLiteStore) AllVotes(ctx context.Context) ([]Vote, error) {
	return AllVotes(ctx, s.db)
}
