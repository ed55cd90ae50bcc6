package document

import (
	"context"
	"database/sql"

	"github.com/jpl-au/docver/extension"
	"github.com/jpl-au/docver/internal/service"
	"github.com/jpl-au/docver/internal/store"
	"github.com/jpl-au/docver/internal/validate"
)

// CastVote records a vote against a version.
func (s *Service) CastVote(ctx context.Context, docID string, version int, voteType, voterInfo string) service.Result {
	if err := validate.VoteType(voteType); err != nil {
		return service.Result{Message: err.Error()}
	}
	err := s.store.Tx(ctx, func(tx *sql.Tx) error {
		return store.CastVote(ctx, tx, docID, version, voteType, voterInfo)
	})
	if err != nil {
		return resultFor(err)
	}

	s.fireEvent(extension.VoteEvent{DocID: docID, Version: version, VoteType: voteType})
	return service.Result{OK: true, Message: "Vote recorded."}
}

// VoteCounts aggregates good and bad votes per version.
func (s *Service) VoteCounts(ctx context.Context) ([]store.VoteCount, error) {
	return s.store.VoteCounts(ctx)
}

// AllVotes lists every recorded vote.
func (s *Service) AllVotes(ctx context.Context) ([]store.Vote, error) {
	return s.store.AllVotes(ctx)
}
