package repository

import (
	"context"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var _ interfaces.VoteRepository = (*pgVoteRepository)(nil)

type pgVoteRepository struct {
	logger *zap.Logger
}

// NewPgVoteRepository creates a new repository instance.
func NewPgVoteRepository(logger *zap.Logger) interfaces.VoteRepository {
	return &pgVoteRepository{
		logger: logger.Named("PgVoteRepo"),
	}
}

// Последний голос пользователя выигрывает, пока окно открыто.
const upsertPopulationVoteQuery = `
INSERT INTO custom_game_votes (id, game_id, user_id, vote, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $5)
ON CONFLICT (game_id, user_id) DO UPDATE SET
    vote = EXCLUDED.vote,
    updated_at = EXCLUDED.updated_at`

const tallyQuery = `
SELECT
    COUNT(*) FILTER (WHERE vote = 1),
    COUNT(*) FILTER (WHERE vote = 0)
FROM custom_game_votes
WHERE game_id = $1`

func (r *pgVoteRepository) Upsert(ctx context.Context, querier interfaces.DBTX, vote *models.CustomGameVote) error {
	now := time.Now()
	vote.UpdatedAt = now
	_, err := querier.Exec(ctx, upsertPopulationVoteQuery,
		vote.ID, vote.GameID, vote.UserID, vote.Vote, now)
	if err != nil {
		r.logger.Error("Failed to upsert population vote",
			zap.Stringer("gameID", vote.GameID), zap.Stringer("userID", vote.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgVoteRepository) Tally(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.VoteTally, error) {
	tally := &models.VoteTally{}
	err := querier.QueryRow(ctx, tallyQuery, gameID).Scan(&tally.Yes, &tally.No)
	if err != nil {
		r.logger.Error("Failed to tally population votes", zap.Stringer("gameID", gameID), zap.Error(err))
		return nil, err
	}
	return tally, nil
}
