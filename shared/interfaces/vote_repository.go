package interfaces

import (
	"context"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// VoteRepository defines the interface for population vote rows.
//
//go:generate mockery --name VoteRepository --output ./mocks --outpkg mocks --case=underscore
type VoteRepository interface {
	// Upsert записывает единственный голос пользователя по игре
	// (ON CONFLICT (game_id, user_id) DO UPDATE).
	Upsert(ctx context.Context, querier DBTX, vote *models.CustomGameVote) error

	// Tally пересчитывает счетчики да/нет по всем голосам игры.
	Tally(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.VoteTally, error)
}
