package repository

import (
	"context"
	"errors"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.StatsRepository = (*pgStatsRepository)(nil)

type pgStatsRepository struct {
	logger *zap.Logger
}

// NewPgStatsRepository creates a new repository instance.
func NewPgStatsRepository(logger *zap.Logger) interfaces.StatsRepository {
	return &pgStatsRepository{
		logger: logger.Named("PgStatsRepo"),
	}
}

const applyRunResultQuery = `
INSERT INTO custom_game_player_stats (user_id, total_points, total_runs, total_wins, updated_at)
VALUES ($1, $2, 1, $3, $4)
ON CONFLICT (user_id) DO UPDATE SET
    total_points = custom_game_player_stats.total_points + EXCLUDED.total_points,
    total_runs = custom_game_player_stats.total_runs + 1,
    total_wins = custom_game_player_stats.total_wins + EXCLUDED.total_wins,
    updated_at = EXCLUDED.updated_at`

const getStatsQuery = `
SELECT user_id, total_points, total_runs, total_wins, updated_at
FROM custom_game_player_stats
WHERE user_id = $1`

func (r *pgStatsRepository) ApplyRunResult(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID, points int, win bool) error {
	wins := 0
	if win {
		wins = 1
	}
	_, err := querier.Exec(ctx, applyRunResultQuery, userID, points, wins, time.Now())
	if err != nil {
		r.logger.Error("Failed to apply run result", zap.Stringer("userID", userID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgStatsRepository) Get(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) (*models.PlayerStats, error) {
	stats := &models.PlayerStats{}
	err := querier.QueryRow(ctx, getStatsQuery, userID).Scan(
		&stats.UserID,
		&stats.TotalPoints,
		&stats.TotalRuns,
		&stats.TotalWins,
		&stats.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get player stats", zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return stats, nil
}
