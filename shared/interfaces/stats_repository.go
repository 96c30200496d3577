package interfaces

import (
	"context"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// StatsRepository defines the interface for lifetime player statistics.
//
//go:generate mockery --name StatsRepository --output ./mocks --outpkg mocks --case=underscore
type StatsRepository interface {
	// ApplyRunResult атомарно добавляет результат одного забега:
	// totalPoints += points, totalRuns += 1, totalWins += (win ? 1 : 0).
	ApplyRunResult(ctx context.Context, querier DBTX, userID uuid.UUID, points int, win bool) error

	// Get возвращает статистику игрока или models.ErrNotFound.
	Get(ctx context.Context, querier DBTX, userID uuid.UUID) (*models.PlayerStats, error)
}
