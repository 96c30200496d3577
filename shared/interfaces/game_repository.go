package interfaces

import (
	"context"
	"time"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// GameRepository defines the interface for custom game rows.
//
//go:generate mockery --name GameRepository --output ./mocks --outpkg mocks --case=underscore
type GameRepository interface {
	// Create вставляет новую игру.
	Create(ctx context.Context, querier DBTX, game *models.CustomGame) error

	// GetByID возвращает игру или models.ErrGameNotFound.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.CustomGame, error)

	// GetByIDForUpdate читает игру с блокировкой строки (FOR UPDATE).
	// Все переходы конвейера сериализуются на строке игры.
	GetByIDForUpdate(ctx context.Context, querier DBTX, id uuid.UUID) (*models.CustomGame, error)

	// UpdateStatus меняет статус игры.
	UpdateStatus(ctx context.Context, querier DBTX, id uuid.UUID, status models.GameStatus) error

	// SetCurrentMap фиксирует одобренную карту и новый статус одним апдейтом.
	SetCurrentMap(ctx context.Context, querier DBTX, id uuid.UUID, mapID uuid.UUID, status models.GameStatus) error

	// OpenVote открывает всенародное голосование и ставит окно.
	OpenVote(ctx context.Context, querier DBTX, id uuid.UUID, openedAt, endsAt time.Time) error

	// CloseVote закрывает голосование и переводит игру в итоговый статус.
	CloseVote(ctx context.Context, querier DBTX, id uuid.UUID, voteStatus models.PopulationVoteStatus, status models.GameStatus) error

	// List возвращает игры, новые первыми; status == nil - без фильтра.
	List(ctx context.Context, querier DBTX, status *models.GameStatus, limit int) ([]*models.CustomGame, error)
}
