package interfaces

import (
	"context"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// MapRepository defines the interface for the append-only map submission ledger.
//
//go:generate mockery --name MapRepository --output ./mocks --outpkg mocks --case=underscore
type MapRepository interface {
	// Create вставляет новую версию карты.
	Create(ctx context.Context, querier DBTX, m *models.CustomGameMap) error

	// NextVersion возвращает max(version)+1 для игры (1, если версий нет).
	// Вызывается под блокировкой строки игры, поэтому версии монотонны.
	NextVersion(ctx context.Context, querier DBTX, gameID uuid.UUID) (int, error)

	// GetByID возвращает карту или models.ErrMapNotFound.
	GetByID(ctx context.Context, querier DBTX, id uuid.UUID) (*models.CustomGameMap, error)

	// Latest возвращает карту с наибольшей парой (version, id) независимо от статуса.
	Latest(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.CustomGameMap, error)

	// LatestApproved возвращает одобренную карту с наибольшей версией.
	LatestApproved(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.CustomGameMap, error)

	// UpdateStatus меняет статус версии карты.
	UpdateStatus(ctx context.Context, querier DBTX, id uuid.UUID, status models.ReviewStatus) error
}
