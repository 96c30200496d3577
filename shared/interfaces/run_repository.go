package interfaces

import (
	"context"
	"encoding/json"
	"time"

	"arcade-server/shared/models"

	"github.com/google/uuid"
)

// RunRepository defines the interface for runs, run players and run events.
//
//go:generate mockery --name RunRepository --output ./mocks --outpkg mocks --case=underscore
type RunRepository interface {
	// Create вставляет новый забег.
	Create(ctx context.Context, querier DBTX, run *models.CustomGameRun) error

	// GetActiveByGameID возвращает активный (running) забег игры
	// или models.ErrRunNotFound.
	GetActiveByGameID(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.CustomGameRun, error)

	// GetActiveByGameIDForUpdate - то же с блокировкой строки забега.
	GetActiveByGameIDForUpdate(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.CustomGameRun, error)

	// GetLatestByGameID возвращает самый свежий забег игры независимо от статуса.
	GetLatestByGameID(ctx context.Context, querier DBTX, gameID uuid.UUID) (*models.CustomGameRun, error)

	// UpdateStages заменяет конфигурацию стадий и счетчики.
	UpdateStages(ctx context.Context, querier DBTX, runID uuid.UUID, currentStage, totalStages int, configs []models.StageConfig) error

	// UpdateSnapshot сохраняет новый снимок карты забега.
	UpdateSnapshot(ctx context.Context, querier DBTX, runID uuid.UUID, snapshot json.RawMessage) error

	// End переводит забег в ended и ставит отметку завершения.
	End(ctx context.Context, querier DBTX, runID uuid.UUID, endedAt time.Time) error

	// CreatePlayer вставляет участника забега.
	CreatePlayer(ctx context.Context, querier DBTX, player *models.RunPlayer) error

	// GetPlayer возвращает участника или models.ErrNotFound.
	GetPlayer(ctx context.Context, querier DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error)

	// GetPlayerForUpdate - то же с блокировкой строки участника.
	GetPlayerForUpdate(ctx context.Context, querier DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error)

	// UpdatePlayerState сохраняет hp/energy/score/alive участника.
	UpdatePlayerState(ctx context.Context, querier DBTX, player *models.RunPlayer) error

	// ListPlayers возвращает участников в порядке присоединения.
	ListPlayers(ctx context.Context, querier DBTX, runID uuid.UUID) ([]*models.RunPlayer, error)

	// AppendEvent добавляет запись в append-only журнал забега.
	AppendEvent(ctx context.Context, querier DBTX, event *models.RunEvent) error

	// ListEvents возвращает последние события забега, старые первыми.
	ListEvents(ctx context.Context, querier DBTX, runID uuid.UUID, limit int) ([]*models.RunEvent, error)
}
