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

var _ interfaces.MapRepository = (*pgMapRepository)(nil)

type pgMapRepository struct {
	logger *zap.Logger
}

// NewPgMapRepository creates a new repository instance.
func NewPgMapRepository(logger *zap.Logger) interfaces.MapRepository {
	return &pgMapRepository{
		logger: logger.Named("PgMapRepo"),
	}
}

const mapColumns = `id, game_id, version, map_data, status, creator_user_id, created_at, updated_at`

const createMapQuery = `
INSERT INTO custom_game_maps (id, game_id, version, map_data, status, creator_user_id, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

// Вызывается под блокировкой строки игры, иначе монотонность не гарантируется.
const nextVersionQuery = `
SELECT COALESCE(MAX(version), 0) + 1 FROM custom_game_maps WHERE game_id = $1`

const getMapByIDQuery = `
SELECT ` + mapColumns + `
FROM custom_game_maps
WHERE id = $1`

const latestMapQuery = `
SELECT ` + mapColumns + `
FROM custom_game_maps
WHERE game_id = $1
ORDER BY version DESC, id DESC
LIMIT 1`

const latestApprovedMapQuery = `
SELECT ` + mapColumns + `
FROM custom_game_maps
WHERE game_id = $1 AND status = 'approved'
ORDER BY version DESC, id DESC
LIMIT 1`

const updateMapStatusQuery = `
UPDATE custom_game_maps SET status = $2, updated_at = $3 WHERE id = $1`

func (r *pgMapRepository) Create(ctx context.Context, querier interfaces.DBTX, m *models.CustomGameMap) error {
	now := time.Now()
	m.CreatedAt = now
	m.UpdatedAt = now
	_, err := querier.Exec(ctx, createMapQuery,
		m.ID, m.GameID, m.Version, m.MapData, m.Status, m.CreatorUserID, now)
	if err != nil {
		r.logger.Error("Failed to create map version",
			zap.Stringer("gameID", m.GameID), zap.Int("version", m.Version), zap.Error(err))
		return err
	}
	r.logger.Debug("Created map version", zap.Stringer("gameID", m.GameID), zap.Int("version", m.Version))
	return nil
}

func (r *pgMapRepository) NextVersion(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (int, error) {
	var version int
	if err := querier.QueryRow(ctx, nextVersionQuery, gameID).Scan(&version); err != nil {
		r.logger.Error("Failed to compute next map version", zap.Stringer("gameID", gameID), zap.Error(err))
		return 0, err
	}
	return version, nil
}

func (r *pgMapRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGameMap, error) {
	return r.scanMap(ctx, querier, getMapByIDQuery, id)
}

func (r *pgMapRepository) Latest(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameMap, error) {
	return r.scanMap(ctx, querier, latestMapQuery, gameID)
}

func (r *pgMapRepository) LatestApproved(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameMap, error) {
	return r.scanMap(ctx, querier, latestApprovedMapQuery, gameID)
}

func (r *pgMapRepository) scanMap(ctx context.Context, querier interfaces.DBTX, query string, arg uuid.UUID) (*models.CustomGameMap, error) {
	m := &models.CustomGameMap{}
	err := querier.QueryRow(ctx, query, arg).Scan(
		&m.ID,
		&m.GameID,
		&m.Version,
		&m.MapData,
		&m.Status,
		&m.CreatorUserID,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrMapNotFound
		}
		r.logger.Error("Failed to get map", zap.Stringer("arg", arg), zap.Error(err))
		return nil, err
	}
	return m, nil
}

func (r *pgMapRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, status models.ReviewStatus) error {
	cmdTag, err := querier.Exec(ctx, updateMapStatusQuery, id, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update map status", zap.Stringer("mapID", id), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrMapNotFound
	}
	return nil
}
