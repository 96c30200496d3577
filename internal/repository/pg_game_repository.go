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

var _ interfaces.GameRepository = (*pgGameRepository)(nil)

type pgGameRepository struct {
	logger *zap.Logger
}

// NewPgGameRepository creates a new repository instance.
func NewPgGameRepository(logger *zap.Logger) interfaces.GameRepository {
	return &pgGameRepository{
		logger: logger.Named("PgGameRepo"),
	}
}

const gameColumns = `id, title, idea_text, status, creator_user_id, vote_status, vote_opened_at, vote_ends_at, current_map_id, created_at, updated_at`

const createGameQuery = `
INSERT INTO custom_games (id, title, idea_text, status, creator_user_id, vote_status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`

const getGameByIDQuery = `
SELECT ` + gameColumns + `
FROM custom_games
WHERE id = $1`

// FOR UPDATE: все переходы конвейера сериализуются на строке игры.
const getGameByIDForUpdateQuery = getGameByIDQuery + `
FOR UPDATE`

const updateGameStatusQuery = `
UPDATE custom_games SET status = $2, updated_at = $3 WHERE id = $1`

const setCurrentMapQuery = `
UPDATE custom_games SET current_map_id = $2, status = $3, updated_at = $4 WHERE id = $1`

const openVoteQuery = `
UPDATE custom_games
SET vote_status = 'open', vote_opened_at = $2, vote_ends_at = $3, updated_at = $2
WHERE id = $1`

const closeVoteQuery = `
UPDATE custom_games
SET vote_status = $2, status = $3, updated_at = $4
WHERE id = $1`

const listGamesQuery = `
SELECT ` + gameColumns + `
FROM custom_games
WHERE ($1::text IS NULL OR status = $1)
ORDER BY created_at DESC
LIMIT $2`

func (r *pgGameRepository) Create(ctx context.Context, querier interfaces.DBTX, game *models.CustomGame) error {
	now := time.Now()
	game.CreatedAt = now
	game.UpdatedAt = now
	_, err := querier.Exec(ctx, createGameQuery,
		game.ID, game.Title, game.IdeaText, game.Status, game.CreatorUserID, game.VoteStatus, now)
	if err != nil {
		r.logger.Error("Failed to create custom game", zap.Stringer("gameID", game.ID), zap.Error(err))
		return err
	}
	r.logger.Info("Created custom game", zap.Stringer("gameID", game.ID), zap.Stringer("creator", game.CreatorUserID))
	return nil
}

func (r *pgGameRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGame, error) {
	return r.scanGame(ctx, querier, getGameByIDQuery, id)
}

func (r *pgGameRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGame, error) {
	return r.scanGame(ctx, querier, getGameByIDForUpdateQuery, id)
}

func (r *pgGameRepository) scanGame(ctx context.Context, querier interfaces.DBTX, query string, id uuid.UUID) (*models.CustomGame, error) {
	game := &models.CustomGame{}
	err := querier.QueryRow(ctx, query, id).Scan(
		&game.ID,
		&game.Title,
		&game.IdeaText,
		&game.Status,
		&game.CreatorUserID,
		&game.VoteStatus,
		&game.VoteOpenedAt,
		&game.VoteEndsAt,
		&game.CurrentMapID,
		&game.CreatedAt,
		&game.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrGameNotFound
		}
		r.logger.Error("Failed to get custom game", zap.Stringer("gameID", id), zap.Error(err))
		return nil, err
	}
	return game, nil
}

func (r *pgGameRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, status models.GameStatus) error {
	cmdTag, err := querier.Exec(ctx, updateGameStatusQuery, id, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to update game status",
			zap.Stringer("gameID", id), zap.String("status", string(status)), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrGameNotFound
	}
	r.logger.Debug("Updated game status", zap.Stringer("gameID", id), zap.String("status", string(status)))
	return nil
}

func (r *pgGameRepository) SetCurrentMap(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, mapID uuid.UUID, status models.GameStatus) error {
	cmdTag, err := querier.Exec(ctx, setCurrentMapQuery, id, mapID, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to set current map", zap.Stringer("gameID", id), zap.Stringer("mapID", mapID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrGameNotFound
	}
	return nil
}

func (r *pgGameRepository) OpenVote(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, openedAt, endsAt time.Time) error {
	cmdTag, err := querier.Exec(ctx, openVoteQuery, id, openedAt, endsAt)
	if err != nil {
		r.logger.Error("Failed to open population vote", zap.Stringer("gameID", id), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrGameNotFound
	}
	return nil
}

func (r *pgGameRepository) CloseVote(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, voteStatus models.PopulationVoteStatus, status models.GameStatus) error {
	cmdTag, err := querier.Exec(ctx, closeVoteQuery, id, voteStatus, status, time.Now())
	if err != nil {
		r.logger.Error("Failed to close population vote", zap.Stringer("gameID", id), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrGameNotFound
	}
	return nil
}

func (r *pgGameRepository) List(ctx context.Context, querier interfaces.DBTX, status *models.GameStatus, limit int) ([]*models.CustomGame, error) {
	var statusArg *string
	if status != nil {
		s := string(*status)
		statusArg = &s
	}
	rows, err := querier.Query(ctx, listGamesQuery, statusArg, limit)
	if err != nil {
		r.logger.Error("Failed to list custom games", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var games []*models.CustomGame
	for rows.Next() {
		game := &models.CustomGame{}
		if err := rows.Scan(
			&game.ID,
			&game.Title,
			&game.IdeaText,
			&game.Status,
			&game.CreatorUserID,
			&game.VoteStatus,
			&game.VoteOpenedAt,
			&game.VoteEndsAt,
			&game.CurrentMapID,
			&game.CreatedAt,
			&game.UpdatedAt,
		); err != nil {
			return nil, err
		}
		games = append(games, game)
	}
	return games, rows.Err()
}
