package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

var _ interfaces.RunRepository = (*pgRunRepository)(nil)

type pgRunRepository struct {
	logger *zap.Logger
}

// NewPgRunRepository creates a new repository instance.
func NewPgRunRepository(logger *zap.Logger) interfaces.RunRepository {
	return &pgRunRepository{
		logger: logger.Named("PgRunRepo"),
	}
}

const runColumns = `id, game_id, status, current_stage, total_stages, stage_configs, map_snapshot, creator_user_id, started_at, ended_at`

const createRunQuery = `
INSERT INTO custom_game_runs (id, game_id, status, current_stage, total_stages, stage_configs, map_snapshot, creator_user_id, started_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getActiveRunQuery = `
SELECT ` + runColumns + `
FROM custom_game_runs
WHERE game_id = $1 AND status = 'running'
ORDER BY started_at DESC
LIMIT 1`

// FOR UPDATE: действия, стадии и завершение сериализуются на строке забега.
const getActiveRunForUpdateQuery = getActiveRunQuery + `
FOR UPDATE`

const getLatestRunQuery = `
SELECT ` + runColumns + `
FROM custom_game_runs
WHERE game_id = $1
ORDER BY started_at DESC
LIMIT 1`

const updateRunStagesQuery = `
UPDATE custom_game_runs SET current_stage = $2, total_stages = $3, stage_configs = $4 WHERE id = $1`

const updateRunSnapshotQuery = `
UPDATE custom_game_runs SET map_snapshot = $2 WHERE id = $1`

const endRunQuery = `
UPDATE custom_game_runs SET status = 'ended', ended_at = $2 WHERE id = $1 AND status = 'running'`

const playerColumns = `id, run_id, user_id, name, hp, energy, score, alive, joined_at`

const createPlayerQuery = `
INSERT INTO custom_game_run_players (id, run_id, user_id, name, hp, energy, score, alive, joined_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

const getPlayerQuery = `
SELECT ` + playerColumns + `
FROM custom_game_run_players
WHERE run_id = $1 AND user_id = $2`

const getPlayerForUpdateQuery = getPlayerQuery + `
FOR UPDATE`

const updatePlayerStateQuery = `
UPDATE custom_game_run_players SET hp = $2, energy = $3, score = $4, alive = $5 WHERE id = $1`

const listPlayersQuery = `
SELECT ` + playerColumns + `
FROM custom_game_run_players
WHERE run_id = $1
ORDER BY joined_at, id`

const appendEventQuery = `
INSERT INTO custom_game_run_events (id, run_id, actor_user_id, event_type, message, payload, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

const listEventsQuery = `
SELECT id, run_id, actor_user_id, event_type, message, payload, created_at
FROM (
    SELECT id, run_id, actor_user_id, event_type, message, payload, created_at
    FROM custom_game_run_events
    WHERE run_id = $1
    ORDER BY created_at DESC, id DESC
    LIMIT $2
) latest
ORDER BY created_at, id`

func (r *pgRunRepository) Create(ctx context.Context, querier interfaces.DBTX, run *models.CustomGameRun) error {
	configs, err := json.Marshal(run.StageConfigs)
	if err != nil {
		return err
	}
	_, err = querier.Exec(ctx, createRunQuery,
		run.ID, run.GameID, run.Status, run.CurrentStage, run.TotalStages,
		configs, run.MapSnapshot, run.CreatorUserID, run.StartedAt)
	if err != nil {
		r.logger.Error("Failed to create run", zap.Stringer("gameID", run.GameID), zap.Error(err))
		return err
	}
	r.logger.Info("Created run", zap.Stringer("runID", run.ID), zap.Stringer("gameID", run.GameID))
	return nil
}

func (r *pgRunRepository) GetActiveByGameID(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	return r.scanRun(ctx, querier, getActiveRunQuery, gameID)
}

func (r *pgRunRepository) GetActiveByGameIDForUpdate(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	return r.scanRun(ctx, querier, getActiveRunForUpdateQuery, gameID)
}

func (r *pgRunRepository) GetLatestByGameID(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	return r.scanRun(ctx, querier, getLatestRunQuery, gameID)
}

func (r *pgRunRepository) scanRun(ctx context.Context, querier interfaces.DBTX, query string, gameID uuid.UUID) (*models.CustomGameRun, error) {
	run := &models.CustomGameRun{}
	var configs []byte
	err := querier.QueryRow(ctx, query, gameID).Scan(
		&run.ID,
		&run.GameID,
		&run.Status,
		&run.CurrentStage,
		&run.TotalStages,
		&configs,
		&run.MapSnapshot,
		&run.CreatorUserID,
		&run.StartedAt,
		&run.EndedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrRunNotFound
		}
		r.logger.Error("Failed to get run", zap.Stringer("gameID", gameID), zap.Error(err))
		return nil, err
	}
	if len(configs) > 0 {
		if err := json.Unmarshal(configs, &run.StageConfigs); err != nil {
			r.logger.Error("Failed to decode stage configs", zap.Stringer("runID", run.ID), zap.Error(err))
			return nil, err
		}
	}
	return run, nil
}

func (r *pgRunRepository) UpdateStages(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, currentStage, totalStages int, configs []models.StageConfig) error {
	encoded, err := json.Marshal(configs)
	if err != nil {
		return err
	}
	cmdTag, err := querier.Exec(ctx, updateRunStagesQuery, runID, currentStage, totalStages, encoded)
	if err != nil {
		r.logger.Error("Failed to update run stages", zap.Stringer("runID", runID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

func (r *pgRunRepository) UpdateSnapshot(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, snapshot json.RawMessage) error {
	cmdTag, err := querier.Exec(ctx, updateRunSnapshotQuery, runID, snapshot)
	if err != nil {
		r.logger.Error("Failed to update run snapshot", zap.Stringer("runID", runID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrRunNotFound
	}
	return nil
}

func (r *pgRunRepository) End(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, endedAt time.Time) error {
	cmdTag, err := querier.Exec(ctx, endRunQuery, runID, endedAt)
	if err != nil {
		r.logger.Error("Failed to end run", zap.Stringer("runID", runID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrRunNotFound
	}
	r.logger.Info("Ended run", zap.Stringer("runID", runID))
	return nil
}

func (r *pgRunRepository) CreatePlayer(ctx context.Context, querier interfaces.DBTX, player *models.RunPlayer) error {
	_, err := querier.Exec(ctx, createPlayerQuery,
		player.ID, player.RunID, player.UserID, player.Name,
		player.HP, player.Energy, player.Score, player.Alive, player.JoinedAt)
	if err != nil {
		r.logger.Error("Failed to create run player",
			zap.Stringer("runID", player.RunID), zap.Stringer("userID", player.UserID), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgRunRepository) GetPlayer(ctx context.Context, querier interfaces.DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error) {
	return r.scanPlayer(ctx, querier, getPlayerQuery, runID, userID)
}

func (r *pgRunRepository) GetPlayerForUpdate(ctx context.Context, querier interfaces.DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error) {
	return r.scanPlayer(ctx, querier, getPlayerForUpdateQuery, runID, userID)
}

func (r *pgRunRepository) scanPlayer(ctx context.Context, querier interfaces.DBTX, query string, runID, userID uuid.UUID) (*models.RunPlayer, error) {
	player := &models.RunPlayer{}
	err := querier.QueryRow(ctx, query, runID, userID).Scan(
		&player.ID,
		&player.RunID,
		&player.UserID,
		&player.Name,
		&player.HP,
		&player.Energy,
		&player.Score,
		&player.Alive,
		&player.JoinedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrNotFound
		}
		r.logger.Error("Failed to get run player",
			zap.Stringer("runID", runID), zap.Stringer("userID", userID), zap.Error(err))
		return nil, err
	}
	return player, nil
}

func (r *pgRunRepository) UpdatePlayerState(ctx context.Context, querier interfaces.DBTX, player *models.RunPlayer) error {
	cmdTag, err := querier.Exec(ctx, updatePlayerStateQuery,
		player.ID, player.HP, player.Energy, player.Score, player.Alive)
	if err != nil {
		r.logger.Error("Failed to update run player state", zap.Stringer("playerID", player.ID), zap.Error(err))
		return err
	}
	if cmdTag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *pgRunRepository) ListPlayers(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID) ([]*models.RunPlayer, error) {
	rows, err := querier.Query(ctx, listPlayersQuery, runID)
	if err != nil {
		r.logger.Error("Failed to list run players", zap.Stringer("runID", runID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var players []*models.RunPlayer
	for rows.Next() {
		player := &models.RunPlayer{}
		if err := rows.Scan(
			&player.ID,
			&player.RunID,
			&player.UserID,
			&player.Name,
			&player.HP,
			&player.Energy,
			&player.Score,
			&player.Alive,
			&player.JoinedAt,
		); err != nil {
			return nil, err
		}
		players = append(players, player)
	}
	return players, rows.Err()
}

func (r *pgRunRepository) AppendEvent(ctx context.Context, querier interfaces.DBTX, event *models.RunEvent) error {
	_, err := querier.Exec(ctx, appendEventQuery,
		event.ID, event.RunID, event.ActorUserID, event.EventType, event.Message, event.Payload, event.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to append run event",
			zap.Stringer("runID", event.RunID), zap.String("eventType", event.EventType), zap.Error(err))
		return err
	}
	return nil
}

func (r *pgRunRepository) ListEvents(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, limit int) ([]*models.RunEvent, error) {
	rows, err := querier.Query(ctx, listEventsQuery, runID, limit)
	if err != nil {
		r.logger.Error("Failed to list run events", zap.Stringer("runID", runID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var events []*models.RunEvent
	for rows.Next() {
		event := &models.RunEvent{}
		if err := rows.Scan(
			&event.ID,
			&event.RunID,
			&event.ActorUserID,
			&event.EventType,
			&event.Message,
			&event.Payload,
			&event.CreatedAt,
		); err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	return events, rows.Err()
}
