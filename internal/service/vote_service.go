package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Окно голосования по умолчанию, если администратор не задал длительность.
const defaultVoteDuration = 60 * time.Minute

// VoteService - менеджер всенародного голосования за запуск игры.
// Правило прохождения: yes >= minYes && yes > no.
type VoteService struct {
	txManager interfaces.TxManager
	db        interfaces.DBTX
	gameRepo  interfaces.GameRepository
	voteRepo  interfaces.VoteRepository
	mapRepo   interfaces.MapRepository
	runRepo   interfaces.RunRepository
	publisher interfaces.AnnouncementPublisher
	logger    *zap.Logger
}

// NewVoteService creates a new VoteService.
func NewVoteService(
	txManager interfaces.TxManager,
	db interfaces.DBTX,
	gameRepo interfaces.GameRepository,
	voteRepo interfaces.VoteRepository,
	mapRepo interfaces.MapRepository,
	runRepo interfaces.RunRepository,
	publisher interfaces.AnnouncementPublisher,
	logger *zap.Logger,
) *VoteService {
	return &VoteService{
		txManager: txManager,
		db:        db,
		gameRepo:  gameRepo,
		voteRepo:  voteRepo,
		mapRepo:   mapRepo,
		runRepo:   runRepo,
		publisher: publisher,
		logger:    logger.Named("VoteService"),
	}
}

// CloseResult - итог закрытия голосования.
type CloseResult struct {
	Passed bool       `json:"passed"`
	Yes    int        `json:"yes"`
	No     int        `json:"no"`
	RunID  *uuid.UUID `json:"runId,omitempty"`
}

// Open открывает окно голосования. Только для администраторов.
// Игра должна быть в ready_for_vote (или ready_for_start для ускоренного
// запуска без отдельного ревью старта).
func (s *VoteService) Open(ctx context.Context, actor models.Actor, gameID uuid.UUID, duration time.Duration) (*models.CustomGame, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}
	if duration <= 0 {
		duration = defaultVoteDuration
	}

	var game *models.CustomGame
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		switch game.Status {
		case models.GameStatusReadyForVote, models.GameStatusReadyForStart:
		default:
			return fmt.Errorf("%w: cannot open vote in status %s", models.ErrInvalidState, game.Status)
		}
		if game.VoteStatus == models.PopulationVoteOpen {
			return fmt.Errorf("%w: vote already open", models.ErrInvalidState)
		}

		openedAt := time.Now()
		endsAt := openedAt.Add(duration)
		if err := s.gameRepo.OpenVote(ctx, querier, gameID, openedAt, endsAt); err != nil {
			return err
		}
		game.VoteStatus = models.PopulationVoteOpen
		game.VoteOpenedAt = &openedAt
		game.VoteEndsAt = &endsAt
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Population vote opened",
		zap.Stringer("gameID", gameID), zap.Timep("endsAt", game.VoteEndsAt))
	s.announce(ctx, models.Announcement{
		Type:  models.AnnouncementVoteOpen,
		Title: game.Title,
		Body:  "Голосование за запуск игры открыто",
		Payload: map[string]any{
			"gameId":     game.ID,
			"voteEndsAt": game.VoteEndsAt,
		},
	})
	return game, nil
}

// Cast записывает единственный голос пользователя (0/1); повторный голос
// заменяет предыдущий. Дедлайн только блокирует новые голоса - голосование
// не закрывается по времени само.
func (s *VoteService) Cast(ctx context.Context, actor models.Actor, gameID uuid.UUID, vote int) error {
	if vote != 0 && vote != 1 {
		return fmt.Errorf("%w: vote must be 0 or 1", models.ErrInvalidInput)
	}

	return s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		// Блокировка строки игры: cast не должен гоняться с close.
		game, err := s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if game.VoteStatus != models.PopulationVoteOpen {
			return fmt.Errorf("%w: vote is not open", models.ErrInvalidState)
		}
		if game.VoteEndsAt != nil && time.Now().After(*game.VoteEndsAt) {
			return models.ErrVoteEnded
		}

		return s.voteRepo.Upsert(ctx, querier, &models.CustomGameVote{
			ID:     uuid.New(),
			GameID: gameID,
			UserID: actor.ID,
			Vote:   vote,
		})
	})
}

// Tally возвращает текущие счетчики да/нет.
func (s *VoteService) Tally(ctx context.Context, gameID uuid.UUID) (*models.VoteTally, error) {
	if _, err := s.gameRepo.GetByID(ctx, s.db, gameID); err != nil {
		return nil, err
	}
	return s.voteRepo.Tally(ctx, s.db, gameID)
}

// Close закрывает голосование и выносит вердикт. Только для администраторов.
// При прохождении в той же транзакции создается забег из одобренной карты
// и игра переводится в running; при провале - closed_fail/vote_failed.
func (s *VoteService) Close(ctx context.Context, actor models.Actor, gameID uuid.UUID, minYes, totalStages int) (*CloseResult, error) {
	if !actor.IsAdmin {
		return nil, models.ErrForbidden
	}

	var (
		result *CloseResult
		game   *models.CustomGame
	)
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if game.VoteStatus != models.PopulationVoteOpen {
			return fmt.Errorf("%w: vote is not open", models.ErrInvalidState)
		}

		tally, err := s.voteRepo.Tally(ctx, querier, gameID)
		if err != nil {
			return err
		}

		passed := tally.Yes >= minYes && tally.Yes > tally.No
		result = &CloseResult{Passed: passed, Yes: tally.Yes, No: tally.No}

		if !passed {
			return s.gameRepo.CloseVote(ctx, querier, gameID,
				models.PopulationVoteClosedFail, models.GameStatusVoteFailed)
		}

		run, err := s.spawnRun(ctx, querier, game, totalStages)
		if err != nil {
			return err
		}
		result.RunID = &run.ID
		return s.gameRepo.CloseVote(ctx, querier, gameID,
			models.PopulationVoteClosedPass, models.GameStatusRunning)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Population vote closed",
		zap.Stringer("gameID", gameID),
		zap.Bool("passed", result.Passed),
		zap.Int("yes", result.Yes),
		zap.Int("no", result.No))
	if result.Passed {
		s.announce(ctx, models.Announcement{
			Type:  models.AnnouncementRunStart,
			Title: game.Title,
			Body:  "Игра запущена, присоединяйтесь к забегу",
			Payload: map[string]any{
				"gameId": game.ID,
				"runId":  result.RunID,
			},
		})
	}
	return result, nil
}

// spawnRun создает забег из зафиксированной одобренной карты.
// Второй одновременный running-забег по игре запрещен.
func (s *VoteService) spawnRun(ctx context.Context, querier interfaces.DBTX, game *models.CustomGame, totalStages int) (*models.CustomGameRun, error) {
	if _, err := s.runRepo.GetActiveByGameID(ctx, querier, game.ID); err == nil {
		return nil, models.ErrRunAlreadyActive
	} else if !errors.Is(err, models.ErrRunNotFound) {
		return nil, err
	}

	var gameMap *models.CustomGameMap
	var err error
	if game.CurrentMapID != nil {
		gameMap, err = s.mapRepo.GetByID(ctx, querier, *game.CurrentMapID)
	} else {
		gameMap, err = s.mapRepo.LatestApproved(ctx, querier, game.ID)
	}
	if err != nil {
		return nil, err
	}

	snapshot := gameMap.MapData
	if len(snapshot) == 0 || !json.Valid(snapshot) {
		snapshot = json.RawMessage(`{}`)
	}

	run := &models.CustomGameRun{
		ID:            uuid.New(),
		GameID:        game.ID,
		Status:        models.RunStatusRunning,
		CurrentStage:  1,
		TotalStages:   clampStages(totalStages),
		MapSnapshot:   snapshot,
		CreatorUserID: game.CreatorUserID,
		StartedAt:     time.Now(),
	}
	run.StageConfigs = normalizeStages(nil, run.TotalStages)
	if err := s.runRepo.Create(ctx, querier, run); err != nil {
		return nil, err
	}

	event := &models.RunEvent{
		ID:        uuid.New(),
		RunID:     run.ID,
		EventType: models.RunEventRunStart,
		Message:   "Забег запущен",
		CreatedAt: run.StartedAt,
	}
	if err := s.runRepo.AppendEvent(ctx, querier, event); err != nil {
		return nil, err
	}
	return run, nil
}

// announce публикует анонс fire-and-forget: ошибка логируется, запрос не валится.
func (s *VoteService) announce(ctx context.Context, a models.Announcement) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishAnnouncement(ctx, a); err != nil {
		s.logger.Warn("Failed to publish announcement", zap.String("type", a.Type), zap.Error(err))
	}
}
