package service

import (
	"context"
	"encoding/json"
	"fmt"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GameService - контроллер жизненного цикла кастомной игры:
// idea -> map -> start -> vote -> run. Единственный владелец поля status.
type GameService struct {
	txManager interfaces.TxManager
	db        interfaces.DBTX
	gameRepo  interfaces.GameRepository
	mapRepo   interfaces.MapRepository
	reviews   *ReviewService
	logger    *zap.Logger
}

// NewGameService creates a new GameService.
func NewGameService(
	txManager interfaces.TxManager,
	db interfaces.DBTX,
	gameRepo interfaces.GameRepository,
	mapRepo interfaces.MapRepository,
	reviews *ReviewService,
	logger *zap.Logger,
) *GameService {
	return &GameService{
		txManager: txManager,
		db:        db,
		gameRepo:  gameRepo,
		mapRepo:   mapRepo,
		reviews:   reviews,
		logger:    logger.Named("GameService"),
	}
}

// Типы целей задач ревью.
const (
	reviewTargetGame = "game"
	reviewTargetMap  = "map"
)

// SubmitIdea создает игру в статусе idea_pending и открывает задачу ревью идеи.
func (s *GameService) SubmitIdea(ctx context.Context, actor models.Actor, title, ideaText string) (*models.CustomGame, error) {
	if title == "" || ideaText == "" {
		return nil, fmt.Errorf("%w: title and ideaText are required", models.ErrInvalidInput)
	}

	game := &models.CustomGame{
		ID:            uuid.New(),
		Title:         title,
		IdeaText:      ideaText,
		Status:        models.GameStatusIdeaPending,
		CreatorUserID: actor.ID,
		VoteStatus:    models.PopulationVoteNone,
	}
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		if err := s.gameRepo.Create(ctx, querier, game); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]string{"title": title})
		return s.reviews.EnsureTaskTx(ctx, querier, models.ReviewModuleIdea,
			reviewTargetGame, game.ID.String(), &game.CreatorUserID, payload)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Idea submitted", zap.Stringer("gameID", game.ID), zap.Stringer("creator", actor.ID))
	return game, nil
}

// ReviewIdea - голос администратора по идее игры. При резолюции кворума
// в той же транзакции игра переводится в idea_approved или idea_rejected.
func (s *GameService) ReviewIdea(ctx context.Context, actor models.Actor, gameID uuid.UUID, decision models.ReviewDecision, comment string) (*models.VoteResult, error) {
	var result *models.VoteResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		// Порядок блокировок всегда игра -> задача.
		game, err := s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}

		result, err = s.reviews.VoteTx(ctx, querier, actor, models.ReviewModuleIdea,
			reviewTargetGame, gameID.String(), decision, comment)
		if err != nil {
			return err
		}
		if !result.Done || game.Status != models.GameStatusIdeaPending {
			return nil
		}

		next := models.GameStatusIdeaApproved
		if result.Status == models.ReviewStatusRejected {
			next = models.GameStatusIdeaRejected
		}
		return s.gameRepo.UpdateStatus(ctx, querier, gameID, next)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// SubmitMap добавляет новую версию карты в append-only реестр и открывает
// задачу ревью карты. Только создатель игры; статус игры должен позволять подачу.
// Отклоненные версии остаются историей и не блокируют новую подачу.
func (s *GameService) SubmitMap(ctx context.Context, actor models.Actor, gameID uuid.UUID, mapData json.RawMessage) (*models.CustomGameMap, error) {
	if len(mapData) == 0 || !json.Valid(mapData) {
		// Нечитаемый payload деградирует до пустого объекта, а не валит запрос.
		mapData = json.RawMessage(`{}`)
	}

	var gameMap *models.CustomGameMap
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.IsCreatorOf(game) {
			return models.ErrForbidden
		}
		switch game.Status {
		case models.GameStatusIdeaApproved, models.GameStatusReadyForStart, models.GameStatusMapRejected:
		default:
			return fmt.Errorf("%w: cannot submit map in status %s", models.ErrInvalidState, game.Status)
		}

		version, err := s.mapRepo.NextVersion(ctx, querier, gameID)
		if err != nil {
			return err
		}
		gameMap = &models.CustomGameMap{
			ID:            uuid.New(),
			GameID:        gameID,
			Version:       version,
			MapData:       mapData,
			Status:        models.ReviewStatusPending,
			CreatorUserID: actor.ID,
		}
		if err := s.mapRepo.Create(ctx, querier, gameMap); err != nil {
			return err
		}
		if err := s.gameRepo.UpdateStatus(ctx, querier, gameID, models.GameStatusMapPending); err != nil {
			return err
		}
		payload, _ := json.Marshal(map[string]any{"gameId": gameID, "version": version})
		return s.reviews.EnsureTaskTx(ctx, querier, models.ReviewModuleMap,
			reviewTargetMap, gameMap.ID.String(), &actor.ID, payload)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Map submitted",
		zap.Stringer("gameID", gameID), zap.Stringer("mapID", gameMap.ID), zap.Int("version", gameMap.Version))
	return gameMap, nil
}

// ReviewMap - голос администратора по версии карты. При резолюции кворума
// карта помечается, а игра переводится в ready_for_start (с фиксацией
// currentMapId) или map_rejected.
func (s *GameService) ReviewMap(ctx context.Context, actor models.Actor, mapID uuid.UUID, decision models.ReviewDecision, comment string) (*models.VoteResult, error) {
	var result *models.VoteResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		gameMap, err := s.mapRepo.GetByID(ctx, querier, mapID)
		if err != nil {
			return err
		}
		game, err := s.gameRepo.GetByIDForUpdate(ctx, querier, gameMap.GameID)
		if err != nil {
			return err
		}

		result, err = s.reviews.VoteTx(ctx, querier, actor, models.ReviewModuleMap,
			reviewTargetMap, mapID.String(), decision, comment)
		if err != nil {
			return err
		}
		if !result.Done || gameMap.Status != models.ReviewStatusPending || game.Status != models.GameStatusMapPending {
			return nil
		}

		if result.Status == models.ReviewStatusApproved {
			if err := s.mapRepo.UpdateStatus(ctx, querier, mapID, models.ReviewStatusApproved); err != nil {
				return err
			}
			return s.gameRepo.SetCurrentMap(ctx, querier, game.ID, mapID, models.GameStatusReadyForStart)
		}
		// Отклоненная карта остается в реестре историей.
		if err := s.mapRepo.UpdateStatus(ctx, querier, mapID, models.ReviewStatusRejected); err != nil {
			return err
		}
		return s.gameRepo.UpdateStatus(ctx, querier, game.ID, models.GameStatusMapRejected)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// LatestMap возвращает карту с наибольшей версией независимо от статуса.
func (s *GameService) LatestMap(ctx context.Context, gameID uuid.UUID) (*models.CustomGameMap, error) {
	return s.mapRepo.Latest(ctx, s.db, gameID)
}

// RequestStart переводит игру из ready_for_start в start_pending и открывает
// задачу ревью запуска. Только создатель игры.
func (s *GameService) RequestStart(ctx context.Context, actor models.Actor, gameID uuid.UUID) (*models.CustomGame, error) {
	var game *models.CustomGame
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		var err error
		game, err = s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}
		if !actor.IsCreatorOf(game) {
			return models.ErrForbidden
		}
		if game.Status != models.GameStatusReadyForStart {
			return fmt.Errorf("%w: cannot request start in status %s", models.ErrInvalidState, game.Status)
		}
		if err := s.gameRepo.UpdateStatus(ctx, querier, gameID, models.GameStatusStartPending); err != nil {
			return err
		}
		game.Status = models.GameStatusStartPending
		payload, _ := json.Marshal(map[string]string{"title": game.Title})
		return s.reviews.EnsureTaskTx(ctx, querier, models.ReviewModuleStart,
			reviewTargetGame, gameID.String(), &game.CreatorUserID, payload)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("Start requested", zap.Stringer("gameID", gameID))
	return game, nil
}

// ReviewStart - голос администратора по запуску. При резолюции кворума игра
// переводится в ready_for_vote или start_rejected.
func (s *GameService) ReviewStart(ctx context.Context, actor models.Actor, gameID uuid.UUID, decision models.ReviewDecision, comment string) (*models.VoteResult, error) {
	var result *models.VoteResult
	err := s.txManager.WithTx(ctx, func(ctx context.Context, querier interfaces.DBTX) error {
		game, err := s.gameRepo.GetByIDForUpdate(ctx, querier, gameID)
		if err != nil {
			return err
		}

		result, err = s.reviews.VoteTx(ctx, querier, actor, models.ReviewModuleStart,
			reviewTargetGame, gameID.String(), decision, comment)
		if err != nil {
			return err
		}
		if !result.Done || game.Status != models.GameStatusStartPending {
			return nil
		}

		next := models.GameStatusReadyForVote
		if result.Status == models.ReviewStatusRejected {
			next = models.GameStatusStartRejected
		}
		return s.gameRepo.UpdateStatus(ctx, querier, gameID, next)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// GetGame возвращает игру по идентификатору.
func (s *GameService) GetGame(ctx context.Context, gameID uuid.UUID) (*models.CustomGame, error) {
	return s.gameRepo.GetByID(ctx, s.db, gameID)
}

// ListGames возвращает игры, новые первыми. status == nil - без фильтра.
func (s *GameService) ListGames(ctx context.Context, status *models.GameStatus, limit int) ([]*models.CustomGame, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.gameRepo.List(ctx, s.db, status, limit)
}
