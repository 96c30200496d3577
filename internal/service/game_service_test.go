package service

import (
	"context"
	"encoding/json"
	"testing"

	"arcade-server/internal/mocks"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type gameServiceFixture struct {
	svc        *GameService
	gameRepo   *mocks.MockGameRepository
	mapRepo    *mocks.MockMapRepository
	reviewRepo *mocks.MockReviewRepository
}

func newGameServiceForTest(t *testing.T) *gameServiceFixture {
	gameRepo := mocks.NewMockGameRepository(t)
	mapRepo := mocks.NewMockMapRepository(t)
	reviewRepo := mocks.NewMockReviewRepository(t)
	txManager := mocks.NewPassthroughTxManager(t)
	reviews := NewReviewService(txManager, nil, reviewRepo, zap.NewNop())
	svc := NewGameService(txManager, nil, gameRepo, mapRepo, reviews, zap.NewNop())
	return &gameServiceFixture{svc: svc, gameRepo: gameRepo, mapRepo: mapRepo, reviewRepo: reviewRepo}
}

func testGame(status models.GameStatus) *models.CustomGame {
	return &models.CustomGame{
		ID:            uuid.New(),
		Title:         "Лабиринт",
		IdeaText:      "Гонка по лабиринту с ловушками",
		Status:        status,
		CreatorUserID: uuid.New(),
		VoteStatus:    models.PopulationVoteNone,
	}
}

func TestGameService_SubmitIdea(t *testing.T) {
	f := newGameServiceForTest(t)
	actor := models.Actor{ID: uuid.New(), Name: "creator"}

	f.gameRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(g *models.CustomGame) bool {
		return g.Status == models.GameStatusIdeaPending && g.CreatorUserID == actor.ID
	})).Return(nil).Once()
	f.reviewRepo.On("CreateTaskIfAbsent", mock.Anything, mock.Anything, mock.MatchedBy(func(task *models.ReviewTask) bool {
		return task.ModuleKey == models.ReviewModuleIdea &&
			task.Status == models.ReviewStatusPending &&
			task.CreatorUserID != nil && *task.CreatorUserID == actor.ID
	})).Return(nil).Once()

	game, err := f.svc.SubmitIdea(context.Background(), actor, "Лабиринт", "Гонка по лабиринту")
	assert.NoError(t, err)
	assert.Equal(t, models.GameStatusIdeaPending, game.Status)

	_, err = f.svc.SubmitIdea(context.Background(), actor, "", "без названия")
	assert.ErrorIs(t, err, models.ErrInvalidInput)
	f.gameRepo.AssertExpectations(t)
}

func TestGameService_ReviewIdea_ResolvesGameStatus(t *testing.T) {
	f := newGameServiceForTest(t)
	admin := models.Actor{ID: uuid.New(), Name: "admin", IsAdmin: true}
	game := testGame(models.GameStatusIdeaPending)
	task := &models.ReviewTask{
		ID:         uuid.New(),
		ModuleKey:  models.ReviewModuleIdea,
		TargetType: "game",
		TargetID:   game.ID.String(),
		Status:     models.ReviewStatusPending,
	}

	f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
	f.reviewRepo.On("GetTaskForUpdate", mock.Anything, mock.Anything, models.ReviewModuleIdea, "game", game.ID.String()).
		Return(task, nil).Once()
	f.reviewRepo.On("GetRule", mock.Anything, mock.Anything, models.ReviewModuleIdea).
		Return(&models.ReviewRule{ModuleKey: models.ReviewModuleIdea, RequiredApprovals: 1}, nil).Once()
	f.reviewRepo.On("UpsertVote", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.reviewRepo.On("CountVotes", mock.Anything, mock.Anything, task.ID).Return(1, 0, nil).Once()
	f.reviewRepo.On("UpdateTaskStatus", mock.Anything, mock.Anything, task.ID, models.ReviewStatusApproved).Return(nil).Once()
	f.gameRepo.On("UpdateStatus", mock.Anything, mock.Anything, game.ID, models.GameStatusIdeaApproved).Return(nil).Once()

	result, err := f.svc.ReviewIdea(context.Background(), admin, game.ID, models.ReviewDecisionApprove, "норм")
	assert.NoError(t, err)
	assert.True(t, result.Done)
	assert.Equal(t, models.ReviewStatusApproved, result.Status)
	f.gameRepo.AssertExpectations(t)
	f.reviewRepo.AssertExpectations(t)
}

func TestGameService_ReviewIdea_PendingDoesNotMutate(t *testing.T) {
	f := newGameServiceForTest(t)
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	game := testGame(models.GameStatusIdeaPending)
	task := &models.ReviewTask{
		ID:         uuid.New(),
		ModuleKey:  models.ReviewModuleIdea,
		TargetType: "game",
		TargetID:   game.ID.String(),
		Status:     models.ReviewStatusPending,
	}

	f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
	f.reviewRepo.On("GetTaskForUpdate", mock.Anything, mock.Anything, models.ReviewModuleIdea, "game", game.ID.String()).
		Return(task, nil).Once()
	f.reviewRepo.On("GetRule", mock.Anything, mock.Anything, models.ReviewModuleIdea).
		Return(nil, models.ErrNotFound).Once()
	f.reviewRepo.On("UpsertVote", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.reviewRepo.On("CountVotes", mock.Anything, mock.Anything, task.ID).Return(1, 0, nil).Once()

	result, err := f.svc.ReviewIdea(context.Background(), admin, game.ID, models.ReviewDecisionApprove, "")
	assert.NoError(t, err)
	assert.False(t, result.Done)
	f.gameRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestGameService_SubmitMap(t *testing.T) {
	t.Run("creates next version and opens review task", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusMapRejected)
		actor := models.Actor{ID: game.CreatorUserID, Name: "creator"}

		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
		f.mapRepo.On("NextVersion", mock.Anything, mock.Anything, game.ID).Return(3, nil).Once()
		f.mapRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.CustomGameMap) bool {
			return m.Version == 3 && m.Status == models.ReviewStatusPending
		})).Return(nil).Once()
		f.gameRepo.On("UpdateStatus", mock.Anything, mock.Anything, game.ID, models.GameStatusMapPending).Return(nil).Once()
		f.reviewRepo.On("CreateTaskIfAbsent", mock.Anything, mock.Anything, mock.MatchedBy(func(task *models.ReviewTask) bool {
			return task.ModuleKey == models.ReviewModuleMap && task.TargetType == "map"
		})).Return(nil).Once()

		gameMap, err := f.svc.SubmitMap(context.Background(), actor, game.ID, json.RawMessage(`{"tiles":[1,2]}`))
		assert.NoError(t, err)
		assert.Equal(t, 3, gameMap.Version)
		f.mapRepo.AssertExpectations(t)
	})

	t.Run("rejects non-creator", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusIdeaApproved)
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		_, err := f.svc.SubmitMap(context.Background(), models.Actor{ID: uuid.New()}, game.ID, nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("rejects wrong status without mutation", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusRunning)
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		_, err := f.svc.SubmitMap(context.Background(), models.Actor{ID: game.CreatorUserID}, game.ID, nil)
		assert.ErrorIs(t, err, models.ErrInvalidState)
		f.mapRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("malformed map data degrades to empty object", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusIdeaApproved)
		actor := models.Actor{ID: game.CreatorUserID}

		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
		f.mapRepo.On("NextVersion", mock.Anything, mock.Anything, game.ID).Return(1, nil).Once()
		f.mapRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(m *models.CustomGameMap) bool {
			return string(m.MapData) == `{}`
		})).Return(nil).Once()
		f.gameRepo.On("UpdateStatus", mock.Anything, mock.Anything, game.ID, models.GameStatusMapPending).Return(nil).Once()
		f.reviewRepo.On("CreateTaskIfAbsent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		gameMap, err := f.svc.SubmitMap(context.Background(), actor, game.ID, json.RawMessage(`{broken`))
		assert.NoError(t, err)
		assert.JSONEq(t, `{}`, string(gameMap.MapData))
	})
}

func TestGameService_ReviewMap_Approved(t *testing.T) {
	f := newGameServiceForTest(t)
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	game := testGame(models.GameStatusMapPending)
	gameMap := &models.CustomGameMap{
		ID:            uuid.New(),
		GameID:        game.ID,
		Version:       1,
		Status:        models.ReviewStatusPending,
		CreatorUserID: game.CreatorUserID,
	}
	task := &models.ReviewTask{
		ID:         uuid.New(),
		ModuleKey:  models.ReviewModuleMap,
		TargetType: "map",
		TargetID:   gameMap.ID.String(),
		Status:     models.ReviewStatusPending,
	}

	f.mapRepo.On("GetByID", mock.Anything, mock.Anything, gameMap.ID).Return(gameMap, nil).Once()
	f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
	f.reviewRepo.On("GetTaskForUpdate", mock.Anything, mock.Anything, models.ReviewModuleMap, "map", gameMap.ID.String()).
		Return(task, nil).Once()
	f.reviewRepo.On("GetRule", mock.Anything, mock.Anything, models.ReviewModuleMap).
		Return(&models.ReviewRule{ModuleKey: models.ReviewModuleMap, RequiredApprovals: 1}, nil).Once()
	f.reviewRepo.On("UpsertVote", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.reviewRepo.On("CountVotes", mock.Anything, mock.Anything, task.ID).Return(1, 0, nil).Once()
	f.reviewRepo.On("UpdateTaskStatus", mock.Anything, mock.Anything, task.ID, models.ReviewStatusApproved).Return(nil).Once()
	f.mapRepo.On("UpdateStatus", mock.Anything, mock.Anything, gameMap.ID, models.ReviewStatusApproved).Return(nil).Once()
	f.gameRepo.On("SetCurrentMap", mock.Anything, mock.Anything, game.ID, gameMap.ID, models.GameStatusReadyForStart).Return(nil).Once()

	result, err := f.svc.ReviewMap(context.Background(), admin, gameMap.ID, models.ReviewDecisionApprove, "")
	assert.NoError(t, err)
	assert.True(t, result.Done)
	f.gameRepo.AssertExpectations(t)
	f.mapRepo.AssertExpectations(t)
}

func TestGameService_RequestStart(t *testing.T) {
	t.Run("flips ready_for_start to start_pending", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusReadyForStart)
		actor := models.Actor{ID: game.CreatorUserID}

		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
		f.gameRepo.On("UpdateStatus", mock.Anything, mock.Anything, game.ID, models.GameStatusStartPending).Return(nil).Once()
		f.reviewRepo.On("CreateTaskIfAbsent", mock.Anything, mock.Anything, mock.MatchedBy(func(task *models.ReviewTask) bool {
			return task.ModuleKey == models.ReviewModuleStart
		})).Return(nil).Once()

		updated, err := f.svc.RequestStart(context.Background(), actor, game.ID)
		assert.NoError(t, err)
		assert.Equal(t, models.GameStatusStartPending, updated.Status)
	})

	t.Run("rejects wrong status", func(t *testing.T) {
		f := newGameServiceForTest(t)
		game := testGame(models.GameStatusIdeaPending)
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		_, err := f.svc.RequestStart(context.Background(), models.Actor{ID: game.CreatorUserID}, game.ID)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})
}
