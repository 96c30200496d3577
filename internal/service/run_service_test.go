package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"arcade-server/internal/mocks"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type runServiceFixture struct {
	svc       *RunService
	gameRepo  *mocks.MockGameRepository
	runRepo   *mocks.MockRunRepository
	statsRepo *mocks.MockStatsRepository
}

func newRunServiceForTest(t *testing.T) *runServiceFixture {
	gameRepo := mocks.NewMockGameRepository(t)
	runRepo := mocks.NewMockRunRepository(t)
	statsRepo := mocks.NewMockStatsRepository(t)
	txManager := mocks.NewPassthroughTxManager(t)
	svc := NewRunService(txManager, nil, gameRepo, runRepo, statsRepo, zap.NewNop())
	return &runServiceFixture{svc: svc, gameRepo: gameRepo, runRepo: runRepo, statsRepo: statsRepo}
}

func activeRun(gameID uuid.UUID) *models.CustomGameRun {
	return &models.CustomGameRun{
		ID:            uuid.New(),
		GameID:        gameID,
		Status:        models.RunStatusRunning,
		CurrentStage:  1,
		TotalStages:   5,
		StageConfigs:  normalizeStages(nil, 5),
		MapSnapshot:   json.RawMessage(`{"zone":"start"}`),
		CreatorUserID: uuid.New(),
		StartedAt:     time.Now().Add(-time.Hour),
	}
}

func joinedPlayer(runID, userID uuid.UUID) *models.RunPlayer {
	return &models.RunPlayer{
		ID:       uuid.New(),
		RunID:    runID,
		UserID:   userID,
		Name:     "player",
		HP:       100,
		Energy:   100,
		Alive:    true,
		JoinedAt: time.Now().Add(-time.Minute),
	}
}

func TestRunService_Join(t *testing.T) {
	gameID := uuid.New()
	actor := models.Actor{ID: uuid.New(), Name: "newbie"}

	t.Run("creates player with default stats and logs join", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("GetPlayer", mock.Anything, mock.Anything, run.ID, actor.ID).
			Return(nil, models.ErrNotFound).Once()
		f.runRepo.On("CreatePlayer", mock.Anything, mock.Anything, mock.MatchedBy(func(p *models.RunPlayer) bool {
			return p.HP == 100 && p.Energy == 100 && p.Score == 0 && p.Alive
		})).Return(nil).Once()
		f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.RunEvent) bool {
			return e.EventType == models.RunEventJoin
		})).Return(nil).Once()

		player, err := f.svc.Join(context.Background(), actor, gameID)
		assert.NoError(t, err)
		assert.Equal(t, 100, player.HP)
		f.runRepo.AssertExpectations(t)
	})

	t.Run("second join is a no-op", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		existing := joinedPlayer(run.ID, actor.ID)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("GetPlayer", mock.Anything, mock.Anything, run.ID, actor.ID).Return(existing, nil).Once()

		player, err := f.svc.Join(context.Background(), actor, gameID)
		assert.NoError(t, err)
		assert.Equal(t, existing.ID, player.ID)
		f.runRepo.AssertNotCalled(t, "CreatePlayer", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("no active run", func(t *testing.T) {
		f := newRunServiceForTest(t)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).
			Return(nil, models.ErrRunNotFound).Once()

		_, err := f.svc.Join(context.Background(), actor, gameID)
		assert.ErrorIs(t, err, models.ErrRunNotFound)
	})
}

func TestRunService_SubmitAction(t *testing.T) {
	gameID := uuid.New()
	actor := models.Actor{ID: uuid.New(), Name: "fighter"}

	setup := func(t *testing.T, player *models.RunPlayer) *runServiceFixture {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		player.RunID = run.ID
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("GetPlayerForUpdate", mock.Anything, mock.Anything, run.ID, actor.ID).Return(player, nil).Once()
		f.runRepo.On("UpdatePlayerState", mock.Anything, mock.Anything, player).Return(nil).Once()
		f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.RunEvent) bool {
			return e.EventType == models.RunEventAction
		})).Return(nil).Once()
		return f
	}

	t.Run("attack applies table deltas", func(t *testing.T) {
		player := joinedPlayer(uuid.Nil, actor.ID)
		f := setup(t, player)

		updated, err := f.svc.SubmitAction(context.Background(), actor, gameID, "attack", nil)
		assert.NoError(t, err)
		assert.Equal(t, 10, updated.Score)
		assert.Equal(t, 90, updated.Energy)
		assert.Equal(t, 100, updated.HP)
		assert.True(t, updated.Alive)
	})

	t.Run("unknown action costs baseline energy", func(t *testing.T) {
		player := joinedPlayer(uuid.Nil, actor.ID)
		f := setup(t, player)

		updated, err := f.svc.SubmitAction(context.Background(), actor, gameID, "dance", nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, updated.Score)
		assert.Equal(t, 97, updated.Energy)
	})

	t.Run("clamps hp and energy at zero and recomputes alive", func(t *testing.T) {
		player := joinedPlayer(uuid.Nil, actor.ID)
		player.HP = 3
		player.Energy = 5
		f := setup(t, player)

		updated, err := f.svc.SubmitAction(context.Background(), actor, gameID, "sabotage", nil)
		assert.NoError(t, err)
		assert.Equal(t, 0, updated.HP)
		assert.Equal(t, 0, updated.Energy)
		assert.False(t, updated.Alive)
	})

	t.Run("unjoined player rejected", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("GetPlayerForUpdate", mock.Anything, mock.Anything, run.ID, actor.ID).
			Return(nil, models.ErrNotFound).Once()

		_, err := f.svc.SubmitAction(context.Background(), actor, gameID, "attack", nil)
		assert.ErrorIs(t, err, models.ErrNotJoined)
	})
}

func TestRunService_ConfigureStages(t *testing.T) {
	gameID := uuid.New()

	t.Run("clamps total stages to twenty and normalizes names", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		admin := models.Actor{ID: uuid.New(), IsAdmin: true}

		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("UpdateStages", mock.Anything, mock.Anything, run.ID, 1, models.MaxTotalStages, mock.Anything).Return(nil).Once()

		updated, err := f.svc.ConfigureStages(context.Background(), admin, gameID, 25, []models.StageConfig{{Name: "Пролог"}})
		assert.NoError(t, err)
		assert.Equal(t, models.MaxTotalStages, updated.TotalStages)
		assert.Len(t, updated.StageConfigs, models.MaxTotalStages)
		assert.Equal(t, "Пролог", updated.StageConfigs[0].Name)
		assert.Equal(t, "Stage 2", updated.StageConfigs[1].Name)
	})

	t.Run("non-controller forbidden", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()

		_, err := f.svc.ConfigureStages(context.Background(), models.Actor{ID: uuid.New()}, gameID, 5, nil)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestRunService_NextStage(t *testing.T) {
	gameID := uuid.New()
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}

	t.Run("advances", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		run.CurrentStage = 2
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("UpdateStages", mock.Anything, mock.Anything, run.ID, 3, run.TotalStages, run.StageConfigs).Return(nil).Once()

		stage, err := f.svc.NextStage(context.Background(), admin, gameID)
		assert.NoError(t, err)
		assert.Equal(t, 3, stage)
	})

	t.Run("already at final stage", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		run.CurrentStage = run.TotalStages
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()

		_, err := f.svc.NextStage(context.Background(), admin, gameID)
		assert.ErrorIs(t, err, models.ErrAlreadyFinal)
		f.runRepo.AssertNotCalled(t, "UpdateStages",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestRunService_PatchMap_ShallowMerge(t *testing.T) {
	f := newRunServiceForTest(t)
	gameID := uuid.New()
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	run := activeRun(gameID)
	run.MapSnapshot = json.RawMessage(`{"zone":"start","weather":"rain"}`)

	f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
	f.runRepo.On("UpdateSnapshot", mock.Anything, mock.Anything, run.ID, mock.Anything).Return(nil).Once()

	merged, err := f.svc.PatchMap(context.Background(), admin, gameID, json.RawMessage(`{"zone":"boss","fog":true}`))
	assert.NoError(t, err)
	assert.JSONEq(t, `{"zone":"boss","weather":"rain","fog":true}`, string(merged))
}

func TestRunService_GrantScore(t *testing.T) {
	f := newRunServiceForTest(t)
	gameID := uuid.New()
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	run := activeRun(gameID)
	target := joinedPlayer(run.ID, uuid.New())
	target.Score = 10

	f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
	f.runRepo.On("GetPlayerForUpdate", mock.Anything, mock.Anything, run.ID, target.UserID).Return(target, nil).Once()
	f.runRepo.On("UpdatePlayerState", mock.Anything, mock.Anything, target).Return(nil).Once()
	f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.RunEvent) bool {
		return e.EventType == models.RunEventScoreGrant
	})).Return(nil).Once()

	newScore, err := f.svc.GrantScore(context.Background(), admin, gameID, target.UserID, -4, "штраф", 2)
	assert.NoError(t, err)
	assert.Equal(t, 6, newScore)
}

func TestRunService_End_Settlement(t *testing.T) {
	gameID := uuid.New()
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}

	t.Run("ranks by score desc with ties by join order and updates stats", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)

		first := joinedPlayer(run.ID, uuid.New())
		first.Score = 50
		second := joinedPlayer(run.ID, uuid.New())
		second.Score = 30
		third := joinedPlayer(run.ID, uuid.New())
		third.Score = 30 // ничья со вторым, но присоединился позже

		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("End", mock.Anything, mock.Anything, run.ID, mock.Anything).Return(nil).Once()
		f.runRepo.On("ListPlayers", mock.Anything, mock.Anything, run.ID).
			Return([]*models.RunPlayer{second, first, third}, nil).Once()
		f.statsRepo.On("ApplyRunResult", mock.Anything, mock.Anything, first.UserID, 50, true).Return(nil).Once()
		f.statsRepo.On("ApplyRunResult", mock.Anything, mock.Anything, second.UserID, 30, false).Return(nil).Once()
		f.statsRepo.On("ApplyRunResult", mock.Anything, mock.Anything, third.UserID, 30, false).Return(nil).Once()
		f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.RunEvent) bool {
			return e.EventType == models.RunEventRunEnd
		})).Return(nil).Once()
		f.gameRepo.On("UpdateStatus", mock.Anything, mock.Anything, gameID, models.GameStatusEnded).Return(nil).Once()

		ranking, err := f.svc.End(context.Background(), admin, gameID)
		assert.NoError(t, err)
		assert.Len(t, ranking, 3)
		assert.Equal(t, first.UserID, ranking[0].UserID)
		assert.Equal(t, 1, ranking[0].Rank)
		// Ничья 30/30: second присоединился раньше и получает место выше.
		assert.Equal(t, second.UserID, ranking[1].UserID)
		assert.Equal(t, third.UserID, ranking[2].UserID)
		f.statsRepo.AssertExpectations(t)
	})

	t.Run("double end rejected before any mutation", func(t *testing.T) {
		f := newRunServiceForTest(t)
		endedAt := time.Now()
		ended := activeRun(gameID)
		ended.Status = models.RunStatusEnded
		ended.EndedAt = &endedAt

		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).
			Return(nil, models.ErrRunNotFound).Once()
		f.runRepo.On("GetLatestByGameID", mock.Anything, mock.Anything, gameID).Return(ended, nil).Once()

		_, err := f.svc.End(context.Background(), admin, gameID)
		assert.ErrorIs(t, err, models.ErrAlreadyEnded)
		f.statsRepo.AssertNotCalled(t, "ApplyRunResult",
			mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("non-controller forbidden", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		f.runRepo.On("GetActiveByGameIDForUpdate", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()

		_, err := f.svc.End(context.Background(), models.Actor{ID: uuid.New()}, gameID)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})
}

func TestRunService_Settlement(t *testing.T) {
	gameID := uuid.New()

	t.Run("readable once ended", func(t *testing.T) {
		f := newRunServiceForTest(t)
		endedAt := time.Now()
		run := activeRun(gameID)
		run.Status = models.RunStatusEnded
		run.EndedAt = &endedAt
		winner := joinedPlayer(run.ID, uuid.New())
		winner.Score = 42

		f.runRepo.On("GetLatestByGameID", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()
		f.runRepo.On("ListPlayers", mock.Anything, mock.Anything, run.ID).
			Return([]*models.RunPlayer{winner}, nil).Once()

		ranking, err := f.svc.Settlement(context.Background(), gameID)
		assert.NoError(t, err)
		assert.Len(t, ranking, 1)
		assert.Equal(t, 42, ranking[0].Score)
	})

	t.Run("not readable while running", func(t *testing.T) {
		f := newRunServiceForTest(t)
		run := activeRun(gameID)
		f.runRepo.On("GetLatestByGameID", mock.Anything, mock.Anything, gameID).Return(run, nil).Once()

		_, err := f.svc.Settlement(context.Background(), gameID)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})
}
