package service

import (
	"context"
	"testing"
	"time"

	"arcade-server/internal/mocks"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

type voteServiceFixture struct {
	svc       *VoteService
	gameRepo  *mocks.MockGameRepository
	voteRepo  *mocks.MockVoteRepository
	mapRepo   *mocks.MockMapRepository
	runRepo   *mocks.MockRunRepository
	publisher *mocks.MockAnnouncementPublisher
}

func newVoteServiceForTest(t *testing.T) *voteServiceFixture {
	gameRepo := mocks.NewMockGameRepository(t)
	voteRepo := mocks.NewMockVoteRepository(t)
	mapRepo := mocks.NewMockMapRepository(t)
	runRepo := mocks.NewMockRunRepository(t)
	publisher := mocks.NewMockAnnouncementPublisher(t)
	txManager := mocks.NewPassthroughTxManager(t)
	svc := NewVoteService(txManager, nil, gameRepo, voteRepo, mapRepo, runRepo, publisher, zap.NewNop())
	return &voteServiceFixture{
		svc: svc, gameRepo: gameRepo, voteRepo: voteRepo,
		mapRepo: mapRepo, runRepo: runRepo, publisher: publisher,
	}
}

func openVoteGame() *models.CustomGame {
	game := testGame(models.GameStatusReadyForVote)
	game.VoteStatus = models.PopulationVoteOpen
	opened := time.Now().Add(-time.Hour)
	ends := time.Now().Add(time.Hour)
	game.VoteOpenedAt = &opened
	game.VoteEndsAt = &ends
	return game
}

func TestVoteService_Open(t *testing.T) {
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}

	t.Run("opens window and announces", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		game := testGame(models.GameStatusReadyForVote)

		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
		f.gameRepo.On("OpenVote", mock.Anything, mock.Anything, game.ID, mock.Anything, mock.Anything).Return(nil).Once()
		f.publisher.On("PublishAnnouncement", mock.Anything, mock.MatchedBy(func(a models.Announcement) bool {
			return a.Type == models.AnnouncementVoteOpen
		})).Return(nil).Once()

		updated, err := f.svc.Open(context.Background(), admin, game.ID, 30*time.Minute)
		assert.NoError(t, err)
		assert.Equal(t, models.PopulationVoteOpen, updated.VoteStatus)
		assert.NotNil(t, updated.VoteEndsAt)
		f.publisher.AssertExpectations(t)
	})

	t.Run("rejects non-admin", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		_, err := f.svc.Open(context.Background(), models.Actor{ID: uuid.New()}, uuid.New(), time.Hour)
		assert.ErrorIs(t, err, models.ErrForbidden)
	})

	t.Run("rejects wrong game status", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		game := testGame(models.GameStatusIdeaPending)
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		_, err := f.svc.Open(context.Background(), admin, game.ID, time.Hour)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})
}

func TestVoteService_Cast(t *testing.T) {
	actor := models.Actor{ID: uuid.New(), Name: "voter"}

	t.Run("upserts a single row per user", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		game := openVoteGame()
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
		f.voteRepo.On("Upsert", mock.Anything, mock.Anything, mock.MatchedBy(func(v *models.CustomGameVote) bool {
			return v.UserID == actor.ID && v.Vote == 1
		})).Return(nil).Once()

		assert.NoError(t, f.svc.Cast(context.Background(), actor, game.ID, 1))
		f.voteRepo.AssertExpectations(t)
	})

	t.Run("rejects values outside 0/1", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		err := f.svc.Cast(context.Background(), actor, uuid.New(), 2)
		assert.ErrorIs(t, err, models.ErrInvalidInput)
	})

	t.Run("rejects closed vote", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		game := testGame(models.GameStatusReadyForVote)
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		err := f.svc.Cast(context.Background(), actor, game.ID, 0)
		assert.ErrorIs(t, err, models.ErrInvalidState)
	})

	t.Run("rejects cast past the deadline", func(t *testing.T) {
		f := newVoteServiceForTest(t)
		game := openVoteGame()
		ended := time.Now().Add(-time.Minute)
		game.VoteEndsAt = &ended
		f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()

		err := f.svc.Cast(context.Background(), actor, game.ID, 1)
		assert.ErrorIs(t, err, models.ErrVoteEnded)
		f.voteRepo.AssertNotCalled(t, "Upsert", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestVoteService_Close_PassRule(t *testing.T) {
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}

	cases := []struct {
		name   string
		yes    int
		no     int
		minYes int
		passed bool
	}{
		{"3 yes 2 no passes at minYes 3", 3, 2, 3, true},
		{"tie 3/3 fails", 3, 3, 3, false},
		{"2 yes below minYes 3 fails", 2, 0, 3, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newVoteServiceForTest(t)
			game := openVoteGame()
			mapID := uuid.New()
			game.CurrentMapID = &mapID

			f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
			f.voteRepo.On("Tally", mock.Anything, mock.Anything, game.ID).
				Return(&models.VoteTally{Yes: tc.yes, No: tc.no}, nil).Once()

			if tc.passed {
				f.runRepo.On("GetActiveByGameID", mock.Anything, mock.Anything, game.ID).
					Return(nil, models.ErrRunNotFound).Once()
				f.mapRepo.On("GetByID", mock.Anything, mock.Anything, mapID).Return(&models.CustomGameMap{
					ID:      mapID,
					GameID:  game.ID,
					Version: 2,
					MapData: []byte(`{"tiles":[]}`),
					Status:  models.ReviewStatusApproved,
				}, nil).Once()
				f.runRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r *models.CustomGameRun) bool {
					return r.GameID == game.ID && r.Status == models.RunStatusRunning && r.CurrentStage == 1
				})).Return(nil).Once()
				f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.MatchedBy(func(e *models.RunEvent) bool {
					return e.EventType == models.RunEventRunStart
				})).Return(nil).Once()
				f.gameRepo.On("CloseVote", mock.Anything, mock.Anything, game.ID,
					models.PopulationVoteClosedPass, models.GameStatusRunning).Return(nil).Once()
				f.publisher.On("PublishAnnouncement", mock.Anything, mock.MatchedBy(func(a models.Announcement) bool {
					return a.Type == models.AnnouncementRunStart
				})).Return(nil).Once()
			} else {
				f.gameRepo.On("CloseVote", mock.Anything, mock.Anything, game.ID,
					models.PopulationVoteClosedFail, models.GameStatusVoteFailed).Return(nil).Once()
			}

			result, err := f.svc.Close(context.Background(), admin, game.ID, tc.minYes, 5)
			assert.NoError(t, err)
			assert.Equal(t, tc.passed, result.Passed)
			assert.Equal(t, tc.yes, result.Yes)
			assert.Equal(t, tc.no, result.No)
			if tc.passed {
				assert.NotNil(t, result.RunID)
			} else {
				assert.Nil(t, result.RunID)
			}
			f.gameRepo.AssertExpectations(t)
		})
	}
}

func TestVoteService_Close_SecondActiveRunRejected(t *testing.T) {
	f := newVoteServiceForTest(t)
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	game := openVoteGame()
	mapID := uuid.New()
	game.CurrentMapID = &mapID

	f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
	f.voteRepo.On("Tally", mock.Anything, mock.Anything, game.ID).
		Return(&models.VoteTally{Yes: 5, No: 1}, nil).Once()
	f.runRepo.On("GetActiveByGameID", mock.Anything, mock.Anything, game.ID).
		Return(&models.CustomGameRun{ID: uuid.New(), GameID: game.ID, Status: models.RunStatusRunning}, nil).Once()

	_, err := f.svc.Close(context.Background(), admin, game.ID, 1, 5)
	assert.ErrorIs(t, err, models.ErrRunAlreadyActive)
	f.runRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestVoteService_Close_StagesClamped(t *testing.T) {
	f := newVoteServiceForTest(t)
	admin := models.Actor{ID: uuid.New(), IsAdmin: true}
	game := openVoteGame()
	mapID := uuid.New()
	game.CurrentMapID = &mapID

	f.gameRepo.On("GetByIDForUpdate", mock.Anything, mock.Anything, game.ID).Return(game, nil).Once()
	f.voteRepo.On("Tally", mock.Anything, mock.Anything, game.ID).
		Return(&models.VoteTally{Yes: 4, No: 0}, nil).Once()
	f.runRepo.On("GetActiveByGameID", mock.Anything, mock.Anything, game.ID).
		Return(nil, models.ErrRunNotFound).Once()
	f.mapRepo.On("GetByID", mock.Anything, mock.Anything, mapID).
		Return(&models.CustomGameMap{ID: mapID, GameID: game.ID, MapData: []byte(`{}`)}, nil).Once()
	f.runRepo.On("Create", mock.Anything, mock.Anything, mock.MatchedBy(func(r *models.CustomGameRun) bool {
		return r.TotalStages == models.MaxTotalStages && len(r.StageConfigs) == models.MaxTotalStages
	})).Return(nil).Once()
	f.runRepo.On("AppendEvent", mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()
	f.gameRepo.On("CloseVote", mock.Anything, mock.Anything, game.ID,
		models.PopulationVoteClosedPass, models.GameStatusRunning).Return(nil).Once()
	f.publisher.On("PublishAnnouncement", mock.Anything, mock.Anything).Return(nil).Once()

	result, err := f.svc.Close(context.Background(), admin, game.ID, 1, 25)
	assert.NoError(t, err)
	assert.True(t, result.Passed)
	f.runRepo.AssertExpectations(t)
}
