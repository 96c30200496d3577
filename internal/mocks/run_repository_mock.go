package mocks

import (
	"context"
	"encoding/json"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockRunRepository is a mock type for the RunRepository type
type MockRunRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, querier, run
func (_m *MockRunRepository) Create(ctx context.Context, querier interfaces.DBTX, run *models.CustomGameRun) error {
	ret := _m.Called(ctx, querier, run)
	return ret.Error(0)
}

// GetActiveByGameID provides a mock function with given fields: ctx, querier, gameID
func (_m *MockRunRepository) GetActiveByGameID(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.CustomGameRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameRun)
	}
	return r0, ret.Error(1)
}

// GetActiveByGameIDForUpdate provides a mock function with given fields: ctx, querier, gameID
func (_m *MockRunRepository) GetActiveByGameIDForUpdate(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.CustomGameRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameRun)
	}
	return r0, ret.Error(1)
}

// GetLatestByGameID provides a mock function with given fields: ctx, querier, gameID
func (_m *MockRunRepository) GetLatestByGameID(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameRun, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.CustomGameRun
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameRun)
	}
	return r0, ret.Error(1)
}

// UpdateStages provides a mock function with given fields: ctx, querier, runID, currentStage, totalStages, configs
func (_m *MockRunRepository) UpdateStages(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, currentStage, totalStages int, configs []models.StageConfig) error {
	ret := _m.Called(ctx, querier, runID, currentStage, totalStages, configs)
	return ret.Error(0)
}

// UpdateSnapshot provides a mock function with given fields: ctx, querier, runID, snapshot
func (_m *MockRunRepository) UpdateSnapshot(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, snapshot json.RawMessage) error {
	ret := _m.Called(ctx, querier, runID, snapshot)
	return ret.Error(0)
}

// End provides a mock function with given fields: ctx, querier, runID, endedAt
func (_m *MockRunRepository) End(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, endedAt time.Time) error {
	ret := _m.Called(ctx, querier, runID, endedAt)
	return ret.Error(0)
}

// CreatePlayer provides a mock function with given fields: ctx, querier, player
func (_m *MockRunRepository) CreatePlayer(ctx context.Context, querier interfaces.DBTX, player *models.RunPlayer) error {
	ret := _m.Called(ctx, querier, player)
	return ret.Error(0)
}

// GetPlayer provides a mock function with given fields: ctx, querier, runID, userID
func (_m *MockRunRepository) GetPlayer(ctx context.Context, querier interfaces.DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error) {
	ret := _m.Called(ctx, querier, runID, userID)

	var r0 *models.RunPlayer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.RunPlayer)
	}
	return r0, ret.Error(1)
}

// GetPlayerForUpdate provides a mock function with given fields: ctx, querier, runID, userID
func (_m *MockRunRepository) GetPlayerForUpdate(ctx context.Context, querier interfaces.DBTX, runID, userID uuid.UUID) (*models.RunPlayer, error) {
	ret := _m.Called(ctx, querier, runID, userID)

	var r0 *models.RunPlayer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.RunPlayer)
	}
	return r0, ret.Error(1)
}

// UpdatePlayerState provides a mock function with given fields: ctx, querier, player
func (_m *MockRunRepository) UpdatePlayerState(ctx context.Context, querier interfaces.DBTX, player *models.RunPlayer) error {
	ret := _m.Called(ctx, querier, player)
	return ret.Error(0)
}

// ListPlayers provides a mock function with given fields: ctx, querier, runID
func (_m *MockRunRepository) ListPlayers(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID) ([]*models.RunPlayer, error) {
	ret := _m.Called(ctx, querier, runID)

	var r0 []*models.RunPlayer
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.RunPlayer)
	}
	return r0, ret.Error(1)
}

// AppendEvent provides a mock function with given fields: ctx, querier, event
func (_m *MockRunRepository) AppendEvent(ctx context.Context, querier interfaces.DBTX, event *models.RunEvent) error {
	ret := _m.Called(ctx, querier, event)
	return ret.Error(0)
}

// ListEvents provides a mock function with given fields: ctx, querier, runID, limit
func (_m *MockRunRepository) ListEvents(ctx context.Context, querier interfaces.DBTX, runID uuid.UUID, limit int) ([]*models.RunEvent, error) {
	ret := _m.Called(ctx, querier, runID, limit)

	var r0 []*models.RunEvent
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.RunEvent)
	}
	return r0, ret.Error(1)
}

// NewMockRunRepository creates a new instance of MockRunRepository. It also registers a testing interface on the mock.
func NewMockRunRepository(t interface {
	mock.TestingT
	Helper()
}) *MockRunRepository {
	m := &MockRunRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.RunRepository = (*MockRunRepository)(nil)
