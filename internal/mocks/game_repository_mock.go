package mocks

import (
	"context"
	"time"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockGameRepository is a mock type for the GameRepository type
type MockGameRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, querier, game
func (_m *MockGameRepository) Create(ctx context.Context, querier interfaces.DBTX, game *models.CustomGame) error {
	ret := _m.Called(ctx, querier, game)
	return ret.Error(0)
}

// GetByID provides a mock function with given fields: ctx, querier, id
func (_m *MockGameRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGame, error) {
	ret := _m.Called(ctx, querier, id)

	var r0 *models.CustomGame
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGame)
	}
	return r0, ret.Error(1)
}

// GetByIDForUpdate provides a mock function with given fields: ctx, querier, id
func (_m *MockGameRepository) GetByIDForUpdate(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGame, error) {
	ret := _m.Called(ctx, querier, id)

	var r0 *models.CustomGame
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGame)
	}
	return r0, ret.Error(1)
}

// UpdateStatus provides a mock function with given fields: ctx, querier, id, status
func (_m *MockGameRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, status models.GameStatus) error {
	ret := _m.Called(ctx, querier, id, status)
	return ret.Error(0)
}

// SetCurrentMap provides a mock function with given fields: ctx, querier, id, mapID, status
func (_m *MockGameRepository) SetCurrentMap(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, mapID uuid.UUID, status models.GameStatus) error {
	ret := _m.Called(ctx, querier, id, mapID, status)
	return ret.Error(0)
}

// OpenVote provides a mock function with given fields: ctx, querier, id, openedAt, endsAt
func (_m *MockGameRepository) OpenVote(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, openedAt, endsAt time.Time) error {
	ret := _m.Called(ctx, querier, id, openedAt, endsAt)
	return ret.Error(0)
}

// CloseVote provides a mock function with given fields: ctx, querier, id, voteStatus, status
func (_m *MockGameRepository) CloseVote(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, voteStatus models.PopulationVoteStatus, status models.GameStatus) error {
	ret := _m.Called(ctx, querier, id, voteStatus, status)
	return ret.Error(0)
}

// List provides a mock function with given fields: ctx, querier, status, limit
func (_m *MockGameRepository) List(ctx context.Context, querier interfaces.DBTX, status *models.GameStatus, limit int) ([]*models.CustomGame, error) {
	ret := _m.Called(ctx, querier, status, limit)

	var r0 []*models.CustomGame
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.CustomGame)
	}
	return r0, ret.Error(1)
}

// NewMockGameRepository creates a new instance of MockGameRepository. It also registers a testing interface on the mock.
func NewMockGameRepository(t interface {
	mock.TestingT
	Helper()
}) *MockGameRepository {
	m := &MockGameRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.GameRepository = (*MockGameRepository)(nil)
