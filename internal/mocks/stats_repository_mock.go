package mocks

import (
	"context"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockStatsRepository is a mock type for the StatsRepository type
type MockStatsRepository struct {
	mock.Mock
}

// ApplyRunResult provides a mock function with given fields: ctx, querier, userID, points, win
func (_m *MockStatsRepository) ApplyRunResult(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID, points int, win bool) error {
	ret := _m.Called(ctx, querier, userID, points, win)
	return ret.Error(0)
}

// Get provides a mock function with given fields: ctx, querier, userID
func (_m *MockStatsRepository) Get(ctx context.Context, querier interfaces.DBTX, userID uuid.UUID) (*models.PlayerStats, error) {
	ret := _m.Called(ctx, querier, userID)

	var r0 *models.PlayerStats
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.PlayerStats)
	}
	return r0, ret.Error(1)
}

// NewMockStatsRepository creates a new instance of MockStatsRepository. It also registers a testing interface on the mock.
func NewMockStatsRepository(t interface {
	mock.TestingT
	Helper()
}) *MockStatsRepository {
	m := &MockStatsRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.StatsRepository = (*MockStatsRepository)(nil)
