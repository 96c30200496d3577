package mocks

import (
	"context"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockMapRepository is a mock type for the MapRepository type
type MockMapRepository struct {
	mock.Mock
}

// Create provides a mock function with given fields: ctx, querier, m
func (_m *MockMapRepository) Create(ctx context.Context, querier interfaces.DBTX, m *models.CustomGameMap) error {
	ret := _m.Called(ctx, querier, m)
	return ret.Error(0)
}

// NextVersion provides a mock function with given fields: ctx, querier, gameID
func (_m *MockMapRepository) NextVersion(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (int, error) {
	ret := _m.Called(ctx, querier, gameID)
	return ret.Get(0).(int), ret.Error(1)
}

// GetByID provides a mock function with given fields: ctx, querier, id
func (_m *MockMapRepository) GetByID(ctx context.Context, querier interfaces.DBTX, id uuid.UUID) (*models.CustomGameMap, error) {
	ret := _m.Called(ctx, querier, id)

	var r0 *models.CustomGameMap
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameMap)
	}
	return r0, ret.Error(1)
}

// Latest provides a mock function with given fields: ctx, querier, gameID
func (_m *MockMapRepository) Latest(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameMap, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.CustomGameMap
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameMap)
	}
	return r0, ret.Error(1)
}

// LatestApproved provides a mock function with given fields: ctx, querier, gameID
func (_m *MockMapRepository) LatestApproved(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.CustomGameMap, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.CustomGameMap
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.CustomGameMap)
	}
	return r0, ret.Error(1)
}

// UpdateStatus provides a mock function with given fields: ctx, querier, id, status
func (_m *MockMapRepository) UpdateStatus(ctx context.Context, querier interfaces.DBTX, id uuid.UUID, status models.ReviewStatus) error {
	ret := _m.Called(ctx, querier, id, status)
	return ret.Error(0)
}

// NewMockMapRepository creates a new instance of MockMapRepository. It also registers a testing interface on the mock.
func NewMockMapRepository(t interface {
	mock.TestingT
	Helper()
}) *MockMapRepository {
	m := &MockMapRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.MapRepository = (*MockMapRepository)(nil)
