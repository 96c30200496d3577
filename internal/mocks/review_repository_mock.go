package mocks

import (
	"context"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockReviewRepository is a mock type for the ReviewRepository type
type MockReviewRepository struct {
	mock.Mock
}

// UpsertRule provides a mock function with given fields: ctx, querier, rule
func (_m *MockReviewRepository) UpsertRule(ctx context.Context, querier interfaces.DBTX, rule *models.ReviewRule) error {
	ret := _m.Called(ctx, querier, rule)
	return ret.Error(0)
}

// GetRule provides a mock function with given fields: ctx, querier, moduleKey
func (_m *MockReviewRepository) GetRule(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey) (*models.ReviewRule, error) {
	ret := _m.Called(ctx, querier, moduleKey)

	var r0 *models.ReviewRule
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ReviewRule)
	}
	return r0, ret.Error(1)
}

// ListRules provides a mock function with given fields: ctx, querier
func (_m *MockReviewRepository) ListRules(ctx context.Context, querier interfaces.DBTX) ([]*models.ReviewRule, error) {
	ret := _m.Called(ctx, querier)

	var r0 []*models.ReviewRule
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.ReviewRule)
	}
	return r0, ret.Error(1)
}

// CreateTaskIfAbsent provides a mock function with given fields: ctx, querier, task
func (_m *MockReviewRepository) CreateTaskIfAbsent(ctx context.Context, querier interfaces.DBTX, task *models.ReviewTask) error {
	ret := _m.Called(ctx, querier, task)
	return ret.Error(0)
}

// GetTaskForUpdate provides a mock function with given fields: ctx, querier, moduleKey, targetType, targetID
func (_m *MockReviewRepository) GetTaskForUpdate(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error) {
	ret := _m.Called(ctx, querier, moduleKey, targetType, targetID)

	var r0 *models.ReviewTask
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ReviewTask)
	}
	return r0, ret.Error(1)
}

// GetTaskByTarget provides a mock function with given fields: ctx, querier, moduleKey, targetType, targetID
func (_m *MockReviewRepository) GetTaskByTarget(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey, targetType, targetID string) (*models.ReviewTask, error) {
	ret := _m.Called(ctx, querier, moduleKey, targetType, targetID)

	var r0 *models.ReviewTask
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.ReviewTask)
	}
	return r0, ret.Error(1)
}

// UpdateTaskStatus provides a mock function with given fields: ctx, querier, taskID, status
func (_m *MockReviewRepository) UpdateTaskStatus(ctx context.Context, querier interfaces.DBTX, taskID uuid.UUID, status models.ReviewStatus) error {
	ret := _m.Called(ctx, querier, taskID, status)
	return ret.Error(0)
}

// UpsertVote provides a mock function with given fields: ctx, querier, vote
func (_m *MockReviewRepository) UpsertVote(ctx context.Context, querier interfaces.DBTX, vote *models.ReviewVote) error {
	ret := _m.Called(ctx, querier, vote)
	return ret.Error(0)
}

// CountVotes provides a mock function with given fields: ctx, querier, taskID
func (_m *MockReviewRepository) CountVotes(ctx context.Context, querier interfaces.DBTX, taskID uuid.UUID) (int, int, error) {
	ret := _m.Called(ctx, querier, taskID)
	return ret.Get(0).(int), ret.Get(1).(int), ret.Error(2)
}

// ListPendingTasks provides a mock function with given fields: ctx, querier, moduleKey
func (_m *MockReviewRepository) ListPendingTasks(ctx context.Context, querier interfaces.DBTX, moduleKey models.ReviewModuleKey) ([]*models.ReviewTask, error) {
	ret := _m.Called(ctx, querier, moduleKey)

	var r0 []*models.ReviewTask
	if ret.Get(0) != nil {
		r0 = ret.Get(0).([]*models.ReviewTask)
	}
	return r0, ret.Error(1)
}

// NewMockReviewRepository creates a new instance of MockReviewRepository. It also registers a testing interface on the mock.
func NewMockReviewRepository(t interface {
	mock.TestingT
	Helper()
}) *MockReviewRepository {
	m := &MockReviewRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.ReviewRepository = (*MockReviewRepository)(nil)
