package mocks

import (
	"context"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockVoteRepository is a mock type for the VoteRepository type
type MockVoteRepository struct {
	mock.Mock
}

// Upsert provides a mock function with given fields: ctx, querier, vote
func (_m *MockVoteRepository) Upsert(ctx context.Context, querier interfaces.DBTX, vote *models.CustomGameVote) error {
	ret := _m.Called(ctx, querier, vote)
	return ret.Error(0)
}

// Tally provides a mock function with given fields: ctx, querier, gameID
func (_m *MockVoteRepository) Tally(ctx context.Context, querier interfaces.DBTX, gameID uuid.UUID) (*models.VoteTally, error) {
	ret := _m.Called(ctx, querier, gameID)

	var r0 *models.VoteTally
	if ret.Get(0) != nil {
		r0 = ret.Get(0).(*models.VoteTally)
	}
	return r0, ret.Error(1)
}

// NewMockVoteRepository creates a new instance of MockVoteRepository. It also registers a testing interface on the mock.
func NewMockVoteRepository(t interface {
	mock.TestingT
	Helper()
}) *MockVoteRepository {
	m := &MockVoteRepository{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.VoteRepository = (*MockVoteRepository)(nil)
