package mocks

import (
	"context"

	"arcade-server/shared/interfaces"

	"github.com/stretchr/testify/mock"
)

// MockTxManager is a mock type for the TxManager type.
// Тестовый вариант просто вызывает fn с nil querier без настоящей транзакции.
type MockTxManager struct {
	mock.Mock
}

// WithTx provides a mock function with given fields: ctx, fn
func (_m *MockTxManager) WithTx(ctx context.Context, fn func(ctx context.Context, querier interfaces.DBTX) error) error {
	ret := _m.Called(ctx, fn)

	var r0 error
	if rf, ok := ret.Get(0).(func(context.Context, func(context.Context, interfaces.DBTX) error) error); ok {
		r0 = rf(ctx, fn)
	} else {
		err := ret.Error(0)
		if err != nil {
			r0 = err
		}
	}

	return r0
}

// NewMockTxManager creates a new instance of MockTxManager. It also registers a testing interface on the mock.
func NewMockTxManager(t interface {
	mock.TestingT
	Helper()
}) *MockTxManager {
	m := &MockTxManager{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

// NewPassthroughTxManager returns a mock whose WithTx always runs fn with a nil querier.
func NewPassthroughTxManager(t interface {
	mock.TestingT
	Helper()
}) *MockTxManager {
	m := NewMockTxManager(t)
	m.On("WithTx", mock.Anything, mock.Anything).Return(func(ctx context.Context, fn func(context.Context, interfaces.DBTX) error) error {
		return fn(ctx, nil)
	})
	return m
}

var _ interfaces.TxManager = (*MockTxManager)(nil)
