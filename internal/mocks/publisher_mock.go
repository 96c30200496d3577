package mocks

import (
	"context"

	"arcade-server/shared/interfaces"
	"arcade-server/shared/models"

	"github.com/stretchr/testify/mock"
)

// MockAnnouncementPublisher is a mock type for the AnnouncementPublisher type
type MockAnnouncementPublisher struct {
	mock.Mock
}

// PublishAnnouncement provides a mock function with given fields: ctx, announcement
func (_m *MockAnnouncementPublisher) PublishAnnouncement(ctx context.Context, announcement models.Announcement) error {
	ret := _m.Called(ctx, announcement)
	return ret.Error(0)
}

// NewMockAnnouncementPublisher creates a new instance of MockAnnouncementPublisher. It also registers a testing interface on the mock.
func NewMockAnnouncementPublisher(t interface {
	mock.TestingT
	Helper()
}) *MockAnnouncementPublisher {
	m := &MockAnnouncementPublisher{}
	m.Mock.Test(t)
	t.Helper()
	return m
}

var _ interfaces.AnnouncementPublisher = (*MockAnnouncementPublisher)(nil)
