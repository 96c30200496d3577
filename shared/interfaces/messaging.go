package interfaces

import (
	"context"

	"arcade-server/shared/models"
)

// AnnouncementPublisher defines the interface for publishing announcements.
// Публикация fire-and-forget: ошибки логируются, но не проваливают запрос.
//
//go:generate mockery --name AnnouncementPublisher --output ./mocks --outpkg mocks --case=underscore
type AnnouncementPublisher interface {
	PublishAnnouncement(ctx context.Context, announcement models.Announcement) error
}
