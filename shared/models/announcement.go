package models

// Типы анонсов, публикуемых в очередь уведомлений.
const (
	AnnouncementVoteOpen = "custom_game_vote_open"
	AnnouncementRunStart = "custom_game_run_start"
)

// Announcement - fire-and-forget уведомление для игровой базы.
// Доставка - забота notification-сервиса; ядро только публикует.
type Announcement struct {
	Type    string         `json:"type"`
	Title   string         `json:"title"`
	Body    string         `json:"body"`
	Payload map[string]any `json:"payload,omitempty"`
}
