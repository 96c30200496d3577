package models

import "github.com/google/uuid"

// Actor представляет вызывающего пользователя, уже разрешенного auth-слоем.
// Единая капабилити, которая передается во все хендлеры и сервисы вместо
// разрозненных проверок isAdmin/creator.
type Actor struct {
	ID      uuid.UUID
	Name    string
	IsAdmin bool
}

// CanControlRun проверяет, может ли актор управлять забегом (стадии, карта, очки).
// Управлять может администратор или создатель забега.
func (a Actor) CanControlRun(run *CustomGameRun) bool {
	return a.IsAdmin || a.ID == run.CreatorUserID
}

// IsCreatorOf проверяет, является ли актор создателем игры.
func (a Actor) IsCreatorOf(game *CustomGame) bool {
	return a.ID == game.CreatorUserID
}
