package models

import (
	"context"

	"github.com/google/uuid"
)

// contextKey - приватный тип для ключей контекста, чтобы избежать коллизий.
type contextKey string

const (
	// UserContextKey используется как ключ для хранения UserID в контексте запроса.
	UserContextKey contextKey = "userID"
	// UsernameContextKey используется как ключ для хранения имени пользователя.
	UsernameContextKey contextKey = "username"
	// RolesContextKey используется как ключ для хранения []string ролей пользователя.
	RolesContextKey contextKey = "userRoles"
)

// GetUserIDFromContext извлекает UserID из контекста.
func GetUserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	userID, ok := ctx.Value(UserContextKey).(uuid.UUID)
	return userID, ok
}

// GetUsernameFromContext извлекает имя пользователя из контекста.
func GetUsernameFromContext(ctx context.Context) (string, bool) {
	name, ok := ctx.Value(UsernameContextKey).(string)
	return name, ok
}

// GetRolesFromContext извлекает срез ролей из контекста.
func GetRolesFromContext(ctx context.Context) ([]string, bool) {
	roles, ok := ctx.Value(RolesContextKey).([]string)
	return roles, ok
}
