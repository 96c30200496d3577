package models

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims представляет стандартные поля JWT и пользовательские данные,
// которые выдает внешний auth-сервис.
type Claims struct {
	UserID               uuid.UUID `json:"user_id"`
	Username             string    `json:"username"`
	Roles                []string  `json:"roles"`
	jwt.RegisteredClaims           // Встраиваем стандартные поля: Issuer, Subject, ExpiresAt и т.д.
}
