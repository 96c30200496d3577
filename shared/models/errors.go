package models

import "errors"

// Стандартные ошибки уровня приложения
var (
	// Общие ошибки ресурсов/БД
	ErrNotFound     = errors.New("resource not found") // Общая "не найдено"
	ErrGameNotFound = errors.New("custom game not found")
	ErrMapNotFound  = errors.New("custom game map not found")
	ErrRunNotFound  = errors.New("custom game run not found")
	ErrTaskNotFound = errors.New("review task not found")

	// Ошибки аутентификации/авторизации
	ErrUnauthorized = errors.New("unauthorized") // Требуется аутентификация
	ErrForbidden    = errors.New("forbidden")    // Аутентифицирован, но нет прав

	// Ошибки токенов
	ErrTokenInvalid   = errors.New("token is invalid")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenExpired   = errors.New("token has expired")

	// Ошибки пайплайна кастомных игр
	ErrInvalidState     = errors.New("action not allowed in current state")
	ErrSelfReview       = errors.New("creator cannot review own submission")
	ErrVoteEnded        = errors.New("vote deadline has passed")
	ErrAlreadyEnded     = errors.New("run has already ended")
	ErrAlreadyFinal     = errors.New("run is already at the final stage")
	ErrRunAlreadyActive = errors.New("game already has an active run")
	ErrNotJoined        = errors.New("player has not joined this run")

	// Общие ошибки запросов/сервера
	ErrInternalServer = errors.New("internal server error")
	ErrBadRequest     = errors.New("bad request")
	ErrInvalidInput   = errors.New("invalid input data")
)
