package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// RunStatus - статус забега.
type RunStatus string

const (
	RunStatusRunning RunStatus = "running"
	RunStatusEnded   RunStatus = "ended" // терминальный
)

// Пределы количества стадий забега.
const (
	MinTotalStages = 1
	MaxTotalStages = 20
)

// Типы событий в журнале забега.
const (
	RunEventJoin       = "join"
	RunEventAction     = "action"
	RunEventScoreGrant = "score_grant"
	RunEventRunStart   = "run_start"
	RunEventRunEnd     = "run_end"
)

// StageConfig описывает одну стадию забега.
type StageConfig struct {
	Index int    `json:"index"`
	Name  string `json:"name"`
	Desc  string `json:"desc,omitempty"`
}

// CustomGameRun - одна запущенная сессия кастомной игры.
// MapSnapshot копируется из одобренной карты при запуске и больше
// никогда не перечитывается из реестра карт.
type CustomGameRun struct {
	ID            uuid.UUID       `json:"id"`
	GameID        uuid.UUID       `json:"gameId"`
	Status        RunStatus       `json:"status"`
	CurrentStage  int             `json:"currentStage"`
	TotalStages   int             `json:"totalStages"`
	StageConfigs  []StageConfig   `json:"stageConfigs"`
	MapSnapshot   json.RawMessage `json:"mapSnapshot"`
	CreatorUserID uuid.UUID       `json:"creatorUserId"`
	StartedAt     time.Time       `json:"startedAt"`
	EndedAt       *time.Time      `json:"endedAt,omitempty"`
}

// RunPlayer - участник забега. Уникален по (runId, userId).
type RunPlayer struct {
	ID       uuid.UUID `json:"id"`
	RunID    uuid.UUID `json:"runId"`
	UserID   uuid.UUID `json:"userId"`
	Name     string    `json:"name"`
	HP       int       `json:"hp"`
	Energy   int       `json:"energy"`
	Score    int       `json:"score"`
	Alive    bool      `json:"alive"`
	JoinedAt time.Time `json:"joinedAt"`
}

// RunEvent - запись append-only журнала забега. Никогда не мутируется.
type RunEvent struct {
	ID          uuid.UUID       `json:"id"`
	RunID       uuid.UUID       `json:"runId"`
	ActorUserID *uuid.UUID      `json:"actorUserId,omitempty"`
	EventType   string          `json:"eventType"`
	Message     string          `json:"message"`
	Payload     json.RawMessage `json:"payload,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// PlayerStats - пожизненная статистика игрока по всем забегам.
// Мутируется только расчетом (settlement) при завершении забега.
type PlayerStats struct {
	UserID      uuid.UUID `json:"userId"`
	TotalPoints int       `json:"totalPoints"`
	TotalRuns   int       `json:"totalRuns"`
	TotalWins   int       `json:"totalWins"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RankEntry - одна строка финального рейтинга забега.
type RankEntry struct {
	Rank   int       `json:"rank"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`
	Score  int       `json:"score"`
}
