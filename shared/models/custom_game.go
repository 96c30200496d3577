package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// GameStatus - статус кастомной игры в конвейере idea -> map -> start -> vote -> run.
type GameStatus string

const (
	GameStatusIdeaPending   GameStatus = "idea_pending"
	GameStatusIdeaApproved  GameStatus = "idea_approved"
	GameStatusIdeaRejected  GameStatus = "idea_rejected" // терминальный
	GameStatusMapPending    GameStatus = "map_pending"
	GameStatusMapRejected   GameStatus = "map_rejected"
	GameStatusReadyForStart GameStatus = "ready_for_start"
	GameStatusStartPending  GameStatus = "start_pending"
	GameStatusStartRejected GameStatus = "start_rejected" // терминальный
	GameStatusReadyForVote  GameStatus = "ready_for_vote"
	GameStatusVoteFailed    GameStatus = "vote_failed" // терминальный
	GameStatusRunning       GameStatus = "running"
	GameStatusEnded         GameStatus = "ended" // терминальный
)

// PopulationVoteStatus - статус всенародного голосования за запуск игры.
type PopulationVoteStatus string

const (
	PopulationVoteNone       PopulationVoteStatus = "none"
	PopulationVoteOpen       PopulationVoteStatus = "open"
	PopulationVoteClosedPass PopulationVoteStatus = "closed_pass"
	PopulationVoteClosedFail PopulationVoteStatus = "closed_fail"
)

// CustomGame - авторская мини-игра, проходящая через конвейер ревью.
// Статус мутируется только контроллером жизненного цикла.
type CustomGame struct {
	ID            uuid.UUID            `json:"id"`
	Title         string               `json:"title"`
	IdeaText      string               `json:"ideaText"`
	Status        GameStatus           `json:"status"`
	CreatorUserID uuid.UUID            `json:"creatorUserId"`
	VoteStatus    PopulationVoteStatus `json:"voteStatus"`
	VoteOpenedAt  *time.Time           `json:"voteOpenedAt,omitempty"`
	VoteEndsAt    *time.Time           `json:"voteEndsAt,omitempty"`
	CurrentMapID  *uuid.UUID           `json:"currentMapId,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
	UpdatedAt     time.Time            `json:"updatedAt"`
}

// CustomGameMap - одна версия карты в append-only реестре.
// Версии строго возрастают с 1 в пределах игры; отклоненные версии
// остаются историей и не блокируют новую подачу.
type CustomGameMap struct {
	ID            uuid.UUID       `json:"id"`
	GameID        uuid.UUID       `json:"gameId"`
	Version       int             `json:"version"`
	MapData       json.RawMessage `json:"mapData"`
	Status        ReviewStatus    `json:"status"`
	CreatorUserID uuid.UUID       `json:"creatorUserId"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CustomGameVote - голос игрока (0/1) во всенародном голосовании.
// Уникален по (gameId, userId); мутируем только пока голосование открыто.
type CustomGameVote struct {
	ID        uuid.UUID `json:"id"`
	GameID    uuid.UUID `json:"gameId"`
	UserID    uuid.UUID `json:"userId"`
	Vote      int       `json:"vote"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// VoteTally - текущие счетчики открытого голосования.
type VoteTally struct {
	Yes int `json:"yes"`
	No  int `json:"no"`
}
