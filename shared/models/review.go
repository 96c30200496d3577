package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ReviewModuleKey определяет точку ревью, через которую проходит кастомная игра.
type ReviewModuleKey string

const (
	ReviewModuleIdea  ReviewModuleKey = "custom_idea"
	ReviewModuleMap   ReviewModuleKey = "custom_map"
	ReviewModuleStart ReviewModuleKey = "custom_start"
)

// DefaultRequiredApprovals - порог одобрений по умолчанию, если правило не задано.
const DefaultRequiredApprovals = 2

// ValidReviewModule проверяет, что ключ модуля - одна из трех точек ревью.
func ValidReviewModule(key ReviewModuleKey) bool {
	switch key {
	case ReviewModuleIdea, ReviewModuleMap, ReviewModuleStart:
		return true
	}
	return false
}

// ReviewStatus - статус задачи ревью или карты.
type ReviewStatus string

const (
	ReviewStatusPending  ReviewStatus = "pending"
	ReviewStatusApproved ReviewStatus = "approved"
	ReviewStatusRejected ReviewStatus = "rejected"
)

// ReviewDecision - решение отдельного администратора.
type ReviewDecision string

const (
	ReviewDecisionApprove ReviewDecision = "approve"
	ReviewDecisionReject  ReviewDecision = "reject"
)

// ReviewRule задает порог независимых одобрений для модуля ревью.
// Одна строка на модуль; только upsert, никогда не удаляется.
type ReviewRule struct {
	ModuleKey         ReviewModuleKey `json:"moduleKey"`
	RequiredApprovals int             `json:"requiredApprovals"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ReviewTask - одна задача ревью (кворум N администраторов).
// Уникальна по (moduleKey, targetType, targetId); терминальный статус
// никогда не перезаписывается.
type ReviewTask struct {
	ID            uuid.UUID       `json:"id"`
	ModuleKey     ReviewModuleKey `json:"moduleKey"`
	TargetType    string          `json:"targetType"`
	TargetID      string          `json:"targetId"`
	CreatorUserID *uuid.UUID      `json:"creatorUserId,omitempty"`
	Status        ReviewStatus    `json:"status"`
	Payload       json.RawMessage `json:"payload,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// ReviewVote - голос администратора по задаче. Уникален по (taskId, adminId);
// повторный голос того же администратора заменяет предыдущий, пока задача pending.
type ReviewVote struct {
	ID        uuid.UUID      `json:"id"`
	TaskID    uuid.UUID      `json:"taskId"`
	AdminID   uuid.UUID      `json:"adminId"`
	AdminName string         `json:"adminName"`
	Decision  ReviewDecision `json:"decision"`
	Comment   string         `json:"comment,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// VoteResult - результат одного вызова движка кворума.
// Done=false означает, что задача еще pending и возвращены текущие счетчики.
type VoteResult struct {
	TaskID       uuid.UUID    `json:"taskId"`
	Done         bool         `json:"done"`
	Status       ReviewStatus `json:"status"`
	ApproveCount int          `json:"approveCount"`
	RejectCount  int          `json:"rejectCount"`
	Required     int          `json:"required"`
}
