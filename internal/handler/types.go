package handler

import "encoding/json"

// --- Запросы ---

type setReviewRuleRequest struct {
	ModuleKey         string `json:"moduleKey" binding:"required"`
	RequiredApprovals int    `json:"requiredApprovals" binding:"required"`
}

type reviewVoteRequest struct {
	Approve bool   `json:"approve"`
	Comment string `json:"comment"`
}

type submitIdeaRequest struct {
	Title    string `json:"title" binding:"required"`
	IdeaText string `json:"ideaText" binding:"required"`
}

type submitMapRequest struct {
	MapData json.RawMessage `json:"mapData"`
}

type openVoteRequest struct {
	DurationMinutes int `json:"durationMinutes"`
}

type castVoteRequest struct {
	Vote *int `json:"vote" binding:"required"`
}

type closeVoteRequest struct {
	MinYes      int `json:"minYes"`
	TotalStages int `json:"totalStages"`
}

type submitActionRequest struct {
	ActionType string          `json:"actionType" binding:"required"`
	Payload    json.RawMessage `json:"payload"`
}

type configureStagesRequest struct {
	TotalStages int            `json:"totalStages" binding:"required"`
	Stages      []stagePayload `json:"stages"`
}

type stagePayload struct {
	Name string `json:"name"`
	Desc string `json:"desc"`
}

type patchMapRequest struct {
	MapPatch json.RawMessage `json:"mapPatch" binding:"required"`
}

type grantScoreRequest struct {
	UserID string `json:"userId" binding:"required"`
	Points int    `json:"points" binding:"required"`
	Reason string `json:"reason"`
	Stage  int    `json:"stage"`
}

// --- Ответы ---

type okResponse struct {
	OK bool `json:"ok"`
}

type stageResponse struct {
	CurrentStage int `json:"currentStage"`
}

type scoreResponse struct {
	NewScore int `json:"newScore"`
}
