package handler

import (
	"context"
	"net/http"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// setReviewRule задает порог одобрений для модуля ревью.
// PUT /api/admin/review-rules
func (h *Handler) setReviewRule(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req setReviewRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	rule, err := h.reviews.SetRule(c.Request.Context(), actor, models.ReviewModuleKey(req.ModuleKey), req.RequiredApprovals)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rule)
}

// listReviewRules возвращает все правила ревью.
// GET /api/admin/review-rules
func (h *Handler) listReviewRules(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	rules, err := h.reviews.ListRules(c.Request.Context(), actor)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, rules)
}

// listReviewTasks возвращает нерешенные задачи ревью.
// GET /api/admin/review-tasks?module=custom_idea
func (h *Handler) listReviewTasks(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	moduleKey := models.ReviewModuleKey(c.Query("module"))
	tasks, err := h.reviews.ListPendingTasks(c.Request.Context(), actor, moduleKey)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tasks)
}

// reviewIdea - голос администратора по идее игры.
// POST /api/admin/games/:id/review/idea
func (h *Handler) reviewIdea(c *gin.Context) {
	h.reviewGameTarget(c, h.games.ReviewIdea)
}

// reviewStart - голос администратора по запросу на запуск.
// POST /api/admin/games/:id/review/start
func (h *Handler) reviewStart(c *gin.Context) {
	h.reviewGameTarget(c, h.games.ReviewStart)
}

// reviewMap - голос администратора по версии карты.
// POST /api/admin/maps/:id/review
func (h *Handler) reviewMap(c *gin.Context) {
	h.reviewGameTarget(c, h.games.ReviewMap)
}

type reviewFunc = func(ctx context.Context, actor models.Actor, targetID uuid.UUID, decision models.ReviewDecision, comment string) (*models.VoteResult, error)

func (h *Handler) reviewGameTarget(c *gin.Context, vote reviewFunc) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	targetID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid id format"})
		return
	}
	var req reviewVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	decision := models.ReviewDecisionReject
	if req.Approve {
		decision = models.ReviewDecisionApprove
	}

	result, err := vote(c.Request.Context(), actor, targetID, decision, req.Comment)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	h.logger.Debug("Review vote accepted",
		zap.Stringer("targetID", targetID), zap.Bool("done", result.Done))
	c.JSON(http.StatusOK, result)
}
