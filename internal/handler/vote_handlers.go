package handler

import (
	"net/http"
	"time"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
)

// openVote открывает окно всенародного голосования.
// POST /api/admin/games/:id/vote/open
func (h *Handler) openVote(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req openVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	game, err := h.votes.Open(c.Request.Context(), actor, gameID, time.Duration(req.DurationMinutes)*time.Minute)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"voteEndsAt": game.VoteEndsAt})
}

// castVote записывает голос пользователя (0/1).
// POST /api/games/:id/vote
func (h *Handler) castVote(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req castVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Vote == nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: vote is required"})
		return
	}

	if err := h.votes.Cast(c.Request.Context(), actor, gameID, *req.Vote); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

// voteTally возвращает текущие счетчики да/нет.
// GET /api/games/:id/vote/tally
func (h *Handler) voteTally(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	tally, err := h.votes.Tally(c.Request.Context(), gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, tally)
}

// closeVote закрывает голосование и выносит вердикт.
// POST /api/admin/games/:id/vote/close
func (h *Handler) closeVote(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req closeVoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	result, err := h.votes.Close(c.Request.Context(), actor, gameID, req.MinYes, req.TotalStages)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}
