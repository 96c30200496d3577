package handler

import (
	"net/http"
	"strconv"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// submitIdea создает новую кастомную игру.
// POST /api/games
func (h *Handler) submitIdea(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	var req submitIdeaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	game, err := h.games.SubmitIdea(c.Request.Context(), actor, req.Title, req.IdeaText)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, game)
}

// listGames возвращает игры, новые первыми.
// GET /api/games?status=running&limit=20
func (h *Handler) listGames(c *gin.Context) {
	var status *models.GameStatus
	if raw := c.Query("status"); raw != "" {
		s := models.GameStatus(raw)
		status = &s
	}
	// Некорректный limit молча заменяется значением по умолчанию.
	limit, _ := strconv.Atoi(c.Query("limit"))

	games, err := h.games.ListGames(c.Request.Context(), status, limit)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

// getGame возвращает игру по идентификатору.
// GET /api/games/:id
func (h *Handler) getGame(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	game, err := h.games.GetGame(c.Request.Context(), gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

// submitMap подает новую версию карты на ревью.
// POST /api/games/:id/maps
func (h *Handler) submitMap(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req submitMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	gameMap, err := h.games.SubmitMap(c.Request.Context(), actor, gameID, req.MapData)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mapId": gameMap.ID, "version": gameMap.Version})
}

// latestMap возвращает карту с наибольшей версией независимо от статуса.
// GET /api/games/:id/maps/latest
func (h *Handler) latestMap(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	gameMap, err := h.games.LatestMap(c.Request.Context(), gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gameMap)
}

// requestStart запрашивает ревью запуска игры.
// POST /api/games/:id/start-request
func (h *Handler) requestStart(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	game, err := h.games.RequestStart(c.Request.Context(), actor, gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, game)
}

func gameIDFromPath(c *gin.Context) (uuid.UUID, bool) {
	gameID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid game id format"})
		return uuid.Nil, false
	}
	return gameID, true
}
