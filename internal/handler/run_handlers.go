package handler

import (
	"errors"
	"net/http"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// activeRun возвращает идентификатор активного забега или null.
// GET /api/games/:id/run
func (h *Handler) activeRun(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	run, err := h.runs.ActiveRun(c.Request.Context(), gameID)
	if err != nil {
		if errors.Is(err, models.ErrRunNotFound) {
			c.JSON(http.StatusOK, gin.H{"runId": nil})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"runId": run.ID})
}

// joinRun идемпотентно присоединяет игрока к активному забегу.
// POST /api/games/:id/run/join
func (h *Handler) joinRun(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	player, err := h.runs.Join(c.Request.Context(), actor, gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, player)
}

// runState возвращает полный снимок забега: участники и последние события.
// GET /api/games/:id/run/state
func (h *Handler) runState(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	state, err := h.runs.GetState(c.Request.Context(), gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// submitAction применяет действие игрока по серверной таблице эффектов.
// POST /api/games/:id/run/actions
func (h *Handler) submitAction(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req submitActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	player, err := h.runs.SubmitAction(c.Request.Context(), actor, gameID, req.ActionType, req.Payload)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":  player.Score,
		"hp":     player.HP,
		"energy": player.Energy,
		"alive":  player.Alive,
	})
}

// configureStages заменяет конфигурацию стадий забега.
// PUT /api/games/:id/run/stages
func (h *Handler) configureStages(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req configureStagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	stages := make([]models.StageConfig, 0, len(req.Stages))
	for i, s := range req.Stages {
		stages = append(stages, models.StageConfig{Index: i + 1, Name: s.Name, Desc: s.Desc})
	}

	run, err := h.runs.ConfigureStages(c.Request.Context(), actor, gameID, req.TotalStages, stages)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"totalStages":  run.TotalStages,
		"currentStage": run.CurrentStage,
		"stageConfigs": run.StageConfigs,
	})
}

// nextStage продвигает забег на следующую стадию.
// POST /api/games/:id/run/next-stage
func (h *Handler) nextStage(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	newStage, err := h.runs.NextStage(c.Request.Context(), actor, gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stageResponse{CurrentStage: newStage})
}

// patchRunMap вливает частичный объект в снимок карты забега.
// PATCH /api/games/:id/run/map
func (h *Handler) patchRunMap(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req patchMapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	if _, err := h.runs.PatchMap(c.Request.Context(), actor, gameID, req.MapPatch); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, okResponse{OK: true})
}

// grantScore начисляет игроку очки.
// POST /api/games/:id/run/score
func (h *Handler) grantScore(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	var req grantScoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid userId format"})
		return
	}

	newScore, err := h.runs.GrantScore(c.Request.Context(), actor, gameID, userID, req.Points, req.Reason, req.Stage)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, scoreResponse{NewScore: newScore})
}

// endRun завершает забег и возвращает финальный рейтинг.
// POST /api/games/:id/run/end
func (h *Handler) endRun(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		return
	}
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	ranking, err := h.runs.End(c.Request.Context(), actor, gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranking})
}

// playerStats возвращает пожизненную статистику игрока.
// GET /api/players/:id/stats
func (h *Handler) playerStats(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Invalid player ID format"})
		return
	}
	stats, err := h.runs.PlayerStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// settlement возвращает рейтинг завершенного забега.
// GET /api/games/:id/run/settlement
func (h *Handler) settlement(c *gin.Context) {
	gameID, ok := gameIDFromPath(c)
	if !ok {
		return
	}
	ranking, err := h.runs.Settlement(c.Request.Context(), gameID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ranking": ranking})
}
