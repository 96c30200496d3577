package handler

import (
	"errors"
	"net/http"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
)

// handleServiceError отображает ошибки сервисного слоя в HTTP-статусы.
func handleServiceError(c *gin.Context, err error) {
	var statusCode int
	var errResp models.ErrorResponse

	switch {
	case errors.Is(err, models.ErrUnauthorized):
		statusCode = http.StatusUnauthorized
		errResp = models.ErrorResponse{Error: "Unauthorized"}
	case errors.Is(err, models.ErrForbidden):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Error: "Forbidden"}
	case errors.Is(err, models.ErrSelfReview):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Error: "Creators cannot review their own submissions"}
	case errors.Is(err, models.ErrGameNotFound),
		errors.Is(err, models.ErrMapNotFound),
		errors.Is(err, models.ErrRunNotFound),
		errors.Is(err, models.ErrTaskNotFound),
		errors.Is(err, models.ErrNotFound):
		statusCode = http.StatusNotFound
		errResp = models.ErrorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrNotJoined):
		statusCode = http.StatusForbidden
		errResp = models.ErrorResponse{Error: "Player has not joined this run"}
	case errors.Is(err, models.ErrVoteEnded):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: "Vote window has ended"}
	case errors.Is(err, models.ErrAlreadyEnded):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: "Run is already ended"}
	case errors.Is(err, models.ErrAlreadyFinal):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: "Run is already at the final stage"}
	case errors.Is(err, models.ErrRunAlreadyActive):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: "Another run is already active for this game"}
	case errors.Is(err, models.ErrInvalidState):
		statusCode = http.StatusConflict
		errResp = models.ErrorResponse{Error: err.Error()}
	case errors.Is(err, models.ErrInvalidInput), errors.Is(err, models.ErrBadRequest):
		statusCode = http.StatusBadRequest
		errResp = models.ErrorResponse{Error: err.Error()}
	default:
		statusCode = http.StatusInternalServerError
		errResp = models.ErrorResponse{Error: "Internal server error"}
	}

	c.JSON(statusCode, errResp)
}
