package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestHandleServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"forbidden", models.ErrForbidden, http.StatusForbidden},
		{"self review", models.ErrSelfReview, http.StatusForbidden},
		{"not joined", models.ErrNotJoined, http.StatusForbidden},
		{"game not found", models.ErrGameNotFound, http.StatusNotFound},
		{"map not found", models.ErrMapNotFound, http.StatusNotFound},
		{"run not found", models.ErrRunNotFound, http.StatusNotFound},
		{"task not found", models.ErrTaskNotFound, http.StatusNotFound},
		{"invalid state", models.ErrInvalidState, http.StatusConflict},
		{"wrapped invalid state", fmt.Errorf("%w: vote is not open", models.ErrInvalidState), http.StatusConflict},
		{"vote ended", models.ErrVoteEnded, http.StatusConflict},
		{"already ended", models.ErrAlreadyEnded, http.StatusConflict},
		{"already final", models.ErrAlreadyFinal, http.StatusConflict},
		{"run already active", models.ErrRunAlreadyActive, http.StatusConflict},
		{"invalid input", models.ErrInvalidInput, http.StatusBadRequest},
		{"unauthorized", models.ErrUnauthorized, http.StatusUnauthorized},
		{"unknown error hides details", fmt.Errorf("pg: connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			handleServiceError(c, tc.err)
			assert.Equal(t, tc.wantStatus, w.Code)
			assert.Contains(t, w.Body.String(), "error")
		})
	}
}
