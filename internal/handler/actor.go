package handler

import (
	"net/http"

	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
)

// actorFromContext собирает Actor из значений, положенных auth middleware.
// При отсутствии идентификатора запрос отбивается 401.
func actorFromContext(c *gin.Context) (models.Actor, bool) {
	ctx := c.Request.Context()

	userID, ok := models.GetUserIDFromContext(ctx)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Unauthorized"})
		return models.Actor{}, false
	}
	username, _ := models.GetUsernameFromContext(ctx)
	roles, _ := models.GetRolesFromContext(ctx)

	return models.Actor{
		ID:      userID,
		Name:    username,
		IsAdmin: models.HasRole(roles, models.RoleAdmin),
	}, true
}
