package handler

import (
	"arcade-server/internal/service"
	"arcade-server/shared/middleware"
	"arcade-server/shared/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler объединяет HTTP-обработчики сервиса кастомных игр.
type Handler struct {
	reviews *service.ReviewService
	games   *service.GameService
	votes   *service.VoteService
	runs    *service.RunService
	logger  *zap.Logger
}

// NewHandler creates a new Handler.
func NewHandler(
	reviews *service.ReviewService,
	games *service.GameService,
	votes *service.VoteService,
	runs *service.RunService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		reviews: reviews,
		games:   games,
		votes:   votes,
		runs:    runs,
		logger:  logger.Named("Handler"),
	}
}

// RegisterRoutes вешает все маршруты API на движок gin.
// rateLimiter применяется к мутирующим эндпоинтам игроков (голос, действие);
// nil отключает ограничение (тесты, локальный запуск без Redis).
func (h *Handler) RegisterRoutes(router *gin.Engine, verifier middleware.TokenVerifier, rateLimiter gin.HandlerFunc) {
	if rateLimiter == nil {
		rateLimiter = func(c *gin.Context) { c.Next() }
	}

	api := router.Group("/api")

	// Администраторские маршруты: ревью и управление голосованием.
	admin := api.Group("/admin")
	admin.Use(middleware.GinAuthMiddleware(verifier, h.logger, models.RoleAdmin))
	{
		admin.PUT("/review-rules", h.setReviewRule)
		admin.GET("/review-rules", h.listReviewRules)
		admin.GET("/review-tasks", h.listReviewTasks)
		admin.POST("/games/:id/review/idea", h.reviewIdea)
		admin.POST("/games/:id/review/start", h.reviewStart)
		admin.POST("/maps/:id/review", h.reviewMap)
		admin.POST("/games/:id/vote/open", h.openVote)
		admin.POST("/games/:id/vote/close", h.closeVote)
	}

	// Пользовательские маршруты: конвейер игры, голосование, забег.
	games := api.Group("/games")
	games.Use(middleware.GinAuthMiddleware(verifier, h.logger, models.RoleUser, models.RoleAdmin))
	{
		games.POST("", h.submitIdea)
		games.GET("", h.listGames)
		games.GET("/:id", h.getGame)
		games.POST("/:id/maps", h.submitMap)
		games.GET("/:id/maps/latest", h.latestMap)
		games.POST("/:id/start-request", h.requestStart)

		games.POST("/:id/vote", rateLimiter, h.castVote)
		games.GET("/:id/vote/tally", h.voteTally)

		games.GET("/:id/run", h.activeRun)
		games.POST("/:id/run/join", h.joinRun)
		games.GET("/:id/run/state", h.runState)
		games.POST("/:id/run/actions", rateLimiter, h.submitAction)
		games.PUT("/:id/run/stages", h.configureStages)
		games.POST("/:id/run/next-stage", h.nextStage)
		games.PATCH("/:id/run/map", h.patchRunMap)
		games.POST("/:id/run/score", h.grantScore)
		games.POST("/:id/run/end", h.endRun)
		games.GET("/:id/run/settlement", h.settlement)
	}

	// Пожизненная статистика игрока, накапливается при завершении забегов.
	players := api.Group("/players")
	players.Use(middleware.GinAuthMiddleware(verifier, h.logger, models.RoleUser, models.RoleAdmin))
	{
		players.GET("/:id/stats", h.playerStats)
	}
}
