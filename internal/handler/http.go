package handler

import (
	"moral-village-server/internal/config"
	"moral-village-server/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// GameHandler exposes the HTTP surface of the game: auth endpoints, the
// scenario catalog, choice confirmation and the per-user progress views.
type GameHandler struct {
	authService service.AuthService
	gameService *service.GameService
	cfg         *config.Config
	logger      *zap.Logger
}

// NewGameHandler creates the handler.
func NewGameHandler(authService service.AuthService, gameService *service.GameService, cfg *config.Config, logger *zap.Logger) *GameHandler {
	return &GameHandler{
		authService: authService,
		gameService: gameService,
		cfg:         cfg,
		logger:      logger.Named("GameHandler"),
	}
}

// RegisterRoutes wires all endpoints. guard is the JWT navigation guard for
// protected views; authLimiter rate-limits the credential endpoints and may
// be nil.
func (h *GameHandler) RegisterRoutes(router *gin.Engine, guard gin.HandlerFunc, authLimiter gin.HandlerFunc) {
	api := router.Group("/api")

	auth := api.Group("/auth")
	if authLimiter != nil {
		auth.Use(authLimiter)
	}
	auth.POST("/register", h.register)
	auth.POST("/login", h.login)
	auth.POST("/refresh", h.refresh)
	auth.POST("/logout", guard, h.logout)
	auth.GET("/me", guard, h.me)

	protected := api.Group("")
	protected.Use(guard)
	protected.GET("/scenarios", h.listScenarios)
	protected.GET("/scenarios/:id", h.getScenario)
	protected.POST("/scenarios/:id/choices", h.confirmChoice)
	protected.GET("/sins", h.listSins)
	protected.GET("/endings", h.listEndings)

	me := protected.Group("/me")
	me.GET("/session", h.restoreSession)
	me.GET("/history", h.getHistory)
	me.GET("/profile", h.getProfile)
	me.GET("/stats", h.getStats)
	me.GET("/ending", h.getEnding)
	me.POST("/reset", h.resetProgress)
}
