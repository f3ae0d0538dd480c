package handler

import (
	"net/http"

	sharedMiddleware "moral-village-server/shared/middleware"
	"moral-village-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

func (h *GameHandler) requireUserID(c *gin.Context) (uuid.UUID, bool) {
	userID, ok := sharedMiddleware.UserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized"})
		return uuid.Nil, false
	}
	return userID, true
}

func (h *GameHandler) restoreSession(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	state, err := h.gameService.RestoreSession(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, state)
}

func (h *GameHandler) getHistory(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	history, err := h.gameService.GetHistory(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"choices": history})
}

func (h *GameHandler) getProfile(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.gameService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, profile)
}

func (h *GameHandler) getStats(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	stats, err := h.gameService.ComputeStats(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *GameHandler) getEnding(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	ending, score, err := h.gameService.GetEnding(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ending":     ending,
		"moralScore": score,
	})
}

func (h *GameHandler) resetProgress(c *gin.Context) {
	userID, ok := h.requireUserID(c)
	if !ok {
		return
	}

	profile, err := h.gameService.ResetProgress(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	progressResetsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"message": "Progress reset",
		"profile": profile,
	})
}
