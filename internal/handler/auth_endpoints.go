package handler

import (
	"net/http"
	"unicode"

	sharedMiddleware "moral-village-server/shared/middleware"
	"moral-village-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
)

func (h *GameHandler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request data: " + err.Error()})
		return
	}

	if len(req.Password) < minPasswordLength || len(req.Password) > maxPasswordLength {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Password length must be between 8 and 100 characters"})
		return
	}
	var (
		hasLetter bool
		hasDigit  bool
	)
	for _, char := range req.Password {
		if unicode.IsLetter(char) {
			hasLetter = true
		}
		if unicode.IsDigit(char) {
			hasDigit = true
		}
		if hasLetter && hasDigit {
			break
		}
	}
	if !hasLetter || !hasDigit {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Password must contain at least one letter and one digit"})
		return
	}

	user, err := h.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	registrationsTotal.Inc()

	c.JSON(http.StatusCreated, gin.H{
		"id":    user.ID.String(),
		"email": user.Email,
	})
}

func (h *GameHandler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	user, tokens, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	// Hydrate the play session alongside the tokens. A session restore
	// failure does not fail the login; the client can retry via /me/session.
	state, err := h.gameService.StartSession(c.Request.Context(), user)
	if err != nil {
		h.logger.Error("Failed to start session after login", zap.Error(err), zap.String("userID", user.ID.String()))
	}

	loginsTotal.Inc()

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
		"session":       state,
	})
}

func (h *GameHandler) refresh(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, models.ErrorResponse{Code: models.ErrCodeBadRequest, Message: "Invalid request body: " + err.Error()})
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"access_token":  tokens.AccessToken,
		"refresh_token": tokens.RefreshToken,
	})
}

func (h *GameHandler) logout(c *gin.Context) {
	userID, ok := sharedMiddleware.UserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}

	accessUUID := c.GetString("access_uuid")

	// The refresh token is optional; when provided its JTI is revoked too.
	var refreshUUID string
	var req logoutRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.RefreshToken != "" {
		claims := &models.Claims{}
		if _, _, err := jwt.NewParser().ParseUnverified(req.RefreshToken, claims); err == nil {
			refreshUUID = claims.ID
		}
	}

	if err := h.authService.Logout(c.Request.Context(), userID, accessUUID, refreshUUID); err != nil {
		handleServiceError(c, err)
		return
	}

	// Session teardown: reset progress state, clear identity, drop snapshot.
	if err := h.gameService.EndSession(c.Request.Context(), userID); err != nil {
		h.logger.Error("Failed to end session during logout", zap.Error(err), zap.String("userID", userID.String()))
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

func (h *GameHandler) me(c *gin.Context) {
	userID, ok := sharedMiddleware.UserIDFromGinContext(c)
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Unauthorized"})
		return
	}

	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.IdentityOf(user))
}
