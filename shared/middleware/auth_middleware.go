package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"moral-village-server/shared/models"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TokenChecker verifies that a token UUID (JTI) is still tracked, i.e. not
// revoked by logout. Wired to the Redis token repository.
type TokenChecker func(c *gin.Context, tokenUUID string) (uuid.UUID, error)

// JWTAuthMiddleware is the navigation guard for protected routes: it renders
// protected content iff a valid identity is present, otherwise the request
// is rejected with 401 and the client is expected to return to the auth
// entry point. Stateless, re-evaluated on every request.
func JWTAuthMiddleware(secretKey string, checkToken TokenChecker, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := logger.With(zap.String("path", c.Request.URL.Path))

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			log.Warn("Authorization header missing")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Missing token"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			log.Warn("Malformed Authorization header")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Malformed token header"})
			return
		}
		tokenString := parts[1]

		claims := &models.Claims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(secretKey), nil
		})
		if err != nil || !token.Valid {
			status := http.StatusUnauthorized
			resp := models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid"}
			if err != nil && errors.Is(err, jwt.ErrTokenExpired) {
				resp = models.ErrorResponse{Code: models.ErrCodeTokenExpired, Message: "Token has expired"}
			}
			log.Warn("Token verification failed", zap.Error(err))
			c.AbortWithStatusJSON(status, resp)
			return
		}

		if claims.UserID == uuid.Nil {
			log.Warn("UserID missing in JWT claims")
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Invalid token: user id missing"})
			return
		}

		// Revocation check against the token store.
		if checkToken != nil {
			storedUserID, err := checkToken(c, claims.ID)
			if err != nil || storedUserID != claims.UserID {
				log.Warn("Token revoked or unknown", zap.String("userID", claims.UserID.String()), zap.Error(err))
				c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{Code: models.ErrCodeTokenInvalid, Message: "Token is invalid (possibly revoked)"})
				return
			}
		}

		c.Set("user_id", claims.UserID)
		c.Set("access_uuid", claims.ID)

		log.Debug("User authorized", zap.String("userID", claims.UserID.String()))
		c.Next()
	}
}

// UserIDFromGinContext extracts the authenticated user ID injected by
// JWTAuthMiddleware.
func UserIDFromGinContext(c *gin.Context) (uuid.UUID, bool) {
	val, ok := c.Get("user_id")
	if !ok {
		return uuid.Nil, false
	}
	userID, ok := val.(uuid.UUID)
	return userID, ok
}
