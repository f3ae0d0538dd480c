package interfaces

import (
	"context"

	"moral-village-server/shared/models"

	"github.com/google/uuid"
)

// TokenRepository tracks issued access/refresh token pairs so they can be
// revoked on logout.
type TokenRepository interface {
	SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error
	// GetUserID resolves a token UUID to the owning user, or
	// models.ErrTokenNotFound when the token was revoked or expired.
	GetUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error)
	DeleteTokens(ctx context.Context, userID uuid.UUID, tokenUUIDs ...string) (int64, error)
}
