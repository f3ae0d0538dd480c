package service

import (
	"context"

	"moral-village-server/shared/models"

	"github.com/google/uuid"
)

// AuthService plays the role of the external auth provider: accounts,
// credentials and token pairs.
type AuthService interface {
	Register(ctx context.Context, email, password string) (*models.User, error)
	Login(ctx context.Context, email, password string) (*models.User, *models.TokenDetails, error)
	Logout(ctx context.Context, userID uuid.UUID, accessUUID, refreshUUID string) error
	Refresh(ctx context.Context, refreshToken string) (*models.TokenDetails, error)
	GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error)
}
