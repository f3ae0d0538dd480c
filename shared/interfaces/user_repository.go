package interfaces

import (
	"context"

	"moral-village-server/shared/models"

	"github.com/google/uuid"
)

// UserRepository provides access to user accounts.
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}
