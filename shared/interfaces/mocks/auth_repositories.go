package mocks

import (
	"context"

	"moral-village-server/shared/messaging"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// Mock UserRepository
type UserRepository struct {
	mock.Mock
}

func (m *UserRepository) CreateUser(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *UserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}
func (m *UserRepository) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)
	user, _ := args.Get(0).(*models.User)
	return user, args.Error(1)
}

// Mock TokenRepository
type TokenRepository struct {
	mock.Mock
}

func (m *TokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	args := m.Called(ctx, userID, td)
	return args.Error(0)
}
func (m *TokenRepository) GetUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error) {
	args := m.Called(ctx, tokenUUID)
	id, _ := args.Get(0).(uuid.UUID)
	return id, args.Error(1)
}
func (m *TokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, tokenUUIDs ...string) (int64, error) {
	callArgs := make([]interface{}, 0, len(tokenUUIDs)+2)
	callArgs = append(callArgs, ctx, userID)
	for _, u := range tokenUUIDs {
		callArgs = append(callArgs, u)
	}
	args := m.Called(callArgs...)
	return args.Get(0).(int64), args.Error(1)
}

// Mock GameEventPublisher
type GameEventPublisher struct {
	mock.Mock
}

func (m *GameEventPublisher) PublishChoiceRecorded(ctx context.Context, payload messaging.ChoiceRecordedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
func (m *GameEventPublisher) PublishStoryCompleted(ctx context.Context, payload messaging.StoryCompletedPayload) error {
	args := m.Called(ctx, payload)
	return args.Error(0)
}
