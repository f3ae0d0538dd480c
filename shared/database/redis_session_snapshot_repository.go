package database

import (
	"context"
	"errors"
	"fmt"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure implementation satisfies the interface.
var _ interfaces.SessionSnapshotRepository = (*redisSessionSnapshotRepository)(nil)

// Fixed namespaced key; one record per user, overwritten wholesale on every
// persisted mutation.
const sessionSnapshotKeyPrefix = "moralvillage:session:"

type redisSessionSnapshotRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisSessionSnapshotRepository creates a Redis-backed store for
// write-through session snapshots.
func NewRedisSessionSnapshotRepository(client *redis.Client, logger *zap.Logger) interfaces.SessionSnapshotRepository {
	return &redisSessionSnapshotRepository{
		client: client,
		logger: logger.Named("RedisSessionSnapshotRepo"),
	}
}

func snapshotKey(userID uuid.UUID) string {
	return sessionSnapshotKeyPrefix + userID.String()
}

// SaveSnapshot overwrites the user's snapshot. No TTL: the snapshot lives
// until logout or reset deletes it.
func (r *redisSessionSnapshotRepository) SaveSnapshot(ctx context.Context, userID uuid.UUID, snapshot []byte) error {
	if err := r.client.Set(ctx, snapshotKey(userID), snapshot, 0).Err(); err != nil {
		r.logger.Error("Failed to save session snapshot", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot returns the stored snapshot bytes.
func (r *redisSessionSnapshotRepository) LoadSnapshot(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	data, err := r.client.Get(ctx, snapshotKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, models.ErrSessionSnapshotAbsent
		}
		r.logger.Error("Failed to load session snapshot", zap.Error(err), zap.String("userID", userID.String()))
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	return data, nil
}

// DeleteSnapshot removes the user's snapshot. Deleting a missing snapshot is
// not an error.
func (r *redisSessionSnapshotRepository) DeleteSnapshot(ctx context.Context, userID uuid.UUID) error {
	if err := r.client.Del(ctx, snapshotKey(userID)).Err(); err != nil {
		r.logger.Error("Failed to delete session snapshot", zap.Error(err), zap.String("userID", userID.String()))
		return fmt.Errorf("failed to delete session snapshot: %w", err)
	}
	return nil
}
