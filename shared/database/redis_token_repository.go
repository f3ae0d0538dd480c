package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moral-village-server/shared/interfaces"
	"moral-village-server/shared/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Compile-time check to ensure redisTokenRepository implements TokenRepository
var _ interfaces.TokenRepository = (*redisTokenRepository)(nil)

type redisTokenRepository struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisTokenRepository creates a new Redis-backed TokenRepository.
func NewRedisTokenRepository(client *redis.Client, logger *zap.Logger) interfaces.TokenRepository {
	return &redisTokenRepository{
		client: client,
		logger: logger.Named("RedisTokenRepo"),
	}
}

func tokenKey(tokenUUID string) string {
	return fmt.Sprintf("token_uuid:%s", tokenUUID)
}

func userTokenSetKey(userID uuid.UUID) string {
	return fmt.Sprintf("user_tokens:%s", userID.String())
}

// SetToken stores both token UUIDs with their TTLs and indexes them under a
// per-user set so a full revocation can find them.
func (r *redisTokenRepository) SetToken(ctx context.Context, userID uuid.UUID, td *models.TokenDetails) error {
	now := time.Now()
	accessTTL := time.Unix(td.AtExpires, 0).Sub(now)
	refreshTTL := time.Unix(td.RtExpires, 0).Sub(now)
	userIDStr := userID.String()

	pipe := r.client.Pipeline()
	pipe.Set(ctx, tokenKey(td.AccessUUID), userIDStr, accessTTL)
	pipe.Set(ctx, tokenKey(td.RefreshUUID), userIDStr, refreshTTL)
	pipe.SAdd(ctx, userTokenSetKey(userID), td.AccessUUID, td.RefreshUUID)

	r.logger.Debug("Setting tokens in Redis",
		zap.String("userID", userIDStr),
		zap.Duration("accessTTL", accessTTL),
		zap.Duration("refreshTTL", refreshTTL),
	)

	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to set token details in redis", zap.Error(err), zap.String("userID", userIDStr))
		return fmt.Errorf("failed to set token details in redis: %w", err)
	}
	return nil
}

// GetUserID resolves a token UUID to its owning user.
func (r *redisTokenRepository) GetUserID(ctx context.Context, tokenUUID string) (uuid.UUID, error) {
	val, err := r.client.Get(ctx, tokenKey(tokenUUID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Debug("Token not found in redis", zap.String("tokenUUID", tokenUUID))
			return uuid.Nil, models.ErrTokenNotFound
		}
		r.logger.Error("Failed to get token from redis", zap.Error(err), zap.String("tokenUUID", tokenUUID))
		return uuid.Nil, fmt.Errorf("failed to get token from redis: %w", err)
	}

	userID, err := uuid.Parse(val)
	if err != nil {
		r.logger.Error("Token maps to a malformed user id", zap.Error(err), zap.String("tokenUUID", tokenUUID))
		return uuid.Nil, fmt.Errorf("token maps to malformed user id: %w", err)
	}
	return userID, nil
}

// DeleteTokens removes the given token UUIDs and unindexes them from the
// user's set. Returns the number of token keys actually deleted.
func (r *redisTokenRepository) DeleteTokens(ctx context.Context, userID uuid.UUID, tokenUUIDs ...string) (int64, error) {
	if len(tokenUUIDs) == 0 {
		return 0, nil
	}

	keys := make([]string, 0, len(tokenUUIDs))
	members := make([]interface{}, 0, len(tokenUUIDs))
	for _, tu := range tokenUUIDs {
		if tu == "" {
			continue
		}
		keys = append(keys, tokenKey(tu))
		members = append(members, tu)
	}
	if len(keys) == 0 {
		return 0, nil
	}

	pipe := r.client.Pipeline()
	delCmd := pipe.Del(ctx, keys...)
	pipe.SRem(ctx, userTokenSetKey(userID), members...)
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to delete tokens from redis", zap.Error(err), zap.String("userID", userID.String()))
		return 0, fmt.Errorf("failed to delete tokens from redis: %w", err)
	}

	deleted := delCmd.Val()
	r.logger.Debug("Deleted tokens from redis",
		zap.String("userID", userID.String()),
		zap.Int64("deleted", deleted),
	)
	return deleted, nil
}
