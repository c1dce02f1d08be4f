package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	appnotification "github.com/worklane/backend/internal/application/notification"
	"github.com/worklane/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const unreadCountTTL = 60 * time.Second

// RedisUnreadCache caches per-user unread notification counts in Redis.
// Every path fails open: on any Redis error the caller falls through to the
// database and the error is logged at debug level.
type RedisUnreadCache struct {
	client *redis.Client
	logger *zap.Logger
}

// NewRedisUnreadCache creates a cache backed by a new Redis client
func NewRedisUnreadCache(cfg config.RedisConfig, logger *zap.Logger) *RedisUnreadCache {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr(),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	return &RedisUnreadCache{
		client: client,
		logger: logger,
	}
}

// GetUnreadCount returns the cached count and whether it was present
func (c *RedisUnreadCache) GetUnreadCount(ctx context.Context, userID uuid.UUID) (int64, bool) {
	val, err := c.client.Get(ctx, unreadKey(userID)).Result()
	if err != nil {
		if err != redis.Nil {
			c.logger.Debug("unread cache read failed", zap.Error(err))
		}
		return 0, false
	}

	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

// SetUnreadCount stores the count with a short TTL
func (c *RedisUnreadCache) SetUnreadCount(ctx context.Context, userID uuid.UUID, count int64) {
	if err := c.client.Set(ctx, unreadKey(userID), count, unreadCountTTL).Err(); err != nil {
		c.logger.Debug("unread cache write failed", zap.Error(err))
	}
}

// Invalidate drops the cached count for one user
func (c *RedisUnreadCache) Invalidate(ctx context.Context, userID uuid.UUID) {
	if err := c.client.Del(ctx, unreadKey(userID)).Err(); err != nil {
		c.logger.Debug("unread cache invalidation failed", zap.Error(err))
	}
}

// Close releases the underlying Redis client
func (c *RedisUnreadCache) Close() error {
	return c.client.Close()
}

func unreadKey(userID uuid.UUID) string {
	return fmt.Sprintf("notifications:unread:%s", userID)
}

var _ appnotification.UnreadCache = (*RedisUnreadCache)(nil)
