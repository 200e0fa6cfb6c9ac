package identity

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"marketplace/internal/domain"
)

const accountKeyPrefix = "account:"

// RedisAccountCache stores accounts as JSON. Redis failures degrade to cache
// misses.
type RedisAccountCache struct {
	client redis.Cmdable
	ttl    time.Duration
	logger *slog.Logger
}

func NewRedisAccountCache(client redis.Cmdable, ttl time.Duration, logger *slog.Logger) *RedisAccountCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisAccountCache{client: client, ttl: ttl, logger: logger}
}

func (c *RedisAccountCache) Get(ctx context.Context, id string) (*domain.Account, bool) {
	raw, err := c.client.Get(ctx, accountKeyPrefix+id).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.logger.Warn("account cache read failed", "account_id", id, "error", err)
		}
		return nil, false
	}

	var acc domain.Account
	if err := json.Unmarshal(raw, &acc); err != nil {
		c.logger.Warn("account cache entry corrupt", "account_id", id, "error", err)
		return nil, false
	}
	return &acc, true
}

func (c *RedisAccountCache) Set(ctx context.Context, a *domain.Account) {
	raw, err := json.Marshal(a)
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, accountKeyPrefix+a.ID, raw, c.ttl).Err(); err != nil {
		c.logger.Warn("account cache write failed", "account_id", a.ID, "error", err)
	}
}
