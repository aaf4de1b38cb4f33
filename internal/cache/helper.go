package cache

import (
	"context"
	"time"

	"devconnector/internal/observability"

	"github.com/redis/go-redis/v9"
)

// GetString fetches key from Redis. Returns (value, true) on a hit and
// ("", false) on a miss, a nil client, or any Redis error.
func GetString(ctx context.Context, rdb *redis.Client, key string) (string, bool) {
	if rdb == nil {
		return "", false
	}
	s, err := rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", false
	}
	if err != nil {
		observability.RedisErrors.WithLabelValues("get").Inc()
		return "", false
	}
	return s, true
}

// SetString stores key with a TTL, best-effort.
func SetString(ctx context.Context, rdb *redis.Client, key, value string, ttl time.Duration) {
	if rdb == nil {
		return
	}
	if err := rdb.Set(ctx, key, value, ttl).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("set").Inc()
	}
}
