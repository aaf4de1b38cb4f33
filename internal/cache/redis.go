// Package cache wraps the Redis client used for response caching and rate
// limiting. Redis is optional: every helper tolerates a nil client, so the
// API keeps working (uncached, unlimited) when Redis is down.
package cache

import (
	"context"
	"log/slog"
	"time"

	"devconnector/internal/observability"

	"github.com/redis/go-redis/v9"
)

// Connect dials Redis at addr and verifies the connection. It returns nil
// when Redis is unreachable rather than failing startup.
func Connect(addr string) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		observability.Logger.Warn("Redis unavailable, continuing without cache",
			slog.String("addr", addr),
			slog.String("error", err.Error()),
		)
		return nil
	}

	observability.Logger.Info("Redis connected successfully", slog.String("addr", addr))
	return client
}
