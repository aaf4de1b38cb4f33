package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestGetSetString(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	ctx := context.Background()

	_, ok := GetString(ctx, rdb, "missing")
	assert.False(t, ok)

	SetString(ctx, rdb, "k", "v", time.Minute)
	got, ok := GetString(ctx, rdb, "k")
	assert.True(t, ok)
	assert.Equal(t, "v", got)

	// TTL is honored.
	mr.FastForward(2 * time.Minute)
	_, ok = GetString(ctx, rdb, "k")
	assert.False(t, ok)
}

func TestHelpersTolerateNilClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	_, ok := GetString(ctx, nil, "k")
	assert.False(t, ok)
	SetString(ctx, nil, "k", "v", time.Minute) // must not panic
}

func TestConnect_Unreachable(t *testing.T) {
	t.Parallel()
	assert.Nil(t, Connect("127.0.0.1:1"))
}

func TestConnect_Reachable(t *testing.T) {
	t.Parallel()

	mr := miniredis.RunT(t)
	client := Connect(mr.Addr())
	assert.NotNil(t, client)
}
