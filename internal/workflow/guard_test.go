package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stemsi/school-registry/internal/config"
	"github.com/stemsi/school-registry/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	ctx := context.Background()
	g := workflow.NewMemoryGuard()

	ok, err := g.Acquire(ctx, "a")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, _ = g.Acquire(ctx, "a")
	assert.False(t, ok)

	ok, _ = g.Acquire(ctx, "b")
	assert.True(t, ok)

	require.NoError(t, g.Release(ctx, "a"))
	ok, _ = g.Acquire(ctx, "a")
	assert.True(t, ok)
}

func TestRedisGuard(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	key := config.CacheKey.SubmissionLockKey("form-1")
	g := workflow.NewRedisGuard(rdb, time.Minute)

	ok, err := g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.True(t, mr.Exists(key))
	assert.Equal(t, time.Minute, mr.TTL(key))

	ok, err = g.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, g.Release(ctx, key))
	assert.False(t, mr.Exists(key))
}

func TestRedisGuardExpiresStaleFlag(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	g := workflow.NewRedisGuard(rdb, 30*time.Second)

	ok, _ := g.Acquire(ctx, "k")
	require.True(t, ok)

	mr.FastForward(31 * time.Second)

	ok, err := g.Acquire(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
}
