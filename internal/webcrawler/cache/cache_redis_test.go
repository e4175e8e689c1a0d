package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestStorage(t *testing.T) (*RedisStorage, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewRedisStorage(client, zap.NewNop().Sugar()), mr
}

func TestRedisStorageRoundtrip(t *testing.T) {
	storage, _ := newTestStorage(t)

	require.NoError(t, storage.Set("https://example.com/page", "cached links", BaseTTL))

	val, err := storage.Get("https://example.com/page")
	require.NoError(t, err)
	assert.Equal(t, "cached links", val)
}

func TestRedisStorageMiss(t *testing.T) {
	storage, _ := newTestStorage(t)

	_, err := storage.Get("https://example.com/unseen")

	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStorageHonorsTTL(t *testing.T) {
	storage, mr := newTestStorage(t)

	require.NoError(t, storage.Set("key", "value", time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := storage.Get("key")
	require.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisStorageStop(t *testing.T) {
	storage, _ := newTestStorage(t)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	require.NoError(t, storage.Stop(ctx))
}
