package backend

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memoryCache is a Cache for tests that do not need redis semantics.
type memoryCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: make(map[string][]byte)}
}

func (m *memoryCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memoryCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func newTestRedisCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewRedisCacheFromClient(client), mr
}

func TestRedisCacheRoundTrip(t *testing.T) {
	cache, _ := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Ping(ctx))

	_, ok, err := cache.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "k", []byte(`{"coins":5}`), time.Minute))
	v, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"coins":5}`, string(v))

	require.NoError(t, cache.Delete(ctx, "k"))
	_, ok, err = cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCacheExpires(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "k", []byte("v"), 2*time.Second))
	mr.FastForward(3 * time.Second)

	_, ok, err := cache.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestInvalidateRemovesSnapshotKeys(t *testing.T) {
	cache, mr := newTestRedisCache(t)
	ctx := context.Background()

	for _, p := range snapshotPaths {
		require.NoError(t, cache.Set(ctx, snapshotKey(9, p), []byte("{}"), time.Minute))
	}
	require.NoError(t, cache.Set(ctx, snapshotKey(10, PathInventory), []byte("[]"), time.Minute))

	c := &Client{cache: cache}
	require.NoError(t, c.Invalidate(ctx, 9))

	for _, p := range snapshotPaths {
		assert.False(t, mr.Exists(snapshotKey(9, p)))
	}
	assert.True(t, mr.Exists(snapshotKey(10, PathInventory)))
}
