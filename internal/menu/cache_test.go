package menu

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	c := NewMemoryCache(time.Minute)
	c.now = func() time.Time { return now }

	_, err := c.Get(ctx, "qr:1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	m := &Menu{Categories: sampleCategories()}
	require.NoError(t, c.Set(ctx, "qr:1", m))

	got, err := c.Get(ctx, "qr:1")
	require.NoError(t, err)
	assert.Same(t, m, got)

	now = now.Add(2 * time.Minute)
	_, err = c.Get(ctx, "qr:1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestMemoryCache_Delete(t *testing.T) {
	ctx := context.Background()
	c := NewMemoryCache(time.Minute)

	require.NoError(t, c.Set(ctx, "k", &Menu{}))
	require.NoError(t, c.Delete(ctx, "k"))

	_, err := c.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRedisCache_RoundTripAndTTL(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, 10*time.Minute)

	_, err := c.Get(ctx, "qr:t1")
	assert.ErrorIs(t, err, ErrCacheMiss)

	in := &Menu{Categories: sampleCategories()}
	require.NoError(t, c.Set(ctx, "qr:t1", in))
	assert.True(t, mr.Exists("menu:qr:t1"))

	ttl := mr.TTL("menu:qr:t1")
	assert.GreaterOrEqual(t, ttl, 10*time.Minute)
	assert.LessOrEqual(t, ttl, 12*time.Minute)

	out, err := c.Get(ctx, "qr:t1")
	require.NoError(t, err)
	assert.Equal(t, in.Categories, out.Categories)

	mr.FastForward(13 * time.Minute)
	_, err = c.Get(ctx, "qr:t1")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisCache_Delete(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, time.Minute)

	require.NoError(t, c.Set(ctx, "all", &Menu{}))
	require.NoError(t, c.Delete(ctx, "all"))
	assert.False(t, mr.Exists("menu:all"))
}

func TestRedisCache_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)
	c := NewRedisCache(client, time.Minute)

	require.NoError(t, mr.Set("menu:bad", "{not json"))
	_, err := c.Get(ctx, "bad")
	assert.Error(t, err)
	assert.NotErrorIs(t, err, ErrCacheMiss)
}

func TestCaches_NonPositiveTTLDisablesCaching(t *testing.T) {
	ctx := context.Background()
	mr, client := newTestRedis(t)

	caches := map[string]Cache{
		"memory":         NewMemoryCache(0),
		"redis":          NewRedisCache(client, 0),
		"redis-negative": NewRedisCache(client, -time.Minute),
	}
	for name, c := range caches {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, c.Set(ctx, "qr:1", &Menu{Categories: sampleCategories()}))
			_, err := c.Get(ctx, "qr:1")
			assert.ErrorIs(t, err, ErrCacheMiss)
		})
	}
	assert.False(t, mr.Exists("menu:qr:1"))
}
