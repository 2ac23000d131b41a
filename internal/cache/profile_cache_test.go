package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisProfileCache(client, time.Minute), mr
}

func TestProfileCacheRoundTrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	_, ok, err := c.Get(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)

	stored, err := c.Set(ctx, ProfileSnapshot{ID: "a1", Username: "alice", CreditsBalance: 7, TotalCreditsEarned: 12}, 0)
	require.NoError(t, err)
	require.True(t, stored)

	snap, ok, err := c.Get(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(7), snap.CreditsBalance)
	assert.Equal(t, int64(12), snap.TotalCreditsEarned)

	require.NoError(t, c.Delete(ctx, "a1"))
	_, ok, err = c.Get(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)

	hits, misses := c.Counters()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(2), misses)
}

func TestProfileCacheTTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	_, err := c.Set(ctx, ProfileSnapshot{ID: "a1"}, 0)
	require.NoError(t, err)
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("profile:a1", "{not json"))

	_, ok, err := c.Get(context.Background(), "a1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProfileCacheSetRejectsStaleVersion(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	v, err := c.Version(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), v)

	// 读库之后、回填之前发生了一次失效
	require.NoError(t, c.Delete(ctx, "a1"))
	stored, err := c.Set(ctx, ProfileSnapshot{ID: "a1", CreditsBalance: 1}, v)
	require.NoError(t, err)
	assert.False(t, stored)
	_, ok, err := c.Get(ctx, "a1")
	require.NoError(t, err)
	assert.False(t, ok)

	v, err = c.Version(ctx, "a1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), v)
	stored, err = c.Set(ctx, ProfileSnapshot{ID: "a1", CreditsBalance: 2}, v)
	require.NoError(t, err)
	assert.True(t, stored)

	snap, ok, err := c.Get(ctx, "a1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(2), snap.CreditsBalance)
}

func TestLeaderboardInvalidation(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	rows := []ProfileSnapshot{{ID: "a1", TotalCreditsEarned: 9}, {ID: "a2", TotalCreditsEarned: 4}}
	require.NoError(t, c.SetLeaderboard(ctx, 20, rows))

	got, ok, err := c.GetLeaderboard(ctx, 20)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, rows[0].ID, got[0].ID)

	_, ok, err = c.GetLeaderboard(ctx, 10)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.InvalidateLeaderboard(ctx))
	_, ok, err = c.GetLeaderboard(ctx, 20)
	require.NoError(t, err)
	assert.False(t, ok)
}
