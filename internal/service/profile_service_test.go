package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/boost-ledger/internal/cache"
)

func newRedisProfiles(t *testing.T, f *fixture) (ProfileService, *cache.RedisProfileCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	c := cache.NewRedisProfileCache(client, time.Minute)
	return NewProfileService(f.db, c, nil), c, mr
}

func TestProfileInvalidatedAfterClaim(t *testing.T) {
	f := newFixture(t, nil)
	profiles, c, _ := newRedisProfiles(t, f)

	// 服务在提交后调用 profiles.Invalidate
	f.claims = NewClaimService(f.db, 1, profiles)
	ctx := context.Background()

	a := f.account(t, "alice", 5)
	b := f.account(t, "bob", 0)
	postID := f.boostFor(t, a, nil)

	snap, err := profiles.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(0), snap.CreditsBalance)

	_, ok, err := c.Get(ctx, b)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = f.claims.Claim(ctx, b, postID)
	require.NoError(t, err)

	_, ok, err = c.Get(ctx, b)
	require.NoError(t, err)
	assert.False(t, ok, "claim must drop the cached snapshot")

	snap, err = profiles.Get(ctx, b)
	require.NoError(t, err)
	assert.Equal(t, int64(1), snap.CreditsBalance)
	assert.Equal(t, int64(1), snap.TotalCreditsEarned)
}

func TestProfileGetServesCachedSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	profiles, _, _ := newRedisProfiles(t, f)
	ctx := context.Background()
	a := f.account(t, "alice", 3)

	_, err := profiles.Get(ctx, a)
	require.NoError(t, err)

	// 绕过服务直接改库：缓存命中时看不到，Refresh 后可见
	require.NoError(t, f.db.Exec("UPDATE accounts SET username = ? WHERE id = ?", "renamed", a).Error)
	snap, err := profiles.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "alice", snap.Username)

	snap, err = profiles.Refresh(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, "renamed", snap.Username)

	_, err = profiles.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestProfileFallsBackWhenRedisDown(t *testing.T) {
	f := newFixture(t, nil)
	profiles, _, mr := newRedisProfiles(t, f)
	ctx := context.Background()
	a := f.account(t, "alice", 3)

	mr.Close()
	snap, err := profiles.Get(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.CreditsBalance)
}

func TestLeaderboard(t *testing.T) {
	f := newFixture(t, nil)
	profiles, _, _ := newRedisProfiles(t, f)
	f.claims = NewClaimService(f.db, 1, profiles)
	ctx := context.Background()

	owner := f.account(t, "owner", 10)
	p1 := f.boostFor(t, owner, nil)
	p2 := f.boostFor(t, owner, nil)
	top := f.account(t, "top", 0)
	mid := f.account(t, "mid", 0)

	for _, p := range []string{p1, p2} {
		_, err := f.claims.Claim(ctx, top, p)
		require.NoError(t, err)
	}
	_, err := f.claims.Claim(ctx, mid, p1)
	require.NoError(t, err)

	rows, err := profiles.Leaderboard(ctx, 2)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, top, rows[0].ID)
	assert.Equal(t, mid, rows[1].ID)

	// 新的领取让排行榜缓存失效
	_, err = f.claims.Claim(ctx, mid, p2)
	require.NoError(t, err)
	third := f.account(t, "third", 0)
	_, err = f.claims.Claim(ctx, third, p1)
	require.NoError(t, err)

	rows, err = profiles.Leaderboard(ctx, 0)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, int64(2), rows[0].TotalCreditsEarned)
	assert.Equal(t, int64(2), rows[1].TotalCreditsEarned)
	assert.Equal(t, third, rows[2].ID)
}

// racingCache 在回填前插入一次失效，模拟读库期间有领取提交
type racingCache struct {
	*cache.RedisProfileCache
	raced bool
}

func (c *racingCache) Set(ctx context.Context, snap cache.ProfileSnapshot, version int64) (bool, error) {
	if !c.raced {
		c.raced = true
		if err := c.RedisProfileCache.Delete(ctx, snap.ID); err != nil {
			return false, err
		}
	}
	return c.RedisProfileCache.Set(ctx, snap, version)
}

func TestProfileRefreshDoesNotResurrectStaleSnapshot(t *testing.T) {
	f := newFixture(t, nil)
	_, rc, _ := newRedisProfiles(t, f)
	rac := &racingCache{RedisProfileCache: rc}
	profiles := NewProfileService(f.db, rac, nil)
	ctx := context.Background()
	a := f.account(t, "alice", 3)

	snap, err := profiles.Refresh(ctx, a)
	require.NoError(t, err)
	assert.Equal(t, int64(3), snap.CreditsBalance)
	require.True(t, rac.raced)

	_, ok, err := rc.Get(ctx, a)
	require.NoError(t, err)
	assert.False(t, ok, "snapshot read before the invalidation must not be cached")

	// 下一次读取正常回填
	_, err = profiles.Get(ctx, a)
	require.NoError(t, err)
	_, ok, err = rc.Get(ctx, a)
	require.NoError(t, err)
	assert.True(t, ok)
}
