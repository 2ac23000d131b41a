// Package cache holds the redis-backed profile snapshot cache.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
)

const leaderboardKey = "leaderboard"

// ProfileSnapshot is the cached, denormalized view of an account.
type ProfileSnapshot struct {
	ID                 string    `json:"id"`
	Username           string    `json:"username"`
	XHandle            string    `json:"x_handle,omitempty"`
	Role               string    `json:"role"`
	Active             bool      `json:"active"`
	CreditsBalance     int64     `json:"credits_balance"`
	TotalCreditsEarned int64     `json:"total_credits_earned"`
	RefreshedAt        time.Time `json:"refreshed_at"`
}

// ProfileCache stores profile snapshots and the leaderboard page.
type ProfileCache interface {
	Get(ctx context.Context, id string) (*ProfileSnapshot, bool, error)
	// Version is bumped by every Delete; read it before loading the row from the database.
	Version(ctx context.Context, id string) (int64, error)
	// Set stores snap only if no Delete happened since version was read.
	Set(ctx context.Context, snap ProfileSnapshot, version int64) (bool, error)
	Delete(ctx context.Context, ids ...string) error
	GetLeaderboard(ctx context.Context, limit int) ([]ProfileSnapshot, bool, error)
	SetLeaderboard(ctx context.Context, limit int, rows []ProfileSnapshot) error
	InvalidateLeaderboard(ctx context.Context) error
}

// RedisProfileCache is a read-through cache; the database stays authoritative.
type RedisProfileCache struct {
	client         *redis.Client
	ttl            time.Duration
	leaderboardTTL time.Duration

	hits   atomic.Int64
	misses atomic.Int64
}

// NewRedisProfileCache builds a cache over client. Leaderboard pages expire after a
// fraction of ttl since every earn invalidates them anyway.
func NewRedisProfileCache(client *redis.Client, ttl time.Duration) *RedisProfileCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	lb := ttl / 5
	if lb < time.Second {
		lb = time.Second
	}
	return &RedisProfileCache{client: client, ttl: ttl, leaderboardTTL: lb}
}

func profileKey(id string) string { return fmt.Sprintf("profile:%s", id) }

func versionKey(id string) string { return fmt.Sprintf("profile_ver:%s", id) }

func (c *RedisProfileCache) Get(ctx context.Context, id string) (*ProfileSnapshot, bool, error) {
	data, err := c.client.Get(ctx, profileKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var snap ProfileSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		// corrupt entry behaves as a miss
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return &snap, true, nil
}

func (c *RedisProfileCache) Version(ctx context.Context, id string) (int64, error) {
	v, err := c.client.Get(ctx, versionKey(id)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return v, err
}

func (c *RedisProfileCache) Set(ctx context.Context, snap ProfileSnapshot, version int64) (bool, error) {
	payload, err := json.Marshal(snap)
	if err != nil {
		return false, err
	}
	vk := versionKey(snap.ID)
	stored := false
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := tx.Get(ctx, vk).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if cur != version {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, profileKey(snap.ID), payload, c.ttl)
			return nil
		})
		if err == nil {
			stored = true
		}
		return err
	}, vk)
	if errors.Is(err, redis.TxFailedErr) {
		// a Delete raced the write
		return false, nil
	}
	return stored, err
}

func (c *RedisProfileCache) Delete(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = profileKey(id)
	}
	pipe := c.client.TxPipeline()
	pipe.Del(ctx, keys...)
	for _, id := range ids {
		// the version outlives any snapshot written under an older one
		pipe.Incr(ctx, versionKey(id))
		pipe.Expire(ctx, versionKey(id), 2*c.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (c *RedisProfileCache) GetLeaderboard(ctx context.Context, limit int) ([]ProfileSnapshot, bool, error) {
	data, err := c.client.HGet(ctx, leaderboardKey, strconv.Itoa(limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var rows []ProfileSnapshot
	if err := json.Unmarshal(data, &rows); err != nil {
		c.misses.Add(1)
		return nil, false, nil
	}
	c.hits.Add(1)
	return rows, true, nil
}

func (c *RedisProfileCache) SetLeaderboard(ctx context.Context, limit int, rows []ProfileSnapshot) error {
	payload, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	pipe := c.client.TxPipeline()
	pipe.HSet(ctx, leaderboardKey, strconv.Itoa(limit), payload)
	pipe.Expire(ctx, leaderboardKey, c.leaderboardTTL)
	_, err = pipe.Exec(ctx)
	return err
}

func (c *RedisProfileCache) InvalidateLeaderboard(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}

// Counters reports cache hits and misses since start.
func (c *RedisProfileCache) Counters() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

// NopProfileCache is used when redis is disabled; every read misses.
type NopProfileCache struct{}

func (NopProfileCache) Get(context.Context, string) (*ProfileSnapshot, bool, error) {
	return nil, false, nil
}
func (NopProfileCache) Version(context.Context, string) (int64, error)            { return 0, nil }
func (NopProfileCache) Set(context.Context, ProfileSnapshot, int64) (bool, error) { return false, nil }
func (NopProfileCache) Delete(context.Context, ...string) error                   { return nil }
func (NopProfileCache) InvalidateLeaderboard(context.Context) error               { return nil }
func (NopProfileCache) GetLeaderboard(context.Context, int) ([]ProfileSnapshot, bool, error) {
	return nil, false, nil
}
func (NopProfileCache) SetLeaderboard(context.Context, int, []ProfileSnapshot) error { return nil }
