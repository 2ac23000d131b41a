package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/boost-ledger/internal/cache"
)

// flakyCache 前 failures 次删除失败
type flakyCache struct {
	cache.NopProfileCache
	mu       sync.Mutex
	failures int
	deleted  [][]string
}

func (c *flakyCache) Delete(_ context.Context, ids ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.failures > 0 {
		c.failures--
		return errors.New("redis unavailable")
	}
	c.deleted = append(c.deleted, ids)
	return nil
}

func (c *flakyCache) deletes() [][]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([][]string(nil), c.deleted...)
}

func TestInvalidatorRetriesUntilDeleted(t *testing.T) {
	fc := &flakyCache{failures: 2}
	inv := NewCacheInvalidator(fc, 16)
	inv.backoff = time.Millisecond
	stop := inv.Start(1)
	defer func() { _ = stop(context.Background()) }()

	inv.Enqueue("a1", "a2")

	require.Eventually(t, func() bool { return len(fc.deletes()) == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"a1", "a2"}, fc.deletes()[0])

	select {
	case d := <-inv.Metrics():
		assert.Greater(t, d, time.Duration(0))
	case <-time.After(time.Second):
		t.Fatal("no latency sample")
	}
}

func TestInvalidatorGivesUp(t *testing.T) {
	fc := &flakyCache{failures: 100}
	inv := NewCacheInvalidator(fc, 16)
	inv.backoff = time.Millisecond
	inv.maxAttempts = 3
	stop := inv.Start(1)

	inv.Enqueue("a1")
	require.Eventually(t, func() bool {
		fc.mu.Lock()
		defer fc.mu.Unlock()
		return fc.failures == 97
	}, time.Second, 5*time.Millisecond)
	require.NoError(t, stop(context.Background()))
	assert.Empty(t, fc.deletes())
	assert.Equal(t, 0, inv.QueueLen())
}

func TestInvalidatorDropsWhenFull(t *testing.T) {
	inv := NewCacheInvalidator(cache.NopProfileCache{}, 1)
	inv.Enqueue("a1")
	inv.Enqueue("a2")
	assert.Equal(t, 1, inv.QueueLen())
	inv.Enqueue()
	assert.Equal(t, 1, inv.QueueLen())
}

func TestProfileInvalidateFallsBackToAsync(t *testing.T) {
	fc := &flakyCache{failures: 1}
	inv := NewCacheInvalidator(fc, 16)
	f := newFixture(t, nil)
	profiles := NewProfileService(f.db, fc, inv)

	profiles.Invalidate(context.Background(), "a1")
	assert.Equal(t, 1, inv.QueueLen())

	stop := inv.Start(1)
	defer func() { _ = stop(context.Background()) }()
	require.Eventually(t, func() bool { return len(fc.deletes()) == 1 }, time.Second, 5*time.Millisecond)
}

func TestInvalidatorStopDrainsQueuedJobs(t *testing.T) {
	fc := &flakyCache{}
	inv := NewCacheInvalidator(fc, 64)
	for i := 0; i < 50; i++ {
		inv.Enqueue(fmt.Sprintf("a%d", i))
	}

	stop := inv.Start(2)
	require.NoError(t, stop(context.Background()))
	assert.Len(t, fc.deletes(), 50)
	assert.Equal(t, 0, inv.QueueLen())
}

func TestInvalidatorStopHonorsContext(t *testing.T) {
	inv := NewCacheInvalidator(&blockingCache{release: make(chan struct{})}, 4)
	inv.Enqueue("a1")
	stop := inv.Start(1)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, stop(ctx), context.DeadlineExceeded)
	close(inv.cache.(*blockingCache).release)
}

// blockingCache 删除阻塞到 release 关闭
type blockingCache struct {
	cache.NopProfileCache
	release chan struct{}
}

func (c *blockingCache) Delete(ctx context.Context, _ ...string) error {
	select {
	case <-c.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
