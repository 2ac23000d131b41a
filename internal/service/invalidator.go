package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/d60-Lab/boost-ledger/internal/cache"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

type invalidateJob struct {
	accountIDs []string
	attempt    int
	enqAt      time.Time
}

// CacheInvalidator 本地异步失效执行器：同步删除缓存失败时由它重试
type CacheInvalidator struct {
	cache       cache.ProfileCache
	ch          chan invalidateJob
	metricsCh   chan time.Duration
	maxAttempts int
	backoff     time.Duration
}

func NewCacheInvalidator(c cache.ProfileCache, queueSize int) *CacheInvalidator {
	if queueSize <= 0 {
		queueSize = 10000
	}
	return &CacheInvalidator{
		cache:       c,
		ch:          make(chan invalidateJob, queueSize),
		metricsCh:   make(chan time.Duration, 1024),
		maxAttempts: 5,
		backoff:     100 * time.Millisecond,
	}
}

// Start 启动 workers，返回的函数用于停止：workers 把已入队的任务各执行一次后退出
func (r *CacheInvalidator) Start(workers int) func(context.Context) error {
	if workers <= 0 {
		workers = 2
	}
	stopCh := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case job := <-r.ch:
					r.run(job, stopCh)
				case <-stopCh:
					r.drain(stopCh)
					return
				}
			}
		}()
	}
	return func(ctx context.Context) error {
		close(stopCh)
		done := make(chan struct{})
		go func() {
			wg.Wait()
			close(done)
		}()
		select {
		case <-done:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// drain 停止后不再阻塞等待新任务，只清空队列中剩余的任务
func (r *CacheInvalidator) drain(stopCh <-chan struct{}) {
	for {
		select {
		case job := <-r.ch:
			r.run(job, stopCh)
		default:
			return
		}
	}
}

func (r *CacheInvalidator) run(job invalidateJob, stopCh <-chan struct{}) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	err := r.cache.Delete(ctx, job.accountIDs...)
	if err == nil {
		err = r.cache.InvalidateLeaderboard(ctx)
	}
	cancel()

	if err == nil {
		select {
		case r.metricsCh <- time.Since(job.enqAt):
		default:
		}
		return
	}

	job.attempt++
	if job.attempt >= r.maxAttempts {
		logger.Error("profile invalidation abandoned", zap.Strings("accounts", job.accountIDs), zap.Int("attempts", job.attempt), zap.Error(err))
		return
	}
	select {
	case <-time.After(r.backoff * time.Duration(job.attempt)):
	case <-stopCh:
		logger.Warn("profile invalidation dropped on shutdown", zap.Strings("accounts", job.accountIDs), zap.Error(err))
		return
	}
	r.enqueue(job)
}

// Enqueue 投递失效任务；队列满时丢弃并告警，快照会在 TTL 后过期
func (r *CacheInvalidator) Enqueue(accountIDs ...string) {
	if len(accountIDs) == 0 {
		return
	}
	r.enqueue(invalidateJob{accountIDs: accountIDs, enqAt: time.Now()})
}

func (r *CacheInvalidator) enqueue(job invalidateJob) {
	select {
	case r.ch <- job:
	default:
		logger.Warn("invalidator queue full, drop", zap.Strings("accounts", job.accountIDs))
	}
}

// Metrics 返回失效落地耗时（从入队起算）的只读通道
func (r *CacheInvalidator) Metrics() <-chan time.Duration { return r.metricsCh }

// QueueLen 返回当前队列长度（采样值）
func (r *CacheInvalidator) QueueLen() int { return len(r.ch) }
