package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/database"
)

const testCost = 5

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// stepClock 每次调用前进一毫秒，保证按时间排序的断言稳定
type stepClock struct {
	mu  sync.Mutex
	cur time.Time
}

func newStepClock() *stepClock {
	return &stepClock{cur: time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cur = c.cur.Add(time.Millisecond)
	return c.cur
}

type fixture struct {
	db       *gorm.DB
	clock    *stepClock
	claims   ClaimService
	boosts   BoostService
	bonuses  BonusService
	posts    PostService
	accounts AccountService
	audit    AuditService
	tweets   atomic.Int64
}

func newFixture(t *testing.T, profiles Invalidator) *fixture {
	t.Helper()
	db := newTestDB(t)
	clock := newStepClock()

	cs := NewClaimService(db, 1, profiles).(*claimService)
	cs.now = clock.Now
	bs := NewBoostService(db, testCost, 0, profiles).(*boostService)
	bs.now = clock.Now
	bn := NewBonusService(db, 10, profiles).(*bonusService)
	bn.now = clock.Now

	return &fixture{
		db:       db,
		clock:    clock,
		claims:   cs,
		boosts:   bs,
		bonuses:  bn,
		posts:    NewPostService(db),
		accounts: NewAccountService(db, profiles),
		audit:    NewAuditService(db),
	}
}

// account 创建账户并通过一条 refund 流水注入初始余额，保持余额与流水一致
func (f *fixture) account(t *testing.T, name string, balance int64) string {
	t.Helper()
	ctx := context.Background()
	id := uuid.New().String()
	_, err := f.accounts.EnsureAccount(ctx, id, name)
	require.NoError(t, err)
	if balance > 0 {
		require.NoError(t, repository.NewLedgerRepository(f.db).Append(ctx, &model.LedgerEntry{
			ID:        uuid.New().String(),
			AccountID: id,
			Amount:    balance,
			Kind:      model.KindRefund,
			CreatedAt: f.clock.Now(),
		}))
		ok, err := repository.NewAccountRepository(f.db).Credit(ctx, id, balance, false)
		require.NoError(t, err)
		require.True(t, ok)
	}
	return id
}

func (f *fixture) balance(t *testing.T, id string) (int64, int64) {
	t.Helper()
	b, e, err := repository.NewAccountRepository(f.db).Balance(context.Background(), id)
	require.NoError(t, err)
	return b, e
}

func (f *fixture) post(t *testing.T, id string) *model.Post {
	t.Helper()
	p, err := f.posts.Get(context.Background(), id)
	require.NoError(t, err)
	return p
}

func (f *fixture) count(t *testing.T, m interface{}, query string, args ...interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

// boostFor 给 owner 注资并发布一个帖子
func (f *fixture) boostFor(t *testing.T, owner string, target *int) string {
	t.Helper()
	res, err := f.boosts.Boost(context.Background(), BoostRequest{
		AccountID:         owner,
		ExternalRef:       fmt.Sprintf("https://x.com/someone/status/%d", f.tweets.Add(1)+1800000000000000000),
		TargetEngagements: target,
	})
	require.NoError(t, err)
	return res.PostID
}

func intPtr(v int) *int       { return &v }
func int64Ptr(v int64) *int64 { return &v }

// recordingInvalidator 记录失效调用
type recordingInvalidator struct {
	mu  sync.Mutex
	ids []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, ids ...string) {
	r.mu.Lock()
	r.ids = append(r.ids, ids...)
	r.mu.Unlock()
}

func (r *recordingInvalidator) seen() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}
