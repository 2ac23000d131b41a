package service

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/cache"
	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

const (
	DefaultLeaderboardLimit = 20
	maxLeaderboardLimit     = 100
)

// ProfileService 资料聚合：余额、累计获得、handle；读穿透缓存，数据库为准
type ProfileService interface {
	Get(ctx context.Context, accountID string) (*cache.ProfileSnapshot, error)
	// Refresh 绕过缓存从数据库重新读取并回填
	Refresh(ctx context.Context, accountID string) (*cache.ProfileSnapshot, error)
	Leaderboard(ctx context.Context, limit int) ([]cache.ProfileSnapshot, error)
	Invalidate(ctx context.Context, accountIDs ...string)
}

type profileService struct {
	accounts repository.AccountRepository
	cache    cache.ProfileCache
	async    *CacheInvalidator
	now      func() time.Time
}

// NewProfileService c 为空时不缓存；async 为空时失效失败只记录日志
func NewProfileService(db *gorm.DB, c cache.ProfileCache, async *CacheInvalidator) ProfileService {
	if c == nil {
		c = cache.NopProfileCache{}
	}
	return &profileService{accounts: repository.NewAccountRepository(db), cache: c, async: async, now: time.Now}
}

func snapshotOf(a *model.Account, at time.Time) cache.ProfileSnapshot {
	snap := cache.ProfileSnapshot{
		ID:                 a.ID,
		Username:           a.Username,
		Role:               a.Role,
		Active:             a.Active,
		CreditsBalance:     a.CreditsBalance,
		TotalCreditsEarned: a.TotalCreditsEarned,
		RefreshedAt:        at,
	}
	if a.XHandle != nil {
		snap.XHandle = *a.XHandle
	}
	return snap
}

func (s *profileService) Get(ctx context.Context, accountID string) (*cache.ProfileSnapshot, error) {
	snap, ok, err := s.cache.Get(ctx, accountID)
	if err != nil {
		// 缓存不可用时退化为直接读库
		logger.Warn("profile cache read failed", zap.String("account", accountID), zap.Error(err))
	}
	if ok {
		return snap, nil
	}
	return s.Refresh(ctx, accountID)
}

// Refresh 先读缓存版本再读库；读库期间若发生失效，旧快照不会写回
func (s *profileService) Refresh(ctx context.Context, accountID string) (*cache.ProfileSnapshot, error) {
	version, verErr := s.cache.Version(ctx, accountID)
	acct, err := s.accounts.Get(ctx, accountID)
	if repository.IsNotFound(err) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	snap := snapshotOf(acct, s.now())
	if verErr != nil {
		logger.Warn("profile cache version read failed", zap.String("account", accountID), zap.Error(verErr))
		return &snap, nil
	}
	stored, err := s.cache.Set(ctx, snap, version)
	if err != nil {
		logger.Warn("profile cache write failed", zap.String("account", accountID), zap.Error(err))
	} else if !stored {
		logger.Debug("profile snapshot superseded", zap.String("account", accountID))
	}
	return &snap, nil
}

func (s *profileService) Leaderboard(ctx context.Context, limit int) ([]cache.ProfileSnapshot, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	rows, ok, err := s.cache.GetLeaderboard(ctx, limit)
	if err != nil {
		logger.Warn("leaderboard cache read failed", zap.Error(err))
	}
	if ok {
		return rows, nil
	}

	accounts, err := s.accounts.Leaderboard(ctx, limit)
	if err != nil {
		return nil, err
	}
	now := s.now()
	rows = make([]cache.ProfileSnapshot, len(accounts))
	for i, a := range accounts {
		rows[i] = snapshotOf(a, now)
	}
	if err := s.cache.SetLeaderboard(ctx, limit, rows); err != nil {
		logger.Warn("leaderboard cache write failed", zap.Error(err))
	}
	return rows, nil
}

// Invalidate 提交后同步删除快照与排行榜；失败交给异步执行器重试
func (s *profileService) Invalidate(ctx context.Context, accountIDs ...string) {
	if len(accountIDs) == 0 {
		return
	}
	err := s.cache.Delete(ctx, accountIDs...)
	if err == nil {
		err = s.cache.InvalidateLeaderboard(ctx)
	}
	if err == nil {
		return
	}
	if s.async == nil {
		logger.Warn("profile invalidation failed", zap.Strings("accounts", accountIDs), zap.Error(err))
		return
	}
	s.async.Enqueue(accountIDs...)
}
