package service

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/metrics"
	"github.com/d60-Lab/boost-ledger/pkg/monitor"
)

const auditBatch = 500

// AuditReport 单个账户的对账结果
type AuditReport struct {
	AccountID     string `json:"account_id"`
	StoredBalance int64  `json:"stored_balance"`
	LedgerBalance int64  `json:"ledger_balance"`
	StoredEarned  int64  `json:"stored_earned"`
	LedgerEarned  int64  `json:"ledger_earned"`
	Drift         bool   `json:"drift"`
}

// PostAuditReport 帖子互动计数与领取记录数的对账结果
type PostAuditReport struct {
	PostID             string `json:"post_id"`
	CurrentEngagements int    `json:"current_engagements"`
	Claims             int64  `json:"claims"`
	Drift              bool   `json:"drift"`
}

// AuditSummary 全量对账汇总
type AuditSummary struct {
	Checked  int           `json:"checked"`
	Drifted  []AuditReport `json:"drifted"`
	Duration time.Duration `json:"duration"`
}

// AuditService 校验反范式余额与流水之和一致
type AuditService interface {
	AuditAccount(ctx context.Context, accountID string) (*AuditReport, error)
	AuditAll(ctx context.Context) (*AuditSummary, error)
	// AuditPost 校验 current_engagements 等于该帖子的领取记录数
	AuditPost(ctx context.Context, postID string) (*PostAuditReport, error)
	// Schedule 按 cron 表达式周期执行 AuditAll；调用方负责 Start/Stop
	Schedule(spec string) (*cron.Cron, error)
}

type auditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) AuditService { return &auditService{db: db} }

func (s *auditService) AuditAccount(ctx context.Context, accountID string) (*AuditReport, error) {
	var rep AuditReport
	// 同一事务内读取，避免余额与流水之间插入并发写入
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		balance, earned, err := r.accounts.Balance(ctx, accountID)
		if repository.IsNotFound(err) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		lBalance, lEarned, err := r.ledger.Sums(ctx, accountID)
		if err != nil {
			return err
		}
		rep = AuditReport{
			AccountID:     accountID,
			StoredBalance: balance,
			LedgerBalance: lBalance,
			StoredEarned:  earned,
			LedgerEarned:  lEarned,
			Drift:         balance != lBalance || earned != lEarned,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (s *auditService) AuditPost(ctx context.Context, postID string) (*PostAuditReport, error) {
	var rep PostAuditReport
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		post, err := r.posts.Get(ctx, postID)
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		n, err := r.claims.CountByPost(ctx, postID)
		if err != nil {
			return err
		}
		rep = PostAuditReport{
			PostID:             postID,
			CurrentEngagements: post.CurrentEngagements,
			Claims:             n,
			Drift:              int64(post.CurrentEngagements) != n,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if rep.Drift {
		monitor.Capture(fmt.Errorf("%w: post %s counter %d claims %d",
			ErrIntegrityViolation, postID, rep.CurrentEngagements, rep.Claims),
			map[string]string{"operation": "audit_post", "post": postID})
	}
	return &rep, nil
}

func (s *auditService) AuditAll(ctx context.Context) (*AuditSummary, error) {
	started := time.Now()
	accounts := repository.NewAccountRepository(s.db)
	summary := &AuditSummary{Drifted: []AuditReport{}}

	after := ""
	for {
		ids, err := accounts.ListIDs(ctx, after, auditBatch)
		if err != nil {
			return nil, err
		}
		for _, id := range ids {
			rep, err := s.AuditAccount(ctx, id)
			if err != nil {
				return nil, err
			}
			summary.Checked++
			if rep.Drift {
				summary.Drifted = append(summary.Drifted, *rep)
				monitor.Capture(fmt.Errorf("%w: account %s stored %d/%d ledger %d/%d",
					ErrIntegrityViolation, id, rep.StoredBalance, rep.StoredEarned, rep.LedgerBalance, rep.LedgerEarned),
					map[string]string{"operation": "audit", "account": id})
			}
		}
		if len(ids) < auditBatch {
			break
		}
		after = ids[len(ids)-1]
	}

	summary.Duration = time.Since(started)
	metrics.AuditDrift(len(summary.Drifted))
	outcome := "ok"
	if len(summary.Drifted) > 0 {
		outcome = "drift"
	}
	metrics.Observe("audit", outcome, started)
	logger.Info("ledger audit finished",
		zap.Int("checked", summary.Checked),
		zap.Int("drifted", len(summary.Drifted)),
		zap.Duration("duration", summary.Duration))
	return summary, nil
}

func (s *auditService) Schedule(spec string) (*cron.Cron, error) {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
		defer cancel()
		if _, err := s.AuditAll(ctx); err != nil {
			logger.Error("scheduled audit failed", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("audit schedule %q: %w", spec, err)
	}
	return c, nil
}
