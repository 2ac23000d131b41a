package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/metrics"
)

// BoostRequest 推广请求；CostOverride 与 TargetEngagements 为空时使用配置值
type BoostRequest struct {
	AccountID         string
	ExternalRef       string
	CostOverride      *int64
	TargetEngagements *int
	Type              model.PostType
}

// BoostResult 推广结果
type BoostResult struct {
	PostID     string `json:"post_id"`
	TweetID    string `json:"tweet_id"`
	Cost       int64  `json:"cost"`
	NewBalance int64  `json:"new_balance"`
}

// BoostService 消耗积分登记推广帖子
type BoostService interface {
	Boost(ctx context.Context, req BoostRequest) (*BoostResult, error)
}

type boostService struct {
	db            *gorm.DB
	cost          int64
	defaultTarget int
	profiles      Invalidator
	now           func() time.Time
}

func NewBoostService(db *gorm.DB, cost int64, defaultTarget int, profiles Invalidator) BoostService {
	if profiles == nil {
		profiles = nopInvalidator{}
	}
	return &boostService{db: db, cost: cost, defaultTarget: defaultTarget, profiles: profiles, now: time.Now}
}

func (s *boostService) Boost(ctx context.Context, req BoostRequest) (*BoostResult, error) {
	ctx, span := startSpan(ctx, "boost", attribute.String("account.id", req.AccountID))
	defer span.End()
	started := time.Now()

	// 输入校验在事务开始前完成
	ref, err := ParseExternalRef(req.ExternalRef)
	if err != nil {
		return nil, finish(span, "boost", started, err, zap.String("ref", req.ExternalRef))
	}
	cost := s.cost
	if req.CostOverride != nil {
		if *req.CostOverride <= 0 {
			return nil, finish(span, "boost", started, ErrInvalidCost)
		}
		cost = *req.CostOverride
	}
	var target *int
	switch {
	case req.TargetEngagements != nil && *req.TargetEngagements < 0:
		return nil, finish(span, "boost", started, ErrInvalidTarget)
	case req.TargetEngagements != nil && *req.TargetEngagements > 0:
		target = req.TargetEngagements
	case req.TargetEngagements == nil && s.defaultTarget > 0:
		t := s.defaultTarget
		target = &t
	}
	postType := req.Type
	if postType == "" {
		postType = model.PostTypeTweet
	}

	res := BoostResult{PostID: uuid.New().String(), TweetID: ref.TweetID, Cost: cost}
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		if err := activeAccount(ctx, r, req.AccountID); err != nil {
			return err
		}

		debited, err := r.accounts.Debit(ctx, req.AccountID, cost)
		if err != nil {
			return err
		}
		if !debited {
			return ErrInsufficientCredits
		}

		now := s.now()
		if err := r.ledger.Append(ctx, &model.LedgerEntry{
			ID:          uuid.New().String(),
			AccountID:   req.AccountID,
			Amount:      -cost,
			Kind:        model.KindBoost,
			Description: "Boosted post",
			Metadata: jsonMeta(map[string]interface{}{
				"post_id":      res.PostID,
				"tweet_id":     ref.TweetID,
				"original_url": ref.OriginalURL,
			}),
			CreatedAt: now,
		}); err != nil {
			return err
		}

		if err := r.posts.Create(ctx, &model.Post{
			ID:                res.PostID,
			AccountID:         req.AccountID,
			TweetID:           ref.TweetID,
			OriginalURL:       ref.OriginalURL,
			Type:              postType,
			Status:            model.PostStatusActive,
			TargetEngagements: target,
			CreatedAt:         now,
			UpdatedAt:         now,
		}); err != nil {
			return err
		}

		balance, _, err := r.accounts.Balance(ctx, req.AccountID)
		if err != nil {
			return err
		}
		res.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, finish(span, "boost", started, err, zap.String("account", req.AccountID))
	}

	s.profiles.Invalidate(ctx, req.AccountID)
	metrics.Credits(string(model.KindBoost), cost)
	logger.Info("post boosted",
		zap.String("account", req.AccountID),
		zap.String("post", res.PostID),
		zap.String("tweet", ref.TweetID),
		zap.Int64("cost", cost))
	finish(span, "boost", started, nil)
	return &res, nil
}
