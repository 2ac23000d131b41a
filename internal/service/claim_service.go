package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/metrics"
)

// ClaimResult 领取结果；NewBalance 为事务内读取的权威余额
type ClaimResult struct {
	Granted      bool  `json:"granted"`
	NewBalance   int64 `json:"new_balance"`
	PostArchived bool  `json:"post_archived"`
}

// ClaimService 互动领取
type ClaimService interface {
	Claim(ctx context.Context, accountID, postID string) (*ClaimResult, error)
}

type claimService struct {
	db       *gorm.DB
	reward   int64
	profiles Invalidator
	now      func() time.Time
}

func NewClaimService(db *gorm.DB, reward int64, profiles Invalidator) ClaimService {
	if profiles == nil {
		profiles = nopInvalidator{}
	}
	return &claimService{db: db, reward: reward, profiles: profiles, now: time.Now}
}

// Claim 在一个事务内完成：锁帖子 -> 写领取记录 -> 写 earn 流水 -> 推进计数（达标归档）-> 加余额
func (s *claimService) Claim(ctx context.Context, accountID, postID string) (*ClaimResult, error) {
	ctx, span := startSpan(ctx, "claim", attribute.String("account.id", accountID), attribute.String("post.id", postID))
	defer span.End()
	started := time.Now()

	if postID == "" {
		return nil, finish(span, "claim", started, ErrPostNotFound)
	}

	var res ClaimResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)

		post, err := r.posts.GetForUpdate(ctx, postID)
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		if post.AccountID == accountID {
			return ErrSelfEngagement
		}
		if post.Status != model.PostStatusActive {
			// 重复领取优先报告 AlreadyClaimed，即使帖子已因达标归档
			claimed, err := r.claims.Exists(ctx, accountID, postID)
			if err != nil {
				return err
			}
			if claimed {
				return ErrAlreadyClaimed
			}
			return ErrPostNotActive
		}
		if err := activeAccount(ctx, r, accountID); err != nil {
			return err
		}

		now := s.now()
		inserted, err := r.claims.Insert(ctx, &model.EngagementClaim{
			ID:         uuid.New().String(),
			AccountID:  accountID,
			PostID:     postID,
			ClaimedAt:  now,
			VerifiedAt: &now,
			Valid:      true,
		})
		if err != nil {
			return err
		}
		if !inserted {
			return ErrAlreadyClaimed
		}

		if err := r.ledger.Append(ctx, &model.LedgerEntry{
			ID:          uuid.New().String(),
			AccountID:   accountID,
			Amount:      s.reward,
			Kind:        model.KindEarn,
			Description: "Engagement reward",
			Metadata:    jsonMeta(map[string]interface{}{"post_id": post.ID, "tweet_id": post.TweetID}),
			CreatedAt:   now,
		}); err != nil {
			return err
		}

		next := post.CurrentEngagements + 1
		archive := post.ReachesTarget(next)
		moved, err := r.posts.RecordEngagement(ctx, post.ID, post.CurrentEngagements, next, archive)
		if err != nil {
			return err
		}
		if !moved {
			// 行锁持有期间计数不应变化
			return integrity("post %s engagement counter moved under lock", post.ID)
		}

		credited, err := r.accounts.Credit(ctx, accountID, s.reward, true)
		if err != nil {
			return err
		}
		if !credited {
			return ErrAccountInactive
		}

		balance, _, err := r.accounts.Balance(ctx, accountID)
		if err != nil {
			return err
		}
		res = ClaimResult{Granted: true, NewBalance: balance, PostArchived: archive}
		return nil
	})
	if err != nil {
		return nil, finish(span, "claim", started, err, zap.String("account", accountID), zap.String("post", postID))
	}

	s.profiles.Invalidate(ctx, accountID)
	metrics.Credits(string(model.KindEarn), s.reward)
	logger.Debug("engagement claimed",
		zap.String("account", accountID),
		zap.String("post", postID),
		zap.Int64("balance", res.NewBalance),
		zap.Bool("archived", res.PostArchived))
	finish(span, "claim", started, nil)
	return &res, nil
}
