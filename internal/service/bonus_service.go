package service

import (
	"context"
	"errors"
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

// BonusResult 注册奖励结果；重复领取时 Granted 为 false 且不报错
type BonusResult struct {
	Granted    bool   `json:"granted"`
	NewBalance int64  `json:"new_balance"`
	XHandle    string `json:"x_handle,omitempty"`
}

// BonusService 绑定 X handle 与一次性注册奖励
type BonusService interface {
	LinkHandle(ctx context.Context, accountID, handle string) error
	ClaimBonus(ctx context.Context, accountID string) (*BonusResult, error)
	// LinkHandleAndClaim 引导流程：先绑定再领取，两步各自独立提交
	LinkHandleAndClaim(ctx context.Context, accountID, handle string) (*BonusResult, error)
}

type bonusService struct {
	db       *gorm.DB
	amount   int64
	profiles Invalidator
	now      func() time.Time
}

func NewBonusService(db *gorm.DB, amount int64, profiles Invalidator) BonusService {
	if profiles == nil {
		profiles = nopInvalidator{}
	}
	return &bonusService{db: db, amount: amount, profiles: profiles, now: time.Now}
}

func (s *bonusService) LinkHandle(ctx context.Context, accountID, handle string) error {
	ctx, span := startSpan(ctx, "link_handle", attribute.String("account.id", accountID))
	defer span.End()
	started := time.Now()

	handle, err := NormalizeHandle(handle)
	if err != nil {
		return finish(span, "link_handle", started, err)
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		acct, err := r.accounts.Get(ctx, accountID)
		if repository.IsNotFound(err) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		if !acct.Active {
			return ErrAccountInactive
		}
		if acct.XHandle != nil {
			if *acct.XHandle == handle {
				return nil
			}
			return ErrHandleAlreadySet
		}

		set, err := r.accounts.SetHandle(ctx, accountID, handle)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrHandleTaken
		}
		if err != nil {
			return err
		}
		if !set {
			return ErrHandleAlreadySet
		}
		return nil
	})
	if err != nil {
		return finish(span, "link_handle", started, err, zap.String("account", accountID), zap.String("handle", handle))
	}

	s.profiles.Invalidate(ctx, accountID)
	logger.Info("handle linked", zap.String("account", accountID), zap.String("handle", handle))
	return finish(span, "link_handle", started, nil)
}

// ClaimBonus 每个账户最多一条 bonus 流水，由 bonus_key 唯一索引保证
func (s *bonusService) ClaimBonus(ctx context.Context, accountID string) (*BonusResult, error) {
	ctx, span := startSpan(ctx, "claim_bonus", attribute.String("account.id", accountID))
	defer span.End()
	started := time.Now()

	var res BonusResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		acct, err := r.accounts.Get(ctx, accountID)
		if repository.IsNotFound(err) {
			return ErrAccountNotFound
		}
		if err != nil {
			return err
		}
		if !acct.Active {
			return ErrAccountInactive
		}
		if acct.XHandle == nil {
			return ErrHandleRequired
		}
		res.XHandle = *acct.XHandle

		key := accountID
		appended, err := r.ledger.AppendOnce(ctx, &model.LedgerEntry{
			ID:          uuid.New().String(),
			AccountID:   accountID,
			Amount:      s.amount,
			Kind:        model.KindBonus,
			Description: "Signup bonus",
			Metadata:    jsonMeta(map[string]interface{}{"x_handle": *acct.XHandle}),
			BonusKey:    &key,
			CreatedAt:   s.now(),
		})
		if err != nil {
			return err
		}
		if appended {
			credited, err := r.accounts.Credit(ctx, accountID, s.amount, true)
			if err != nil {
				return err
			}
			if !credited {
				return ErrAccountInactive
			}
		}
		res.Granted = appended

		balance, _, err := r.accounts.Balance(ctx, accountID)
		if err != nil {
			return err
		}
		res.NewBalance = balance
		return nil
	})
	if err != nil {
		return nil, finish(span, "claim_bonus", started, err, zap.String("account", accountID))
	}

	if res.Granted {
		s.profiles.Invalidate(ctx, accountID)
		metrics.Credits(string(model.KindBonus), s.amount)
		logger.Info("signup bonus granted", zap.String("account", accountID), zap.Int64("amount", s.amount))
		finish(span, "claim_bonus", started, nil)
	} else {
		metrics.Observe("claim_bonus", "already_granted", started)
	}
	return &res, nil
}

func (s *bonusService) LinkHandleAndClaim(ctx context.Context, accountID, handle string) (*BonusResult, error) {
	if err := s.LinkHandle(ctx, accountID, handle); err != nil {
		return nil, err
	}
	return s.ClaimBonus(ctx, accountID)
}
