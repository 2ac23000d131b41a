package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

// LedgerRepository 积分流水（只追加）
type LedgerRepository interface {
	Append(ctx context.Context, entry *model.LedgerEntry) error
	// AppendOnce 冲突（如 bonus_key 重复）时不写入并返回 false
	AppendOnce(ctx context.Context, entry *model.LedgerEntry) (bool, error)
	ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.LedgerEntry, error)
	// Sums 从流水重新计算余额与累计获得
	Sums(ctx context.Context, accountID string) (balance, earned int64, err error)
}

type ledgerRepository struct{ db *gorm.DB }

func NewLedgerRepository(db *gorm.DB) LedgerRepository { return &ledgerRepository{db: db} }

func (r *ledgerRepository) Append(ctx context.Context, entry *model.LedgerEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *ledgerRepository) AppendOnce(ctx context.Context, entry *model.LedgerEntry) (bool, error) {
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(entry)
	return res.RowsAffected == 1, res.Error
}

func (r *ledgerRepository) ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.LedgerEntry, error) {
	var res []*model.LedgerEntry
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *ledgerRepository) Sums(ctx context.Context, accountID string) (int64, int64, error) {
	var row struct {
		Balance int64
		Earned  int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.LedgerEntry{}).
		Select(`CAST(COALESCE(SUM(amount), 0) AS BIGINT) AS balance,
			CAST(COALESCE(SUM(CASE WHEN transaction_type IN ? THEN amount ELSE 0 END), 0) AS BIGINT) AS earned`, model.EarningKinds()).
		Where("account_id = ?", accountID).
		Scan(&row).Error
	return row.Balance, row.Earned, err
}
