package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

// AccountRepository 账户仓储
type AccountRepository interface {
	// FirstOrCreate 首次登录时创建账户
	FirstOrCreate(ctx context.Context, id, username string) (*model.Account, error)
	Get(ctx context.Context, id string) (*model.Account, error)

	// Credit 增加余额；earned 为 true 时同时累加 total_credits_earned。仅作用于活跃账户
	Credit(ctx context.Context, id string, amount int64, earned bool) (bool, error)
	// Debit 条件扣减：余额不足、账户不存在或已停用时不更新并返回 false
	Debit(ctx context.Context, id string, amount int64) (bool, error)
	Balance(ctx context.Context, id string) (balance, earned int64, err error)

	// SetHandle 只允许设置一次
	SetHandle(ctx context.Context, id, handle string) (bool, error)
	Deactivate(ctx context.Context, id string) (bool, error)
	SetRole(ctx context.Context, id, role string) (bool, error)

	Leaderboard(ctx context.Context, limit int) ([]*model.Account, error)
	Search(ctx context.Context, term string) (*model.Account, error)
	ListIDs(ctx context.Context, afterID string, limit int) ([]string, error)
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository { return &accountRepository{db: db} }

func (r *accountRepository) FirstOrCreate(ctx context.Context, id, username string) (*model.Account, error) {
	a := &model.Account{ID: id, Username: username, Role: model.RoleUser, Active: true}
	// 并发首登时另一请求可能先插入，冲突忽略后再读
	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(a).Error; err != nil {
		return nil, err
	}
	return r.Get(ctx, id)
}

func (r *accountRepository) Get(ctx context.Context, id string) (*model.Account, error) {
	var a model.Account
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) Credit(ctx context.Context, id string, amount int64, earned bool) (bool, error) {
	updates := map[string]interface{}{
		"credits_balance": gorm.Expr("credits_balance + ?", amount),
	}
	if earned {
		updates["total_credits_earned"] = gorm.Expr("total_credits_earned + ?", amount)
	}
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND active = ?", id, true).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *accountRepository) Debit(ctx context.Context, id string, amount int64) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND active = ? AND credits_balance >= ?", id, true, amount).
		Update("credits_balance", gorm.Expr("credits_balance - ?", amount))
	return res.RowsAffected == 1, res.Error
}

func (r *accountRepository) Balance(ctx context.Context, id string) (int64, int64, error) {
	var row struct {
		CreditsBalance     int64
		TotalCreditsEarned int64
	}
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Select("credits_balance", "total_credits_earned").
		Where("id = ?", id).
		Take(&row).Error
	return row.CreditsBalance, row.TotalCreditsEarned, err
}

func (r *accountRepository) SetHandle(ctx context.Context, id, handle string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND x_handle IS NULL", id).
		Update("x_handle", handle)
	return res.RowsAffected == 1, res.Error
}

func (r *accountRepository) Deactivate(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ? AND active = ?", id, true).
		Update("active", false)
	return res.RowsAffected == 1, res.Error
}

func (r *accountRepository) SetRole(ctx context.Context, id, role string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id = ?", id).
		Update("role", role)
	return res.RowsAffected == 1, res.Error
}

func (r *accountRepository) Leaderboard(ctx context.Context, limit int) ([]*model.Account, error) {
	var res []*model.Account
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("total_credits_earned DESC").
		Order("created_at ASC").
		Limit(limit).
		Find(&res).Error
	return res, err
}

// Search 按 handle（可带 @）或用户名精确查找
func (r *accountRepository) Search(ctx context.Context, term string) (*model.Account, error) {
	term = strings.TrimPrefix(strings.TrimSpace(term), "@")
	if term == "" {
		return nil, gorm.ErrRecordNotFound
	}
	var a model.Account
	err := r.db.WithContext(ctx).
		Where("x_handle = ? OR username = ?", "@"+term, term).
		Order("created_at ASC").
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *accountRepository) ListIDs(ctx context.Context, afterID string, limit int) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.Account{}).
		Where("id > ?", afterID).
		Order("id").
		Limit(limit).
		Pluck("id", &ids).Error
	return ids, err
}

// IsNotFound gorm 未找到记录
func IsNotFound(err error) bool { return errors.Is(err, gorm.ErrRecordNotFound) }
