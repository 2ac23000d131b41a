package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

// ClaimRepository 互动领取记录
type ClaimRepository interface {
	// Insert 受 (account_id, post_id) 唯一约束保护；已存在时返回 false
	Insert(ctx context.Context, claim *model.EngagementClaim) (bool, error)
	Exists(ctx context.Context, accountID, postID string) (bool, error)
	CountByPost(ctx context.Context, postID string) (int64, error)
	ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.EngagementClaim, error)
}

type claimRepository struct{ db *gorm.DB }

func NewClaimRepository(db *gorm.DB) ClaimRepository { return &claimRepository{db: db} }

func (r *claimRepository) Insert(ctx context.Context, claim *model.EngagementClaim) (bool, error) {
	// 幂等：重复领取不报错，由调用方根据 RowsAffected 判断
	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(claim)
	return res.RowsAffected == 1, res.Error
}

func (r *claimRepository) Exists(ctx context.Context, accountID, postID string) (bool, error) {
	var cnt int64
	if err := r.db.WithContext(ctx).
		Model(&model.EngagementClaim{}).
		Where("account_id = ? AND post_id = ?", accountID, postID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *claimRepository) CountByPost(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.EngagementClaim{}).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

func (r *claimRepository) ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.EngagementClaim, error) {
	var res []*model.EngagementClaim
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("claimed_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}
