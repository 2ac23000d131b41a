package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/boost-ledger/internal/model"
)

// PostRepository 帖子注册表
type PostRepository interface {
	Create(ctx context.Context, post *model.Post) error
	Get(ctx context.Context, id string) (*model.Post, error)
	// GetForUpdate 事务内加行锁读取（sqlite 忽略锁子句，依赖单连接串行）
	GetForUpdate(ctx context.Context, id string) (*model.Post, error)
	// RecordEngagement 以 expected 为乐观条件把计数推进到 next，archive 为 true 时同时归档
	RecordEngagement(ctx context.Context, id string, expected, next int, archive bool) (bool, error)
	// Archive 单向 active -> archived
	Archive(ctx context.Context, id string) (bool, error)
	ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.Post, error)
	ListActive(ctx context.Context, excludeAccountID string, offset, limit int) ([]*model.Post, error)
}

type postRepository struct{ db *gorm.DB }

func NewPostRepository(db *gorm.DB) PostRepository { return &postRepository{db: db} }

func (r *postRepository) Create(ctx context.Context, post *model.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) Get(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) GetForUpdate(ctx context.Context, id string) (*model.Post, error) {
	var p model.Post
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *postRepository) RecordEngagement(ctx context.Context, id string, expected, next int, archive bool) (bool, error) {
	updates := map[string]interface{}{"current_engagements": next}
	if archive {
		updates["status"] = model.PostStatusArchived
	}
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND status = ? AND current_engagements = ?", id, model.PostStatusActive, expected).
		Updates(updates)
	return res.RowsAffected == 1, res.Error
}

func (r *postRepository) Archive(ctx context.Context, id string) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ? AND status = ?", id, model.PostStatusActive).
		Update("status", model.PostStatusArchived)
	return res.RowsAffected == 1, res.Error
}

func (r *postRepository) ListByAccount(ctx context.Context, accountID string, offset, limit int) ([]*model.Post, error) {
	var res []*model.Post
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&res).Error
	return res, err
}

func (r *postRepository) ListActive(ctx context.Context, excludeAccountID string, offset, limit int) ([]*model.Post, error) {
	q := r.db.WithContext(ctx).Where("status = ?", model.PostStatusActive)
	if excludeAccountID != "" {
		q = q.Where("account_id <> ?", excludeAccountID)
	}
	var res []*model.Post
	err := q.Order("created_at DESC").Offset(offset).Limit(limit).Find(&res).Error
	return res, err
}
