package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

// PostService 帖子注册表的读取与归档
type PostService interface {
	Get(ctx context.Context, postID string) (*model.Post, error)
	// Archive 帖子所有者或版主/管理员归档
	Archive(ctx context.Context, actorID, postID string) error
	// AdminArchive 审核侧门，同样只允许 active -> archived
	AdminArchive(ctx context.Context, postID string) error
	Feed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Post, error)
	ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]*model.Post, error)
}

type postService struct {
	db    *gorm.DB
	posts repository.PostRepository
}

func NewPostService(db *gorm.DB) PostService {
	return &postService{db: db, posts: repository.NewPostRepository(db)}
}

func (s *postService) Get(ctx context.Context, postID string) (*model.Post, error) {
	p, err := s.posts.Get(ctx, postID)
	if repository.IsNotFound(err) {
		return nil, ErrPostNotFound
	}
	return p, err
}

func (s *postService) Archive(ctx context.Context, actorID, postID string) error {
	return s.archive(ctx, "archive_post", actorID, postID)
}

func (s *postService) AdminArchive(ctx context.Context, postID string) error {
	return s.archive(ctx, "admin_archive_post", "", postID)
}

// archive actorID 为空表示已在路由层完成权限校验
func (s *postService) archive(ctx context.Context, op, actorID, postID string) error {
	ctx, span := startSpan(ctx, op, attribute.String("post.id", postID))
	defer span.End()
	started := time.Now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		post, err := r.posts.GetForUpdate(ctx, postID)
		if repository.IsNotFound(err) {
			return ErrPostNotFound
		}
		if err != nil {
			return err
		}
		if actorID != "" && post.AccountID != actorID {
			actor, err := r.accounts.Get(ctx, actorID)
			if repository.IsNotFound(err) {
				return ErrForbidden
			}
			if err != nil {
				return err
			}
			if !actor.IsPrivileged() {
				return ErrForbidden
			}
		}
		if post.Status != model.PostStatusActive {
			return ErrPostNotActive
		}
		archived, err := r.posts.Archive(ctx, postID)
		if err != nil {
			return err
		}
		if !archived {
			return ErrPostNotActive
		}
		return nil
	})
	if err != nil {
		return finish(span, op, started, err, zap.String("post", postID), zap.String("actor", actorID))
	}
	logger.Info("post archived", zap.String("post", postID), zap.String("actor", actorID))
	return finish(span, op, started, nil)
}

func (s *postService) Feed(ctx context.Context, viewerID string, page, pageSize int) ([]*model.Post, error) {
	offset, limit := pageOffset(page, pageSize)
	return s.posts.ListActive(ctx, viewerID, offset, limit)
}

func (s *postService) ListByAccount(ctx context.Context, accountID string, page, pageSize int) ([]*model.Post, error) {
	offset, limit := pageOffset(page, pageSize)
	return s.posts.ListByAccount(ctx, accountID, offset, limit)
}
