package service

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/model"
	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

// AccountService 账户生命周期与查询
type AccountService interface {
	// EnsureAccount 首次认证请求时创建账户，已存在则直接返回
	EnsureAccount(ctx context.Context, accountID, username string) (*model.Account, error)
	Get(ctx context.Context, accountID string) (*model.Account, error)
	Deactivate(ctx context.Context, accountID string) error
	SetRole(ctx context.Context, accountID, role string) error
	// Search 按 handle（可省略 @）或用户名查找
	Search(ctx context.Context, term string) (*model.Account, error)
	Ledger(ctx context.Context, accountID string, page, pageSize int) ([]*model.LedgerEntry, error)
	Claims(ctx context.Context, accountID string, page, pageSize int) ([]*model.EngagementClaim, error)
}

type accountService struct {
	accounts repository.AccountRepository
	ledger   repository.LedgerRepository
	claims   repository.ClaimRepository
	profiles Invalidator
}

func NewAccountService(db *gorm.DB, profiles Invalidator) AccountService {
	if profiles == nil {
		profiles = nopInvalidator{}
	}
	return &accountService{
		accounts: repository.NewAccountRepository(db),
		ledger:   repository.NewLedgerRepository(db),
		claims:   repository.NewClaimRepository(db),
		profiles: profiles,
	}
}

func (s *accountService) EnsureAccount(ctx context.Context, accountID, username string) (*model.Account, error) {
	if strings.TrimSpace(accountID) == "" {
		return nil, ErrAccountNotFound
	}
	return s.accounts.FirstOrCreate(ctx, accountID, username)
}

func (s *accountService) Get(ctx context.Context, accountID string) (*model.Account, error) {
	a, err := s.accounts.Get(ctx, accountID)
	if repository.IsNotFound(err) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (s *accountService) Deactivate(ctx context.Context, accountID string) error {
	ok, err := s.accounts.Deactivate(ctx, accountID)
	if err != nil {
		return err
	}
	if !ok {
		if _, err := s.Get(ctx, accountID); err != nil {
			return err
		}
		return ErrAccountInactive
	}
	s.profiles.Invalidate(ctx, accountID)
	logger.Info("account deactivated", zap.String("account", accountID))
	return nil
}

func (s *accountService) SetRole(ctx context.Context, accountID, role string) error {
	switch role {
	case model.RoleUser, model.RoleModerator, model.RoleAdmin:
	default:
		return &Error{KindValidation, "invalid_role", "role must be user, moderator or admin"}
	}
	ok, err := s.accounts.SetRole(ctx, accountID, role)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccountNotFound
	}
	s.profiles.Invalidate(ctx, accountID)
	logger.Info("account role changed", zap.String("account", accountID), zap.String("role", role))
	return nil
}

func (s *accountService) Search(ctx context.Context, term string) (*model.Account, error) {
	a, err := s.accounts.Search(ctx, term)
	if repository.IsNotFound(err) {
		return nil, ErrAccountNotFound
	}
	return a, err
}

func (s *accountService) Ledger(ctx context.Context, accountID string, page, pageSize int) ([]*model.LedgerEntry, error) {
	offset, limit := pageOffset(page, pageSize)
	return s.ledger.ListByAccount(ctx, accountID, offset, limit)
}

func (s *accountService) Claims(ctx context.Context, accountID string, page, pageSize int) ([]*model.EngagementClaim, error) {
	offset, limit := pageOffset(page, pageSize)
	return s.claims.ListByAccount(ctx, accountID, offset, limit)
}
