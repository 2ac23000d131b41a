package service

import (
	"context"
	"encoding/json"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/d60-Lab/boost-ledger/internal/repository"
	"github.com/d60-Lab/boost-ledger/pkg/logger"
	"github.com/d60-Lab/boost-ledger/pkg/metrics"
	"github.com/d60-Lab/boost-ledger/pkg/monitor"
)

var tracer = otel.Tracer("github.com/d60-Lab/boost-ledger/internal/service")

// Invalidator 在账本提交后让账户的资料快照失效
type Invalidator interface {
	Invalidate(ctx context.Context, accountIDs ...string)
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, ...string) {}

// repos 绑定到同一个事务的仓储集合
type repos struct {
	accounts repository.AccountRepository
	posts    repository.PostRepository
	ledger   repository.LedgerRepository
	claims   repository.ClaimRepository
}

func reposFor(tx *gorm.DB) repos {
	return repos{
		accounts: repository.NewAccountRepository(tx),
		posts:    repository.NewPostRepository(tx),
		ledger:   repository.NewLedgerRepository(tx),
		claims:   repository.NewClaimRepository(tx),
	}
}

// activeAccount 读取账户并要求其处于启用状态
func activeAccount(ctx context.Context, r repos, id string) error {
	acct, err := r.accounts.Get(ctx, id)
	if repository.IsNotFound(err) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if !acct.Active {
		return ErrAccountInactive
	}
	return nil
}

func startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return tracer.Start(ctx, "service."+op, trace.WithAttributes(attrs...))
}

// finish 统一记录结果：指标、日志、span 状态；完整性错误上报给运维
func finish(span trace.Span, op string, started time.Time, err error, fields ...zap.Field) error {
	err = classify(err)
	if err == nil {
		metrics.Observe(op, "ok", started)
		return nil
	}
	metrics.Observe(op, ReasonOf(err), started)
	span.RecordError(err)

	fields = append(fields, zap.String("operation", op), zap.Error(err))
	switch KindOf(err) {
	case KindIntegrity:
		span.SetStatus(codes.Error, err.Error())
		monitor.Capture(err, map[string]string{"operation": op, "kind": KindIntegrity.String()})
	case KindInternal:
		span.SetStatus(codes.Error, err.Error())
		logger.Error("operation failed", fields...)
	default:
		logger.Debug("operation rejected", fields...)
	}
	return err
}

func jsonMeta(v map[string]interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return datatypes.JSON(b)
}

func pageOffset(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return (page - 1) * pageSize, pageSize
}
