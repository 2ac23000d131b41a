// Package monitor 将需要人工介入的错误上报到 Sentry
package monitor

import (
	"time"

	"github.com/getsentry/sentry-go"
	"go.uber.org/zap"

	"github.com/d60-Lab/boost-ledger/pkg/logger"
)

var enabled bool

// Init 配置 Sentry；dsn 为空时上报为空操作
func Init(dsn, environment string) error {
	if dsn == "" {
		return nil
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         dsn,
		Environment: environment,
	}); err != nil {
		return err
	}
	enabled = true
	return nil
}

// Capture 上报错误并附带标签；总是写一条 error 日志
func Capture(err error, tags map[string]string) {
	fields := make([]zap.Field, 0, len(tags)+1)
	fields = append(fields, zap.Error(err))
	for k, v := range tags {
		fields = append(fields, zap.String(k, v))
	}
	logger.Error("operator attention required", fields...)

	if !enabled {
		return
	}
	sentry.WithScope(func(scope *sentry.Scope) {
		scope.SetLevel(sentry.LevelError)
		scope.SetTags(tags)
		sentry.CaptureException(err)
	})
}

// Flush 退出前等待事件发送
func Flush(timeout time.Duration) {
	if enabled {
		sentry.Flush(timeout)
	}
}
