// Package metrics 积分操作的 Prometheus 指标
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	operations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boost_ledger",
		Name:      "operations_total",
		Help:      "Ledger-affecting operations by operation and outcome.",
	}, []string{"operation", "outcome"})

	credits = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "boost_ledger",
		Name:      "credits_moved_total",
		Help:      "Absolute credits moved through the ledger by transaction kind.",
	}, []string{"kind"})

	duration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "boost_ledger",
		Name:      "operation_duration_seconds",
		Help:      "Transaction latency of ledger-affecting operations.",
		Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"operation"})

	auditDrift = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "boost_ledger",
		Name:      "audit_drifted_accounts",
		Help:      "Accounts whose stored balance disagreed with the ledger at the last audit.",
	})
)

// Observe 记录一次操作的结果与耗时
func Observe(operation, outcome string, started time.Time) {
	operations.WithLabelValues(operation, outcome).Inc()
	duration.WithLabelValues(operation).Observe(time.Since(started).Seconds())
}

// Credits 记录流水金额（取绝对值）
func Credits(kind string, amount int64) {
	if amount < 0 {
		amount = -amount
	}
	credits.WithLabelValues(kind).Add(float64(amount))
}

// AuditDrift 最近一次对账发现的异常账户数
func AuditDrift(n int) { auditDrift.Set(float64(n)) }
