// Package metrics exposes Prometheus metrics for RPCs and the settlement
// lifecycle.
package metrics

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "hearth"

// Metrics holds every collector. It implements ledger.Recorder.
type Metrics struct {
	registry *prometheus.Registry

	rpcDuration          *prometheus.HistogramVec
	settlementsOpened    prometheus.Counter
	settlementsFinalized prometheus.Counter
	settlementRejections *prometheus.CounterVec
	transfersPerOpen     prometheus.Histogram
	expenseChanges       *prometheus.CounterVec
}

// New registers all collectors, plus the Go and process collectors, on a
// fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		rpcDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rpc_duration_seconds",
			Help:      "Duration of Connect RPCs by procedure and code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"procedure", "code"}),
		settlementsOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_opened_total",
			Help:      "Settlements opened.",
		}),
		settlementsFinalized: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlements_finalized_total",
			Help:      "Settlements finalized.",
		}),
		settlementRejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "settlement_rejections_total",
			Help:      "Open or finalize attempts rejected, by reason.",
		}, []string{"reason"}),
		transfersPerOpen: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "settlement_transfers",
			Help:      "Number of transfers in each opened settlement.",
			Buckets:   prometheus.LinearBuckets(0, 2, 10),
		}),
		expenseChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "expense_changes_total",
			Help:      "Expense writes by operation.",
		}, []string{"op"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.rpcDuration,
		m.settlementsOpened,
		m.settlementsFinalized,
		m.settlementRejections,
		m.transfersPerOpen,
		m.expenseChanges,
	)
	return m
}

// Registry returns the registry the collectors live in.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the metrics in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Interceptor records the duration and result code of every RPC.
func (m *Metrics) Interceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			code := "ok"
			if err != nil {
				code = connect.CodeOf(err).String()
			}
			m.rpcDuration.WithLabelValues(req.Spec().Procedure, code).Observe(time.Since(start).Seconds())
			return resp, err
		}
	}
}

func (m *Metrics) SettlementOpened(_ string, transfers int) {
	m.settlementsOpened.Inc()
	m.transfersPerOpen.Observe(float64(transfers))
}

func (m *Metrics) SettlementFinalized(string) {
	m.settlementsFinalized.Inc()
}

func (m *Metrics) SettlementRejected(reason string) {
	m.settlementRejections.WithLabelValues(reason).Inc()
}

func (m *Metrics) ExpenseChanged(op string) {
	m.expenseChanges.WithLabelValues(op).Inc()
}
