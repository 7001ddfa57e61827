package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Consume outcomes reported on the ledger counters.
const (
	OutcomeConsumed    = "consumed"
	OutcomeRaceLost    = "race_lost"
	OutcomeUnavailable = "unavailable"
	OutcomeError       = "error"
)

// LedgerMetrics records entitlement consumption outcomes per product type.
type LedgerMetrics struct {
	consumeAttempts *prometheus.CounterVec
	consumeDuration *prometheus.HistogramVec
	refundRequests  *prometheus.CounterVec
}

// NewLedgerMetrics registers the ledger metrics on the provided registerer.
func NewLedgerMetrics(reg prometheus.Registerer) *LedgerMetrics {
	if reg == nil {
		return &LedgerMetrics{}
	}
	consumeAttempts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_consume_attempts_total",
		Help: "Entitlement consume attempts by product type and outcome.",
	}, []string{"product_type", "outcome"})
	consumeDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ledger_consume_duration_seconds",
		Help:    "Duration of entitlement consume transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"product_type"})
	refundRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledger_refund_requests_total",
		Help: "Refund requests by outcome.",
	}, []string{"outcome"})
	reg.MustRegister(consumeAttempts, consumeDuration, refundRequests)
	return &LedgerMetrics{
		consumeAttempts: consumeAttempts,
		consumeDuration: consumeDuration,
		refundRequests:  refundRequests,
	}
}

// IncConsume increments the consume counter for the product type and outcome.
func (m *LedgerMetrics) IncConsume(productType, outcome string) {
	if m == nil || m.consumeAttempts == nil {
		return
	}
	m.consumeAttempts.WithLabelValues(normalizeLabel(productType), normalizeLabel(outcome)).Inc()
}

// ObserveConsumeDuration records the duration of a consume transaction.
func (m *LedgerMetrics) ObserveConsumeDuration(productType string, duration time.Duration) {
	if m == nil || m.consumeDuration == nil {
		return
	}
	m.consumeDuration.WithLabelValues(normalizeLabel(productType)).Observe(duration.Seconds())
}

// IncRefundRequest increments the refund request counter for the outcome.
func (m *LedgerMetrics) IncRefundRequest(outcome string) {
	if m == nil || m.refundRequests == nil {
		return
	}
	m.refundRequests.WithLabelValues(normalizeLabel(outcome)).Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
