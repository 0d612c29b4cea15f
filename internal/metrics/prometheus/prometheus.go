package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/sheikh-saqib/bank-ledger/internal/metrics"
)

// PrometheusCollector implements metrics.Collector for Prometheus.
type PrometheusCollector struct {
	accountsOpened  prometheus.Counter
	transfers       *prometheus.CounterVec
	transferLatency prometheus.Histogram
	flagged         prometheus.Counter
	auditErrors     *prometheus.CounterVec
}

// NewPrometheusCollector creates a new Prometheus metrics collector.
func NewPrometheusCollector(namespace string) *PrometheusCollector {
	return &PrometheusCollector{
		accountsOpened: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "accounts_opened_total",
				Help:      "Total number of accounts opened",
			},
		),
		transfers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfers_total",
				Help:      "Total number of transfers per outcome",
			},
			[]string{"status"},
		),
		transferLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "transfer_duration_seconds",
				Help:      "Transfer latency including audit submission",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~3s
			},
		),
		flagged: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "flagged_transfers_total",
				Help:      "Total number of transfers retained by the audit authority",
			},
		),
		auditErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "audit_errors_total",
				Help:      "Total number of failed audit sink writes",
			},
			[]string{"sink"},
		),
	}
}

// Register registers all collectors with the given registerer.
func (pc *PrometheusCollector) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		pc.accountsOpened,
		pc.transfers,
		pc.transferLatency,
		pc.flagged,
		pc.auditErrors,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}

func (pc *PrometheusCollector) RecordAccountOpened() {
	pc.accountsOpened.Inc()
}

func (pc *PrometheusCollector) RecordTransfer(status string, duration time.Duration) {
	pc.transfers.WithLabelValues(status).Inc()
	pc.transferLatency.Observe(duration.Seconds())
}

func (pc *PrometheusCollector) RecordFlagged() {
	pc.flagged.Inc()
}

func (pc *PrometheusCollector) RecordAuditError(sink string) {
	pc.auditErrors.WithLabelValues(sink).Inc()
}

var _ metrics.Collector = (*PrometheusCollector)(nil)
