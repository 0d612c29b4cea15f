package metrics

import "time"

// Transfer outcomes used as the status label.
const (
	StatusOK                = "ok"
	StatusInvalidAmount     = "invalid_amount"
	StatusInsufficientFunds = "insufficient_funds"
	StatusInvalidAccount    = "invalid_account"
	StatusCanceled          = "canceled"
)

// Collector defines the interface for collecting ledger metrics.
// Implementations can export metrics to various backends (Prometheus, StatsD, etc.).
type Collector interface {
	RecordAccountOpened()
	RecordTransfer(status string, duration time.Duration)
	RecordFlagged()
	RecordAuditError(sink string)
}

// NoOpCollector is the default collector when metrics are not needed.
type NoOpCollector struct{}

// RecordAccountOpened does nothing.
func (NoOpCollector) RecordAccountOpened() {}

// RecordTransfer does nothing.
func (NoOpCollector) RecordTransfer(status string, duration time.Duration) {}

// RecordFlagged does nothing.
func (NoOpCollector) RecordFlagged() {}

// RecordAuditError does nothing.
func (NoOpCollector) RecordAuditError(sink string) {}
