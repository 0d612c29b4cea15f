// Package audit implements the central bank's audit authority: it watches
// transfers and keeps the ones above a threshold for later review.
package audit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/logging"
	"github.com/sheikh-saqib/bank-ledger/internal/metrics"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
	"github.com/sheikh-saqib/bank-ledger/internal/storage/memory"
)

// DefaultThreshold is the amount a transfer must exceed to be retained.
var DefaultThreshold = decimal.NewFromInt(1000)

// FlaggedTopic is the default topic TransferFlagged events are published to.
const FlaggedTopic = "transfer_flagged"

// Config configures how retained records reach the external sinks.
type Config struct {
	// Topic for TransferFlagged events (default: FlaggedTopic)
	Topic string

	// QueueSize bounds the records waiting for the sinks (default: 1000)
	QueueSize int

	// Workers drain the queue concurrently (default: 2)
	Workers int

	// WriteTimeout bounds each archive or publish call (default: 5s)
	WriteTimeout time.Duration
}

// DefaultConfig returns the configuration NewAuthority falls back to.
func DefaultConfig() Config {
	return Config{
		Topic:        FlaggedTopic,
		QueueSize:    1000,
		Workers:      2,
		WriteTimeout: 5 * time.Second,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Topic == "" {
		c.Topic = d.Topic
	}
	if c.QueueSize <= 0 {
		c.QueueSize = d.QueueSize
	}
	if c.Workers <= 0 {
		c.Workers = d.Workers
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = d.WriteTimeout
	}
	return c
}

// Authority retains transfers whose amount is strictly greater than its
// threshold. It can observe any number of banks.
//
// The flagged log lives in memory and is appended synchronously. Copies to the
// archive store and the event publisher go through a bounded background queue,
// so neither can hold up a transfer.
type Authority struct {
	mu        sync.RWMutex // protects threshold
	threshold decimal.Decimal

	flagged *memory.AuditStore
	archive interfaces.AuditStore
	mirror  *mirror

	log     *logging.Logger
	metrics metrics.Collector
}

// NewAuthority creates an authority with DefaultThreshold.
// archive and publisher are both optional.
func NewAuthority(archive interfaces.AuditStore, publisher interfaces.EventPublisher, logger *logging.Logger, collector metrics.Collector, config Config) *Authority {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	logger = logger.Named("audit")

	a := &Authority{
		threshold: DefaultThreshold,
		flagged:   memory.NewAuditStore(),
		archive:   archive,
		log:       logger,
		metrics:   collector,
	}
	if archive != nil || publisher != nil {
		a.mirror = newMirror(archive, publisher, config.withDefaults(), logger, collector)
	}
	return a
}

// Configure sets the retention threshold.
func (a *Authority) Configure(threshold decimal.Decimal) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.threshold = threshold
}

func (a *Authority) Threshold() decimal.Decimal {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.threshold
}

// Preload fills the flagged log from the archive, for use at startup before
// any transfer is recorded.
func (a *Authority) Preload(ctx context.Context) error {
	if a.archive == nil {
		return nil
	}
	records, err := a.archive.List(ctx)
	if err != nil {
		return fmt.Errorf("load archived transfers: %w", err)
	}
	for _, record := range records {
		_ = a.flagged.Append(ctx, record)
	}
	return nil
}

// Record retains record when its amount exceeds the threshold.
// Nothing it does can fail or block the caller.
func (a *Authority) Record(ctx context.Context, record models.TransferRecord) {
	threshold := a.Threshold()
	if !record.Amount.GreaterThan(threshold) {
		return
	}

	_ = a.flagged.Append(ctx, record)
	a.metrics.RecordFlagged()
	a.log.Warn("transfer flagged", recordFields(record)...)

	if a.mirror == nil {
		return
	}
	if !a.mirror.enqueue(mirrorOp{record: record, threshold: threshold}) {
		a.metrics.RecordAuditError("queue")
		a.log.Error("audit queue full, flagged transfer not mirrored", recordFields(record)...)
	}
}

// ListFlagged returns the retained transfers, most recent last.
func (a *Authority) ListFlagged(ctx context.Context) ([]models.TransferRecord, error) {
	return a.flagged.List(ctx)
}

// Close waits until queued records have reached the archive and publisher.
func (a *Authority) Close() {
	if a.mirror != nil {
		a.mirror.close()
	}
}

func recordFields(record models.TransferRecord) []zap.Field {
	return []zap.Field{
		zap.String("transfer_id", record.ID),
		zap.String("bank", record.Bank),
		zap.String("from", record.FromAccount),
		zap.String("to", record.ToAccount),
		zap.String("amount", record.Amount.String()),
	}
}

var _ interfaces.Auditor = (*Authority)(nil)
