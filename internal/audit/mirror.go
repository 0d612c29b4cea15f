package audit

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/logging"
	"github.com/sheikh-saqib/bank-ledger/internal/metrics"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
	"github.com/sheikh-saqib/bank-ledger/internal/models/events"
)

// mirrorOp is a retained record waiting to be copied to the external sinks.
type mirrorOp struct {
	record    models.TransferRecord
	threshold decimal.Decimal
}

// mirror copies retained records to an archive store and an event publisher
// from a bounded queue drained by a worker pool. Enqueueing never waits: when
// the queue is full the record is dropped and counted.
type mirror struct {
	archive   interfaces.AuditStore
	publisher interfaces.EventPublisher
	topic     string
	timeout   time.Duration

	mu     sync.RWMutex // guards closed against concurrent enqueue
	closed bool
	queue  chan mirrorOp
	wg     sync.WaitGroup

	log     *logging.Logger
	metrics metrics.Collector
}

func newMirror(archive interfaces.AuditStore, publisher interfaces.EventPublisher, config Config, logger *logging.Logger, collector metrics.Collector) *mirror {
	m := &mirror{
		archive:   archive,
		publisher: publisher,
		topic:     config.Topic,
		timeout:   config.WriteTimeout,
		queue:     make(chan mirrorOp, config.QueueSize),
		log:       logger,
		metrics:   collector,
	}

	for i := 0; i < config.Workers; i++ {
		m.wg.Add(1)
		go m.worker()
	}
	return m
}

// enqueue reports whether op was accepted.
func (m *mirror) enqueue(op mirrorOp) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false
	}
	select {
	case m.queue <- op:
		return true
	default:
		return false
	}
}

func (m *mirror) worker() {
	defer m.wg.Done()
	for op := range m.queue {
		m.write(op)
	}
}

// write runs detached from the transfer's context, which is usually gone by now.
func (m *mirror) write(op mirrorOp) {
	ctx, cancel := context.WithTimeout(context.Background(), m.timeout)
	defer cancel()

	fields := recordFields(op.record)

	if m.archive != nil {
		if err := m.archive.Append(ctx, op.record); err != nil {
			m.metrics.RecordAuditError("archive")
			m.log.Error("failed to archive flagged transfer", append(fields, zap.Error(err))...)
		}
	}

	if m.publisher != nil {
		event := events.TransferFlagged{
			TransferID:  op.record.ID,
			Bank:        op.record.Bank,
			FromAccount: op.record.FromAccount,
			ToAccount:   op.record.ToAccount,
			Amount:      op.record.Amount,
			Threshold:   op.threshold,
			OccurredAt:  op.record.CreatedAt,
		}
		if err := m.publisher.Publish(ctx, m.topic, event); err != nil {
			m.metrics.RecordAuditError("publisher")
			m.log.Error("failed to publish flagged transfer", append(fields, zap.Error(err))...)
		}
	}
}

// close stops accepting records and waits until the queue is drained.
func (m *mirror) close() {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return
	}
	m.closed = true
	close(m.queue)
	m.mu.Unlock()

	m.wg.Wait()
}
