package memory

import (
	"context"
	"sync"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// AuditStore is an in-memory, append-only implementation of interfaces.AuditStore.
// It is safe for concurrent use.
type AuditStore struct {
	mu      sync.Mutex // protects records
	records []models.TransferRecord
}

// NewAuditStore creates an empty AuditStore.
func NewAuditStore() *AuditStore {
	return &AuditStore{
		records: make([]models.TransferRecord, 0),
	}
}

// Append adds a record at the end of the log. It always succeeds.
func (m *AuditStore) Append(ctx context.Context, record models.TransferRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.records = append(m.records, record)
	return nil
}

// List returns a copy of the log, oldest first, so callers can't modify internal state.
func (m *AuditStore) List(ctx context.Context) ([]models.TransferRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.TransferRecord, len(m.records))
	copy(copied, m.records)
	return copied, nil
}

// Compile-time check: ensure AuditStore implements the AuditStore interface
var _ interfaces.AuditStore = (*AuditStore)(nil)
