package interfaces

import (
	"context"

	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// AuditStore keeps the flagged transfers in the order they were appended.
type AuditStore interface {
	Append(ctx context.Context, record models.TransferRecord) error
	List(ctx context.Context) ([]models.TransferRecord, error)
}
