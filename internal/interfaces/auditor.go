package interfaces

import (
	"context"

	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// Auditor observes every transfer a bank performs.
// Record has no error result: auditing never gates a transfer.
type Auditor interface {
	Record(ctx context.Context, record models.TransferRecord)
}
