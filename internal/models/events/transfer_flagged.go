package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferFlagged is emitted when the audit authority retains a transfer.
type TransferFlagged struct {
	TransferID  string          `json:"transfer_id"`
	Bank        string          `json:"bank"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	Threshold   decimal.Decimal `json:"threshold"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
