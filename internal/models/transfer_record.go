package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferRecord describes a transfer between two accounts of the same bank.
// It is what the bank submits to the audit authority.
type TransferRecord struct {
	ID          string          `json:"id"`
	Bank        string          `json:"bank"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Amount      decimal.Decimal `json:"amount"`
	CreatedAt   time.Time       `json:"created_at"`
}
