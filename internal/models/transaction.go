package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind names the balance movement a history entry describes.
type TransactionKind string

const (
	Deposit     TransactionKind = "deposit"
	Withdrawal  TransactionKind = "withdrawal"
	TransferOut TransactionKind = "transfer_out"
	TransferIn  TransactionKind = "transfer_in"
)

// Transaction is one entry in an account's history.
// Entries are never modified once appended.
type Transaction struct {
	ID        string          `json:"id"`
	Kind      TransactionKind `json:"kind"`
	Amount    decimal.Decimal `json:"amount"`
	Detail    string          `json:"detail,omitempty"` // counterpart identifier for transfers
	CreatedAt time.Time       `json:"created_at"`
}
