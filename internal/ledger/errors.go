package ledger

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount must be positive")
	ErrInsufficientFunds   = errors.New("insufficient funds")
	ErrDuplicateIdentifier = errors.New("account identifier already exists")
	ErrInvalidIdentifier   = errors.New("account identifier is required")
	ErrInvalidDestination  = errors.New("destination account not found")
	ErrInvalidSource       = errors.New("source account not found")
	ErrAccountNotFound     = errors.New("account not found")
)
