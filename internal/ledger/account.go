package ledger

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// Account holds a balance and its append-only history.
// Accounts are created by a Bank and never removed from it.
type Account struct {
	mu sync.Mutex // guards balance and history

	holder     string
	identifier string
	credential string // plaintext, compared as-is
	balance    decimal.Decimal
	history    []models.Transaction

	now func() time.Time
}

func newAccount(holder, identifier, credential string, initial decimal.Decimal, now func() time.Time) *Account {
	return &Account{
		holder:     holder,
		identifier: identifier,
		credential: credential,
		balance:    initial,
		history:    make([]models.Transaction, 0),
		now:        now,
	}
}

func (a *Account) Holder() string     { return a.holder }
func (a *Account) Identifier() string { return a.identifier }

// Balance returns the current balance.
func (a *Account) Balance() decimal.Decimal {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.balance
}

// History returns a copy of the history, oldest entry first.
func (a *Account) History() []models.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()

	copied := make([]models.Transaction, len(a.history))
	copy(copied, a.history)
	return copied
}

// Deposit adds amount to the balance and records a Deposit entry.
func (a *Account) Deposit(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.balance = a.balance.Add(amount)
	a.appendHistory(models.Deposit, amount, "")
	return nil
}

// Withdraw removes amount from the balance and records a Withdrawal entry.
// The balance never goes below zero.
func (a *Account) Withdraw(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return ErrInvalidAmount
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if amount.GreaterThan(a.balance) {
		return ErrInsufficientFunds
	}
	a.balance = a.balance.Sub(amount)
	a.appendHistory(models.Withdrawal, amount, "")
	return nil
}

// appendHistory records an entry without validating it. Callers hold a.mu.
func (a *Account) appendHistory(kind models.TransactionKind, amount decimal.Decimal, detail string) {
	a.history = append(a.history, models.Transaction{
		ID:        uuid.New().String(),
		Kind:      kind,
		Amount:    amount,
		Detail:    detail,
		CreatedAt: a.now(),
	})
}

func (a *Account) credentialMatches(credential string) bool {
	return a.credential == credential
}
