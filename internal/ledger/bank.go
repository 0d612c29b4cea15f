package ledger

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/logging"
	"github.com/sheikh-saqib/bank-ledger/internal/metrics"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// Bank owns a set of accounts keyed by identifier and moves money between them.
// Every transfer is submitted to the auditor, which is shared and not owned.
type Bank struct {
	name    string
	auditor interfaces.Auditor
	log     *logging.Logger
	metrics metrics.Collector

	mu       sync.RWMutex // protects accounts
	accounts map[string]*Account

	now func() time.Time
}

// NewBank creates an empty bank reporting its transfers to auditor.
func NewBank(name string, auditor interfaces.Auditor, logger *logging.Logger, collector metrics.Collector) *Bank {
	if logger == nil {
		logger = logging.NewNoOpLogger()
	}
	if collector == nil {
		collector = metrics.NoOpCollector{}
	}
	return &Bank{
		name:     name,
		auditor:  auditor,
		log:      logger.Named("bank").With(zap.String("bank", name)),
		metrics:  collector,
		accounts: make(map[string]*Account),
		now:      time.Now,
	}
}

func (b *Bank) Name() string { return b.name }

// OpenAccount creates and stores a new account. The identifier must be unused
// and the initial balance must not be negative.
func (b *Bank) OpenAccount(holder, identifier, credential string, initialBalance decimal.Decimal) (*Account, error) {
	if identifier == "" {
		return nil, ErrInvalidIdentifier
	}
	if initialBalance.IsNegative() {
		return nil, ErrInvalidAmount
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if _, exists := b.accounts[identifier]; exists {
		return nil, ErrDuplicateIdentifier
	}
	acc := newAccount(holder, identifier, credential, initialBalance, b.now)
	b.accounts[identifier] = acc

	b.metrics.RecordAccountOpened()
	b.log.Info("account opened", zap.String("account", identifier))
	return acc, nil
}

// FindByIdentifier returns the account registered under identifier.
func (b *Bank) FindByIdentifier(identifier string) (*Account, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	acc, ok := b.accounts[identifier]
	return acc, ok
}

// Authenticate returns the account when identifier exists and credential
// matches exactly. There is no lockout after repeated failures.
func (b *Bank) Authenticate(identifier, credential string) (*Account, bool) {
	acc, ok := b.FindByIdentifier(identifier)
	if !ok || !acc.credentialMatches(credential) {
		return nil, false
	}
	return acc, true
}

// Accounts returns every account ordered by identifier.
func (b *Bank) Accounts() []*Account {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := make([]*Account, 0, len(b.accounts))
	for _, acc := range b.accounts {
		out = append(out, acc)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].identifier < out[j].identifier })
	return out
}

func (b *Bank) owns(acc *Account) bool {
	if acc == nil {
		return false
	}
	registered, ok := b.FindByIdentifier(acc.identifier)
	return ok && registered == acc
}

// TransferByIdentifier resolves both identifiers and calls Transfer.
// The destination is resolved first, matching the order Transfer checks in.
func (b *Bank) TransferByIdentifier(ctx context.Context, fromID, toID string, amount decimal.Decimal) (models.TransferRecord, error) {
	destination, ok := b.FindByIdentifier(toID)
	if !ok {
		return models.TransferRecord{}, ErrInvalidDestination
	}
	source, ok := b.FindByIdentifier(fromID)
	if !ok {
		return models.TransferRecord{}, ErrAccountNotFound
	}
	return b.Transfer(ctx, source, destination, amount)
}

// Transfer moves amount from source to destination.
//
// The transfer record goes to the auditor before any balance changes, whatever
// the outcome of the debit. The funds check, both balance updates and both
// history entries happen under the locks of the two accounts, taken in
// identifier order.
func (b *Bank) Transfer(ctx context.Context, source, destination *Account, amount decimal.Decimal) (models.TransferRecord, error) {
	start := time.Now()

	record, err := b.transfer(ctx, source, destination, amount)

	b.metrics.RecordTransfer(transferStatus(err), time.Since(start))
	if err != nil {
		b.log.Debug("transfer rejected", zap.Error(err), zap.String("amount", amount.String()))
		return models.TransferRecord{}, err
	}
	b.log.Info("transfer completed",
		zap.String("transfer_id", record.ID),
		zap.String("from", record.FromAccount),
		zap.String("to", record.ToAccount),
		zap.String("amount", record.Amount.String()),
	)
	return record, nil
}

func (b *Bank) transfer(ctx context.Context, source, destination *Account, amount decimal.Decimal) (models.TransferRecord, error) {
	if !b.owns(destination) {
		return models.TransferRecord{}, ErrInvalidDestination
	}
	if !b.owns(source) {
		return models.TransferRecord{}, ErrInvalidSource
	}
	if !amount.IsPositive() {
		return models.TransferRecord{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return models.TransferRecord{}, err
	}

	record := models.TransferRecord{
		ID:          uuid.New().String(),
		Bank:        b.name,
		FromAccount: source.identifier,
		ToAccount:   destination.identifier,
		Amount:      amount,
		CreatedAt:   b.now(),
	}

	if b.auditor != nil {
		b.auditor.Record(ctx, record)
	}

	unlock := lockPair(source, destination)
	defer unlock()

	if amount.GreaterThan(source.balance) {
		return models.TransferRecord{}, ErrInsufficientFunds
	}

	source.balance = source.balance.Sub(amount)
	destination.balance = destination.balance.Add(amount)

	source.appendHistory(models.TransferOut, amount, destination.identifier)
	destination.appendHistory(models.TransferIn, amount, source.identifier)

	return record, nil
}

// lockPair locks both accounts in identifier order so that two transfers
// crossing in opposite directions cannot deadlock.
func lockPair(a, b *Account) func() {
	if a == b {
		a.mu.Lock()
		return a.mu.Unlock
	}

	first, second := a, b
	if b.identifier < a.identifier {
		first, second = b, a
	}
	first.mu.Lock()
	second.mu.Lock()

	return func() {
		second.mu.Unlock()
		first.mu.Unlock()
	}
}

func transferStatus(err error) string {
	switch {
	case err == nil:
		return metrics.StatusOK
	case errors.Is(err, ErrInvalidAmount):
		return metrics.StatusInvalidAmount
	case errors.Is(err, ErrInsufficientFunds):
		return metrics.StatusInsufficientFunds
	case errors.Is(err, ErrInvalidDestination), errors.Is(err, ErrInvalidSource), errors.Is(err, ErrAccountNotFound):
		return metrics.StatusInvalidAccount
	default:
		return metrics.StatusCanceled
	}
}
