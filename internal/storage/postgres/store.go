package postgres

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the "postgres" driver

	interfaces "github.com/sheikh-saqib/bank-ledger/internal/interfaces"
	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

// Schema creates the flagged_transfers table. seq preserves append order and
// amount keeps the exact scale it was written with.
const Schema = `CREATE TABLE IF NOT EXISTS flagged_transfers (
	seq          BIGSERIAL PRIMARY KEY,
	id           TEXT NOT NULL UNIQUE,
	bank         TEXT NOT NULL,
	from_account TEXT NOT NULL,
	to_account   TEXT NOT NULL,
	amount       NUMERIC NOT NULL,
	created_at   TIMESTAMPTZ NOT NULL
)`

// AuditStore archives flagged transfers in PostgreSQL.
type AuditStore struct {
	db *sql.DB
}

// Open connects to dsn and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return db, nil
}

func NewAuditStore(db *sql.DB) *AuditStore {
	return &AuditStore{
		db: db,
	}
}

// EnsureSchema creates the table if it does not exist yet.
func (p *AuditStore) EnsureSchema(ctx context.Context) error {
	if _, err := p.db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create flagged_transfers: %w", err)
	}
	return nil
}

func (p *AuditStore) Append(ctx context.Context, record models.TransferRecord) error {
	const query = `INSERT INTO flagged_transfers (id, bank, from_account, to_account, amount, created_at)
	VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := p.db.ExecContext(ctx, query,
		record.ID, record.Bank, record.FromAccount, record.ToAccount, record.Amount, record.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert flagged transfer %s: %w", record.ID, err)
	}
	return nil
}

func (p *AuditStore) List(ctx context.Context) ([]models.TransferRecord, error) {
	const query = `SELECT id, bank, from_account, to_account, amount, created_at
	FROM flagged_transfers ORDER BY seq`

	rows, err := p.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query flagged transfers: %w", err)
	}
	defer rows.Close()

	records := make([]models.TransferRecord, 0)
	for rows.Next() {
		var record models.TransferRecord
		if err := rows.Scan(
			&record.ID,
			&record.Bank,
			&record.FromAccount,
			&record.ToAccount,
			&record.Amount,
			&record.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan flagged transfer: %w", err)
		}
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

var _ interfaces.AuditStore = (*AuditStore)(nil)
