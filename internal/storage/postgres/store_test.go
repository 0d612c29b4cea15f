package postgres

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/bank-ledger/internal/models"
)

func TestSchema_AmountIsUnscaled(t *testing.T) {
	for _, line := range strings.Split(Schema, "\n") {
		if strings.Contains(line, "amount") {
			assert.NotContains(t, line, "NUMERIC(", "amount column must not round")
		}
	}
}

// Runs against a real database only when LEDGER_TEST_DATABASE_URL is set.
func TestAuditStore_Integration(t *testing.T) {
	dsn := os.Getenv("LEDGER_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LEDGER_TEST_DATABASE_URL not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := Open(ctx, dsn)
	require.NoError(t, err)
	defer db.Close()

	store := NewAuditStore(db)
	require.NoError(t, store.EnsureSchema(ctx))

	before, err := store.List(ctx)
	require.NoError(t, err)

	record := models.TransferRecord{
		ID:          uuid.New().String(),
		Bank:        "Bradesco",
		FromAccount: "07810178156",
		ToAccount:   "08090499104",
		Amount:      decimal.RequireFromString("1500.25"),
		CreatedAt:   time.Now().UTC().Truncate(time.Microsecond),
	}
	require.NoError(t, store.Append(ctx, record))

	after, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, after, len(before)+1)

	last := after[len(after)-1]
	assert.Equal(t, record.ID, last.ID)
	assert.Equal(t, record.FromAccount, last.FromAccount)
	assert.True(t, record.Amount.Equal(last.Amount))
	assert.True(t, record.CreatedAt.Equal(last.CreatedAt))

	// ids are unique
	assert.Error(t, store.Append(ctx, record))

	// fractional amounts just over the threshold come back unchanged
	fractional := record
	fractional.ID = uuid.New().String()
	fractional.Amount = decimal.RequireFromString("1000.004")
	require.NoError(t, store.Append(ctx, fractional))

	after, err = store.List(ctx)
	require.NoError(t, err)
	last = after[len(after)-1]
	assert.Equal(t, fractional.ID, last.ID)
	assert.True(t, fractional.Amount.Equal(last.Amount), "amount=%s", last.Amount)
	assert.True(t, last.Amount.GreaterThan(decimal.NewFromInt(1000)))
}
