// Package remote defines the contract with the authoritative account store.
// Rows are scoped to an authenticated identity; the store itself enforces
// row-level access.
package remote

import (
	"context"
	"time"

	"fintrack/internal/core"
)

// SnapshotRecord is the row written to the monthly snapshot table: the
// net-worth totals plus the budget totals at capture time.
type SnapshotRecord struct {
	ID               string
	Month            string // YYYY-MM
	Currency         string
	AssetsTotal      float64
	LiabilitiesTotal float64
	NetWorth         float64
	BudgetIncome     float64
	BudgetExpense    float64
	LoanEMI          float64
	CreatedAt        time.Time
}

// Ports for the three remote tables.
type (
	StateStore interface {
		// FetchState returns the stored state blob for the identity; found is
		// false when the identity has never synced.
		FetchState(ctx context.Context, userID string) (state core.AppState, found bool, err error)
		// UpsertState replaces the identity's state blob.
		UpsertState(ctx context.Context, userID string, state core.AppState) error
	}

	SnapshotStore interface {
		FetchSnapshots(ctx context.Context, userID string) ([]core.Snapshot, error)
		// UpsertSnapshot writes one row keyed by (identity, month, currency).
		UpsertSnapshot(ctx context.Context, userID string, rec SnapshotRecord) error
	}

	TransactionStore interface {
		FetchTransactions(ctx context.Context, userID string) ([]core.ExpenseTransaction, error)
		// MirrorTransactions makes the identity's remote transaction rows
		// exactly match the given set: upsert every row, then prune rows whose
		// identity is absent. An empty set deletes all rows.
		MirrorTransactions(ctx context.Context, userID string, txs []core.ExpenseTransaction) error
	}
)

// Store is the full remote account store.
type Store interface {
	StateStore
	SnapshotStore
	TransactionStore
}
