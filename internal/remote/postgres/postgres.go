// Package postgres implements the remote account store on PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"fintrack/internal/core"
	"fintrack/internal/remote"
)

//go:embed schema.sql
var schemaSQL string

type Store struct {
	db *sql.DB
}

// New opens a connection to the remote store and verifies it.
func New(databaseURL string) (*Store, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open remote database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping remote database: %w", err)
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an existing connection, used in tests.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the three tables when the store is self-hosted.
// A managed store with row-level access control ships the schema already.
func (s *Store) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// FetchState implements remote.StateStore.
func (s *Store) FetchState(ctx context.Context, userID string) (core.AppState, bool, error) {
	var payload []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM user_state WHERE user_id = $1`, userID).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return core.AppState{}, false, nil
	}
	if err != nil {
		return core.AppState{}, false, fmt.Errorf("fetch state: %w", err)
	}

	var state core.AppState
	if err := json.Unmarshal(payload, &state); err != nil {
		return core.AppState{}, false, fmt.Errorf("decode state payload: %w", err)
	}
	return state.WithDefaults(), true, nil
}

// UpsertState implements remote.StateStore.
func (s *Store) UpsertState(ctx context.Context, userID string, state core.AppState) error {
	payload, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_state (user_id, payload, updated_at)
		VALUES ($1, $2, CURRENT_TIMESTAMP)
		ON CONFLICT (user_id)
		DO UPDATE SET payload = EXCLUDED.payload, updated_at = CURRENT_TIMESTAMP`,
		userID, payload)
	if err != nil {
		return fmt.Errorf("upsert state: %w", err)
	}
	return nil
}

// FetchSnapshots implements remote.SnapshotStore.
func (s *Store) FetchSnapshots(ctx context.Context, userID string) ([]core.Snapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, month, currency, assets_total, liabilities_total, net_worth, created_at
		FROM monthly_snapshots
		WHERE user_id = $1
		ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch snapshots: %w", err)
	}
	defer rows.Close()

	snapshots := []core.Snapshot{}
	for rows.Next() {
		var snap core.Snapshot
		if err := rows.Scan(&snap.ID, &snap.Month, &snap.Currency,
			&snap.AssetsTotal, &snap.LiabilitiesTotal, &snap.NetWorth, &snap.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		snapshots = append(snapshots, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate snapshots: %w", err)
	}
	return snapshots, nil
}

// UpsertSnapshot implements remote.SnapshotStore.
func (s *Store) UpsertSnapshot(ctx context.Context, userID string, rec remote.SnapshotRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO monthly_snapshots
			(id, user_id, month, currency, assets_total, liabilities_total, net_worth,
			 budget_income, budget_expense, loan_emi, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (user_id, month, currency)
		DO UPDATE SET
			id = EXCLUDED.id,
			assets_total = EXCLUDED.assets_total,
			liabilities_total = EXCLUDED.liabilities_total,
			net_worth = EXCLUDED.net_worth,
			budget_income = EXCLUDED.budget_income,
			budget_expense = EXCLUDED.budget_expense,
			loan_emi = EXCLUDED.loan_emi,
			created_at = EXCLUDED.created_at`,
		rec.ID, userID, rec.Month, rec.Currency, rec.AssetsTotal, rec.LiabilitiesTotal,
		rec.NetWorth, rec.BudgetIncome, rec.BudgetExpense, rec.LoanEMI, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// FetchTransactions implements remote.TransactionStore.
func (s *Store) FetchTransactions(ctx context.Context, userID string) ([]core.ExpenseTransaction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tx_date, category, description, amount
		FROM expense_transactions
		WHERE user_id = $1
		ORDER BY tx_date DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("fetch transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.ExpenseTransaction{}
	for rows.Next() {
		var tx core.ExpenseTransaction
		if err := rows.Scan(&tx.ID, &tx.Date, &tx.Category, &tx.Description, &tx.Amount); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txs = append(txs, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

// MirrorTransactions implements remote.TransactionStore via upsert-then-prune.
func (s *Store) MirrorTransactions(ctx context.Context, userID string, txs []core.ExpenseTransaction) error {
	dbTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction mirror: %w", err)
	}
	defer dbTx.Rollback()

	// With nothing local left, everything remote goes.
	if len(txs) == 0 {
		if _, err := dbTx.ExecContext(ctx,
			`DELETE FROM expense_transactions WHERE user_id = $1`, userID); err != nil {
			return fmt.Errorf("delete all transactions: %w", err)
		}
		return dbTx.Commit()
	}

	ids := make([]string, 0, len(txs))
	for _, tx := range txs {
		ids = append(ids, tx.ID)
		_, err := dbTx.ExecContext(ctx, `
			INSERT INTO expense_transactions (id, user_id, tx_date, category, description, amount)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (id)
			DO UPDATE SET
				tx_date = EXCLUDED.tx_date,
				category = EXCLUDED.category,
				description = EXCLUDED.description,
				amount = EXCLUDED.amount`,
			tx.ID, userID, tx.Date, tx.Category, tx.Description, tx.Amount)
		if err != nil {
			return fmt.Errorf("upsert transaction %s: %w", tx.ID, err)
		}
	}

	// Prune rows whose identity is absent from the current local set.
	if _, err := dbTx.ExecContext(ctx, `
		DELETE FROM expense_transactions
		WHERE user_id = $1 AND id <> ALL($2)`,
		userID, pq.Array(ids)); err != nil {
		return fmt.Errorf("prune transactions: %w", err)
	}

	return dbTx.Commit()
}

var _ remote.Store = (*Store)(nil)
