package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"fintrack/internal/core"
)

func newTestCache(t *testing.T) *Cache {
	t.Helper()
	cache, err := NewCache(filepath.Join(t.TempDir(), "fintrack.db"))
	if err != nil {
		t.Fatalf("new cache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

func TestLoadMissingReturnsDefault(t *testing.T) {
	cache := newTestCache(t)
	state := cache.Load(context.Background())
	if len(state.Assets) != 0 || len(state.Loans) != 0 {
		t.Fatalf("expected empty default state, got %+v", state)
	}
	if state.DisplayCurrency == "" {
		t.Fatal("default state must carry a display currency")
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	state := core.DefaultState()
	state.Assets = []core.Asset{{
		ID: "a1", Name: "flat", Currency: "EUR", Value: 250000,
		Owner: core.OwnerJoint, ValuedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}}
	state.Transactions = []core.ExpenseTransaction{{
		ID: "t1", Date: time.Date(2025, 2, 3, 0, 0, 0, 0, time.UTC),
		Category: "food", Description: "groceries", Amount: 42.50,
	}}

	if err := cache.Save(ctx, state); err != nil {
		t.Fatalf("save: %v", err)
	}

	loaded := cache.Load(ctx)
	if len(loaded.Assets) != 1 || loaded.Assets[0].Value != 250000 {
		t.Fatalf("asset not restored: %+v", loaded.Assets)
	}
	if len(loaded.Transactions) != 1 || loaded.Transactions[0].Amount != 42.50 {
		t.Fatalf("transaction not restored: %+v", loaded.Transactions)
	}
}

func TestSaveOverwritesSameKey(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	first := core.DefaultState()
	first.DisplayCurrency = "USD"
	if err := cache.Save(ctx, first); err != nil {
		t.Fatalf("save: %v", err)
	}

	second := core.DefaultState()
	second.DisplayCurrency = "GBP"
	if err := cache.Save(ctx, second); err != nil {
		t.Fatalf("save: %v", err)
	}

	if got := cache.Load(ctx).DisplayCurrency; got != "GBP" {
		t.Fatalf("expected latest save to win, got %q", got)
	}
}

func TestLoadPartialPayloadMergesDefaults(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	// Simulate an old payload written before most collections existed.
	_, err := cache.db.ExecContext(ctx,
		`INSERT INTO app_state (key, payload) VALUES (?, ?)`,
		stateKey, `{"assets":[{"id":"a1","name":"x","value":100,"owner":"self"}]}`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	state := cache.Load(ctx)
	if len(state.Assets) != 1 || state.Assets[0].Value != 100 {
		t.Fatalf("asset not preserved: %+v", state.Assets)
	}
	if state.Loans == nil || state.Liabilities == nil || state.Snapshots == nil ||
		state.Budget.Income == nil || state.Budget.Expenses == nil {
		t.Fatal("missing collections must load as empty, not nil")
	}
}

func TestLoadMalformedPayloadReturnsDefault(t *testing.T) {
	cache := newTestCache(t)
	ctx := context.Background()

	_, err := cache.db.ExecContext(ctx,
		`INSERT INTO app_state (key, payload) VALUES (?, ?)`, stateKey, `{not json`)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}

	state := cache.Load(ctx)
	if len(state.Assets) != 0 {
		t.Fatalf("expected empty default after malformed payload, got %+v", state)
	}
}
