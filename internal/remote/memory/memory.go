// Package memory is an in-memory remote store used in tests and when
// running without a configured remote database.
package memory

import (
	"context"
	"sort"
	"sync"

	"fintrack/internal/core"
	"fintrack/internal/remote"
)

type Store struct {
	mu        sync.Mutex
	states    map[string]core.AppState
	snapshots map[string]map[string]remote.SnapshotRecord // userID -> (month|currency) -> record
	txs       map[string]map[string]core.ExpenseTransaction

	// FailWith, when set, makes every operation return this error.
	FailWith error
}

func New() *Store {
	return &Store{
		states:    make(map[string]core.AppState),
		snapshots: make(map[string]map[string]remote.SnapshotRecord),
		txs:       make(map[string]map[string]core.ExpenseTransaction),
	}
}

func snapshotKey(rec remote.SnapshotRecord) string {
	return rec.Month + "|" + rec.Currency
}

// FetchState implements remote.StateStore.
func (s *Store) FetchState(_ context.Context, userID string) (core.AppState, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return core.AppState{}, false, s.FailWith
	}
	state, ok := s.states[userID]
	return state, ok, nil
}

// UpsertState implements remote.StateStore.
func (s *Store) UpsertState(_ context.Context, userID string, state core.AppState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	s.states[userID] = state
	return nil
}

// FetchSnapshots implements remote.SnapshotStore.
func (s *Store) FetchSnapshots(_ context.Context, userID string) ([]core.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := []core.Snapshot{}
	for _, rec := range s.snapshots[userID] {
		out = append(out, core.Snapshot{
			ID:               rec.ID,
			Month:            rec.Month,
			Currency:         rec.Currency,
			AssetsTotal:      rec.AssetsTotal,
			LiabilitiesTotal: rec.LiabilitiesTotal,
			NetWorth:         rec.NetWorth,
			CreatedAt:        rec.CreatedAt,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// UpsertSnapshot implements remote.SnapshotStore.
func (s *Store) UpsertSnapshot(_ context.Context, userID string, rec remote.SnapshotRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	if s.snapshots[userID] == nil {
		s.snapshots[userID] = make(map[string]remote.SnapshotRecord)
	}
	s.snapshots[userID][snapshotKey(rec)] = rec
	return nil
}

// FetchTransactions implements remote.TransactionStore.
func (s *Store) FetchTransactions(_ context.Context, userID string) ([]core.ExpenseTransaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return nil, s.FailWith
	}
	out := []core.ExpenseTransaction{}
	for _, tx := range s.txs[userID] {
		out = append(out, tx)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.After(out[j].Date) })
	return out, nil
}

// MirrorTransactions implements remote.TransactionStore.
func (s *Store) MirrorTransactions(_ context.Context, userID string, txs []core.ExpenseTransaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWith != nil {
		return s.FailWith
	}
	mirror := make(map[string]core.ExpenseTransaction, len(txs))
	for _, tx := range txs {
		mirror[tx.ID] = tx
	}
	s.txs[userID] = mirror
	return nil
}

// SeedState installs a remote state blob for an identity, used in tests.
func (s *Store) SeedState(userID string, state core.AppState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[userID] = state
}

// TransactionIDs returns the stored transaction identities for an identity.
func (s *Store) TransactionIDs(userID string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := []string{}
	for id := range s.txs[userID] {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// StateFor returns the stored state blob for an identity, used in tests.
func (s *Store) StateFor(userID string) (core.AppState, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state, ok := s.states[userID]
	return state, ok
}

// SnapshotFor returns the stored snapshot record for a key, used in tests.
func (s *Store) SnapshotFor(userID, month, currency string) (remote.SnapshotRecord, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.snapshots[userID][month+"|"+currency]
	return rec, ok
}

var _ remote.Store = (*Store)(nil)
