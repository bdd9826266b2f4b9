// Package state owns the single authoritative application state and its two
// persistence lanes: a synchronous local cache written on every change, and
// a debounced remote mirror active while a session is held.
package state

import (
	"context"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/remote"
	"fintrack/internal/session"
	"fintrack/internal/storage"
)

// remoteTimeout bounds each remote call issued from a timer goroutine.
const remoteTimeout = 10 * time.Second

// Mutator computes the next state from the current one. It must treat the
// input as immutable and return a new value; the store replaces the whole
// state, never mutates it in place.
type Mutator func(core.AppState) core.AppState

// Store brokers the application state between the UI, the local cache and
// the remote account store.
//
// Every Update saves locally before returning. While a session is active the
// full state is mirrored to the remote store after a quiet period, and the
// transaction set gets its own independent lane so remote transaction rows
// exactly track the local set. Remote failures land in a single last-error
// slot and are never retried; local state is never rolled back.
type Store struct {
	local  *storage.Cache
	remote remote.Store
	logger *log.Logger

	mu    sync.Mutex
	state core.AppState
	sess  *session.Session

	stateLane *debouncer
	txLane    *debouncer

	// sendMu serializes remote sends so a slow upsert cannot land after a
	// newer one with stale data. Each send samples the state after taking
	// the lock, so the later send always carries the newer value.
	sendMu sync.Mutex

	errMu   sync.Mutex
	lastErr string
}

// New loads the cached state and returns a store with no active session.
func New(ctx context.Context, local *storage.Cache, rem remote.Store, quiet time.Duration, logger *log.Logger) *Store {
	s := &Store{
		local:  local,
		remote: rem,
		logger: logger,
		state:  local.Load(ctx),
	}
	s.stateLane = newDebouncer(quiet, s.sendState)
	s.txLane = newDebouncer(quiet, s.sendTransactions)
	return s
}

// State returns the current state value. Callers must not mutate the
// returned slices; all changes go through Update.
func (s *Store) State() core.AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Session returns the active session, or nil.
func (s *Store) Session() *session.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sess
}

// Update applies a mutation, saves the new state locally and schedules the
// remote lanes. The local save is synchronous; its failure is reported but
// does not undo the in-memory change.
func (s *Store) Update(ctx context.Context, mutate Mutator) core.AppState {
	s.mu.Lock()
	old := s.state
	next := mutate(old).WithDefaults()
	s.state = next
	hasSession := s.sess != nil
	s.mu.Unlock()

	if err := s.local.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "local save failed", "error", err)
		s.setError("saving locally: " + err.Error())
	}

	if hasSession {
		s.stateLane.Schedule()
		if !slices.Equal(old.Transactions, next.Transactions) {
			s.txLane.Schedule()
		}
	}
	return next
}

// SetSession activates the remote lane for an identity and pulls its data.
// The remote store is authoritative for a freshly established session: the
// three reads run in parallel and their results replace the local state
// wholesale, including any local edits made before the session was
// recognized. Pending debounced writes from a previous session are cancelled
// first so they cannot land over the freshly pulled data.
func (s *Store) SetSession(ctx context.Context, sess *session.Session) error {
	s.stateLane.Cancel()
	s.txLane.Cancel()

	s.mu.Lock()
	s.sess = sess
	s.mu.Unlock()

	var (
		fetched core.AppState
		found   bool
		snaps   []core.Snapshot
		txs     []core.ExpenseTransaction
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		fetched, found, err = s.remote.FetchState(gctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		snaps, err = s.remote.FetchSnapshots(gctx, sess.UserID)
		return err
	})
	g.Go(func() error {
		var err error
		txs, err = s.remote.FetchTransactions(gctx, sess.UserID)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.ErrorContext(ctx, "session pull failed", "user", sess.UserID, "error", err)
		s.setError("loading account data: " + err.Error())
		return err
	}

	s.mu.Lock()
	if found {
		s.state = fetched
	}
	s.state.Snapshots = snaps
	s.state.Transactions = txs
	s.state = s.state.WithDefaults()
	next := s.state
	s.mu.Unlock()

	s.clearError()
	if err := s.local.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "local save failed", "error", err)
		s.setError("saving locally: " + err.Error())
	}
	s.logger.InfoContext(ctx, "session established", "user", sess.UserID, "remote_state", found)
	return nil
}

// ClearSession deactivates the remote lane, dropping any pending sends.
// Local state is kept as-is.
func (s *Store) ClearSession() {
	s.stateLane.Cancel()
	s.txLane.Cancel()
	s.mu.Lock()
	s.sess = nil
	s.mu.Unlock()
}

// CaptureSnapshot records a net-worth snapshot for the current month and,
// when a session is active, upserts the snapshot row synchronously. The
// snapshot row carries the budget totals at capture time alongside the
// net-worth figures.
func (s *Store) CaptureSnapshot(ctx context.Context, now time.Time) core.Snapshot {
	s.mu.Lock()
	snap, updated := core.CaptureSnapshot(s.state, now)
	s.state.Snapshots = updated
	next := s.state
	sess := s.sess
	s.mu.Unlock()

	if err := s.local.Save(ctx, next); err != nil {
		s.logger.ErrorContext(ctx, "local save failed", "error", err)
		s.setError("saving locally: " + err.Error())
	}

	if sess != nil {
		rec := remote.SnapshotRecord{
			ID:               snap.ID,
			Month:            snap.Month,
			Currency:         snap.Currency,
			AssetsTotal:      snap.AssetsTotal,
			LiabilitiesTotal: snap.LiabilitiesTotal,
			NetWorth:         snap.NetWorth,
			BudgetIncome:     next.BudgetMonthlyIncome(),
			BudgetExpense:    next.BudgetMonthlyExpense(snap.Currency),
			LoanEMI:          next.MonthlyEMITotal(snap.Currency),
			CreatedAt:        snap.CreatedAt,
		}
		if err := s.remote.UpsertSnapshot(ctx, sess.UserID, rec); err != nil {
			s.logger.ErrorContext(ctx, "snapshot upsert failed", "user", sess.UserID, "error", err)
			s.setError("saving snapshot: " + err.Error())
		}
		s.stateLane.Schedule()
	}
	return snap
}

// Flush runs any pending remote sends immediately. Called on shutdown so a
// recent edit is not lost to an unexpired quiet period.
func (s *Store) Flush() {
	s.stateLane.Flush()
	s.txLane.Flush()
}

// Close cancels pending sends without running them.
func (s *Store) Close() {
	s.stateLane.Cancel()
	s.txLane.Cancel()
}

// LastError returns the most recent remote or persistence failure message,
// or "" when the last operation succeeded.
func (s *Store) LastError() string {
	s.errMu.Lock()
	defer s.errMu.Unlock()
	return s.lastErr
}

func (s *Store) setError(msg string) {
	s.errMu.Lock()
	s.lastErr = msg
	s.errMu.Unlock()
}

func (s *Store) clearError() {
	s.errMu.Lock()
	s.lastErr = ""
	s.errMu.Unlock()
}

// sendState is the state lane's task. It samples the state under the send
// lock at fire time, so a send that was scheduled earlier but fires later
// still carries the latest value.
func (s *Store) sendState() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	sess := s.sess
	snapshot := s.state
	s.mu.Unlock()
	if sess == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	if err := s.remote.UpsertState(ctx, sess.UserID, snapshot); err != nil {
		s.logger.ErrorContext(ctx, "state upsert failed", "user", sess.UserID, "error", err)
		s.setError("syncing state: " + err.Error())
		return
	}
	s.clearError()
}

// sendTransactions mirrors the local transaction set to the remote store.
// An empty local set prunes every remote row for the identity.
func (s *Store) sendTransactions() {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	s.mu.Lock()
	sess := s.sess
	txs := s.state.Transactions
	s.mu.Unlock()
	if sess == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), remoteTimeout)
	defer cancel()
	if err := s.remote.MirrorTransactions(ctx, sess.UserID, txs); err != nil {
		s.logger.ErrorContext(ctx, "transaction mirror failed", "user", sess.UserID, "error", err)
		s.setError("syncing transactions: " + err.Error())
		return
	}
	s.clearError()
}
