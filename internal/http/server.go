// Package http exposes the application over a JSON API: session
// establishment, state mutation and the derived summary values.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"fintrack/internal/log"
	"fintrack/internal/state"
)

// Server wraps http.Server with the routes bound to a state store.
type Server struct {
	http.Server

	store     *state.Store
	jwtSecret string
	logger    *log.Logger

	rateLimiter  *rateLimiter
	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, store *state.Store, jwtSecret string, logger *log.Logger) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		store:       store,
		jwtSecret:   jwtSecret,
		logger:      logger,
		rateLimiter: newRateLimiter(),
	}

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("POST /api/session", s.guard(s.handleLogin))
	mux.HandleFunc("DELETE /api/session", s.guard(s.handleLogout))
	mux.HandleFunc("GET /api/session", s.guard(s.handleSessionStatus))

	mux.HandleFunc("GET /api/state", s.guard(s.handleState))
	mux.HandleFunc("GET /api/summary", s.guard(s.handleSummary))
	mux.HandleFunc("GET /api/sync/status", s.guard(s.handleSyncStatus))

	mux.HandleFunc("POST /api/assets", s.guard(s.handleUpsertAsset))
	mux.HandleFunc("DELETE /api/assets/{id}", s.guard(s.handleDeleteAsset))
	mux.HandleFunc("POST /api/loans", s.guard(s.handleUpsertLoan))
	mux.HandleFunc("DELETE /api/loans/{id}", s.guard(s.handleDeleteLoan))
	mux.HandleFunc("POST /api/liabilities", s.guard(s.handleUpsertLiability))
	mux.HandleFunc("DELETE /api/liabilities/{id}", s.guard(s.handleDeleteLiability))
	mux.HandleFunc("POST /api/transactions", s.guard(s.handleUpsertTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.guard(s.handleDeleteTransaction))
	mux.HandleFunc("DELETE /api/transactions", s.guard(s.handleDeleteAllTransactions))
	mux.HandleFunc("PUT /api/budget", s.guard(s.handleReplaceBudget))

	mux.HandleFunc("GET /api/snapshots", s.guard(s.handleListSnapshots))
	mux.HandleFunc("POST /api/snapshots", s.guard(s.handleCaptureSnapshot))

	return s
}

// guard adds security headers, rate limiting, and request logging.
func (s *Server) guard(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Cache-Control", "no-store")

		if !s.rateLimiter.allow(clientIP(r)) {
			s.logger.WarnContext(r.Context(), "rate limit exceeded", "ip", clientIP(r), "url", r.URL.Path)
			writeError(w, http.StatusTooManyRequests, "too many requests")
			return
		}

		next(w, r)

		s.logger.DebugContext(r.Context(), "request handled",
			"method", r.Method,
			"url", r.URL.Path,
			"duration", time.Since(start),
		)
	}
}

// Shutdown flushes pending remote sends, then stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.store.Flush()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
