package http

import (
	"net/http"
	"time"

	"fintrack/internal/session"
)

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sess, err := session.Parse(req.Token, s.jwtSecret)
	if err != nil {
		s.logger.WarnContext(r.Context(), "login rejected", "error", err)
		writeError(w, http.StatusUnauthorized, "invalid token")
		return
	}
	if sess.Expired(time.Now()) {
		writeError(w, http.StatusUnauthorized, "session expired")
		return
	}

	// The session stays active even when the pull fails; the client sees
	// the failure via the sync status and local edits keep flowing.
	if err := s.store.SetSession(r.Context(), sess); err != nil {
		writeJSON(w, http.StatusOK, map[string]any{
			"userId":    sess.UserID,
			"syncError": s.store.LastError(),
		})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"userId": sess.UserID})
}

func (s *Server) handleLogout(w http.ResponseWriter, _ *http.Request) {
	s.store.ClearSession()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleSessionStatus(w http.ResponseWriter, _ *http.Request) {
	sess := s.store.Session()
	if sess == nil {
		writeJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"active":    true,
		"userId":    sess.UserID,
		"expiresAt": sess.ExpiresAt,
	})
}

func (s *Server) handleState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State())
}

// handleSummary returns the derived display values, recomputed on each
// request. The currency query parameter defaults to the display currency.
func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	st := s.store.State()
	currency := r.URL.Query().Get("currency")
	if currency == "" {
		currency = st.DisplayCurrency
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"currency":         currency,
		"assetsTotal":      st.AssetsTotal(currency),
		"liabilitiesTotal": st.LiabilitiesTotal(currency),
		"netWorth":         st.NetWorth(currency),
		"monthlyEMI":       st.MonthlyEMITotal(currency),
		"budgetIncome":     st.BudgetMonthlyIncome(),
		"budgetExpense":    st.BudgetMonthlyExpense(currency),
		"budgetLeftover":   st.BudgetLeftover(currency),
	})
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"sessionActive": s.store.Session() != nil,
		"lastError":     s.store.LastError(),
	})
}

func (s *Server) handleListSnapshots(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.store.State().Snapshots)
}

func (s *Server) handleCaptureSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.store.CaptureSnapshot(r.Context(), time.Now())
	writeJSON(w, http.StatusCreated, snap)
}
