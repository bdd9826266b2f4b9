package http

import (
	"net/http"
	"time"

	"github.com/google/uuid"

	"fintrack/internal/core"
)

// Amounts arrive as strings so locale input ("12,50") is accepted; parsing
// and rounding happen once here at the boundary.

type assetRequest struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Currency string `json:"currency"`
	Value    string `json:"value"`
	Owner    string `json:"owner"`
}

type loanRequest struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"`
	Lender        string  `json:"lender"`
	Currency      string  `json:"currency"`
	EMIAmount     string  `json:"emiAmount"`
	Cadence       string  `json:"cadence"`
	Outstanding   string  `json:"outstanding"`
	Principal     *string `json:"principal"`
	AnnualRatePct *string `json:"annualRatePct"`
	TermMonths    *int    `json:"termMonths"`
	AutoCalc      bool    `json:"autoCalc"`
}

type liabilityRequest struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Category    string  `json:"category"`
	Currency    string  `json:"currency"`
	Outstanding string  `json:"outstanding"`
	APR         *string `json:"apr"`
}

type transactionRequest struct {
	ID          string `json:"id"`
	Date        string `json:"date"` // YYYY-MM-DD
	Category    string `json:"category"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

type budgetItemRequest struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Amount   string `json:"amount"`
	Cadence  string `json:"cadence"`
}

type budgetRequest struct {
	Income   []budgetItemRequest `json:"income"`
	Expenses []budgetItemRequest `json:"expenses"`
}

func (s *Server) handleUpsertAsset(w http.ResponseWriter, r *http.Request) {
	var req assetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	value, err := core.ParseAmount(req.Value)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid value")
		return
	}
	if req.Owner == "" {
		req.Owner = string(core.OwnerSelf)
	}
	asset := core.Asset{
		ID:       orNewID(req.ID),
		Name:     req.Name,
		Category: req.Category,
		Currency: req.Currency,
		Value:    value,
		Owner:    core.OwnerTag(req.Owner),
		ValuedAt: time.Now(),
	}
	if err := asset.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Assets = upsertByID(st.Assets, asset, func(a core.Asset) string { return a.ID })
		return st
	})
	writeJSON(w, http.StatusOK, asset)
}

func (s *Server) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Assets = deleteByID(st.Assets, id, func(a core.Asset) string { return a.ID })
		return st
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpsertLoan(w http.ResponseWriter, r *http.Request) {
	var req loanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	loan := core.Loan{
		ID:         orNewID(req.ID),
		Name:       req.Name,
		Category:   req.Category,
		Lender:     req.Lender,
		Currency:   req.Currency,
		Cadence:    cadenceOrMonthly(req.Cadence),
		TermMonths: req.TermMonths,
		AutoCalc:   req.AutoCalc,
	}
	var err error
	if loan.EMIAmount, err = amountOrZero(req.EMIAmount); err != nil {
		writeError(w, http.StatusBadRequest, "invalid emiAmount")
		return
	}
	if loan.Outstanding, err = amountOrZero(req.Outstanding); err != nil {
		writeError(w, http.StatusBadRequest, "invalid outstanding")
		return
	}
	if loan.Principal, err = optionalAmount(req.Principal); err != nil {
		writeError(w, http.StatusBadRequest, "invalid principal")
		return
	}
	if loan.AnnualRatePct, err = optionalAmount(req.AnnualRatePct); err != nil {
		writeError(w, http.StatusBadRequest, "invalid annualRatePct")
		return
	}
	if err := loan.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Loans = upsertByID(st.Loans, loan, func(l core.Loan) string { return l.ID })
		return st
	})
	writeJSON(w, http.StatusOK, map[string]any{
		"loan":       loan,
		"monthlyEMI": loan.MonthlyEMI(),
	})
}

func (s *Server) handleDeleteLoan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Loans = deleteByID(st.Loans, id, func(l core.Loan) string { return l.ID })
		return st
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpsertLiability(w http.ResponseWriter, r *http.Request) {
	var req liabilityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	liab := core.Liability{
		ID:       orNewID(req.ID),
		Name:     req.Name,
		Category: req.Category,
		Currency: req.Currency,
	}
	var err error
	if liab.Outstanding, err = amountOrZero(req.Outstanding); err != nil {
		writeError(w, http.StatusBadRequest, "invalid outstanding")
		return
	}
	if liab.APR, err = optionalAmount(req.APR); err != nil {
		writeError(w, http.StatusBadRequest, "invalid apr")
		return
	}
	if err := liab.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Liabilities = upsertByID(st.Liabilities, liab, func(l core.Liability) string { return l.ID })
		return st
	})
	writeJSON(w, http.StatusOK, liab)
}

func (s *Server) handleDeleteLiability(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Liabilities = deleteByID(st.Liabilities, id, func(l core.Liability) string { return l.ID })
		return st
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleUpsertTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid amount")
		return
	}
	date := time.Now()
	if req.Date != "" {
		if date, err = time.Parse("2006-01-02", req.Date); err != nil {
			writeError(w, http.StatusBadRequest, "invalid date")
			return
		}
	}
	tx := core.ExpenseTransaction{
		ID:          orNewID(req.ID),
		Date:        date,
		Category:    req.Category,
		Description: req.Description,
		Amount:      amount,
	}
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Transactions = upsertByID(st.Transactions, tx, func(t core.ExpenseTransaction) string { return t.ID })
		return st
	})
	writeJSON(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Transactions = deleteByID(st.Transactions, id, func(t core.ExpenseTransaction) string { return t.ID })
		return st
	})
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteAllTransactions(w http.ResponseWriter, r *http.Request) {
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Transactions = []core.ExpenseTransaction{}
		return st
	})
	w.WriteHeader(http.StatusNoContent)
}

// handleReplaceBudget swaps the whole budget at once; partial budget edits
// are a client concern.
func (s *Server) handleReplaceBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	budget := core.Budget{Income: []core.BudgetItem{}, Expenses: []core.BudgetItem{}}
	for _, item := range req.Income {
		parsed, err := parseBudgetItem(item)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		budget.Income = append(budget.Income, parsed)
	}
	for _, item := range req.Expenses {
		parsed, err := parseBudgetItem(item)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		budget.Expenses = append(budget.Expenses, parsed)
	}
	s.store.Update(r.Context(), func(st core.AppState) core.AppState {
		st.Budget = budget
		return st
	})
	writeJSON(w, http.StatusOK, budget)
}

func parseBudgetItem(req budgetItemRequest) (core.BudgetItem, error) {
	amount, err := core.ParseAmount(req.Amount)
	if err != nil {
		return core.BudgetItem{}, core.ErrInvalidAmount
	}
	item := core.BudgetItem{
		ID:       orNewID(req.ID),
		Category: req.Category,
		Name:     req.Name,
		Amount:   amount,
		Cadence:  cadenceOrMonthly(req.Cadence),
	}
	return item, item.Validate()
}

func orNewID(id string) string {
	if id == "" {
		return uuid.NewString()
	}
	return id
}

func cadenceOrMonthly(c string) core.Cadence {
	if c == "" {
		return core.Monthly
	}
	return core.Cadence(c)
}

func amountOrZero(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return core.ParseAmount(s)
}

func optionalAmount(s *string) (*float64, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	v, err := core.ParseAmount(*s)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func upsertByID[T any](items []T, item T, id func(T) string) []T {
	out := make([]T, 0, len(items)+1)
	replaced := false
	for _, existing := range items {
		if id(existing) == id(item) {
			out = append(out, item)
			replaced = true
			continue
		}
		out = append(out, existing)
	}
	if !replaced {
		out = append(out, item)
	}
	return out
}

func deleteByID[T any](items []T, target string, id func(T) string) []T {
	out := make([]T, 0, len(items))
	for _, existing := range items {
		if id(existing) == target {
			continue
		}
		out = append(out, existing)
	}
	return out
}
