package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Monthly     Cadence = "monthly"
	Weekly      Cadence = "weekly"
	Fortnightly Cadence = "fortnightly"
	Yearly      Cadence = "yearly"
)

const (
	OwnerSelf    OwnerTag = "self"
	OwnerPartner OwnerTag = "partner"
	OwnerJoint   OwnerTag = "joint"
)

type (
	// Cadence is the recurrence period of a monetary item.
	Cadence string

	// OwnerTag identifies who holds an asset.
	OwnerTag string

	// Loan is an amortizing debt with either a manually entered EMI or an
	// auto-calculated one from principal, annual rate and term.
	Loan struct {
		ID            string   `json:"id"`
		Name          string   `json:"name"`
		Category      string   `json:"category"`
		Lender        string   `json:"lender,omitempty"`
		Currency      string   `json:"currency"`
		EMIAmount     float64  `json:"emiAmount"`
		Cadence       Cadence  `json:"cadence"`
		Outstanding   float64  `json:"outstanding"`
		Principal     *float64 `json:"principal,omitempty"`
		AnnualRatePct *float64 `json:"annualRatePct,omitempty"`
		TermMonths    *int     `json:"termMonths,omitempty"`
		AutoCalc      bool     `json:"autoCalc"`
	}

	Asset struct {
		ID       string    `json:"id"`
		Name     string    `json:"name"`
		Category string    `json:"category"`
		Currency string    `json:"currency"`
		Value    float64   `json:"value"`
		Owner    OwnerTag  `json:"owner"`
		ValuedAt time.Time `json:"valuedAt"`
	}

	// Liability is a non-loan debt (credit card balance, unpaid bill, ...).
	Liability struct {
		ID          string     `json:"id"`
		Name        string     `json:"name"`
		Category    string     `json:"category"`
		Currency    string     `json:"currency"`
		Outstanding float64    `json:"outstanding"`
		APR         *float64   `json:"apr,omitempty"`
		DueDate     *time.Time `json:"dueDate,omitempty"`
	}

	BudgetItem struct {
		ID       string  `json:"id"`
		Category string  `json:"category"`
		Name     string  `json:"name"`
		Amount   float64 `json:"amount"`
		Cadence  Cadence `json:"cadence"`
	}

	// Budget splits budget items into the two named lists.
	Budget struct {
		Income   []BudgetItem `json:"income"`
		Expenses []BudgetItem `json:"expenses"`
	}

	// ExpenseTransaction is a flat ledger entry, not linked to any BudgetItem.
	ExpenseTransaction struct {
		ID          string    `json:"id"`
		Date        time.Time `json:"date"`
		Category    string    `json:"category"`
		Description string    `json:"description"`
		Amount      float64   `json:"amount"`
	}

	// Snapshot is a stored point-in-time net-worth measurement. At most one
	// snapshot exists per (month, currency) key.
	Snapshot struct {
		ID               string    `json:"id"`
		Month            string    `json:"month"` // YYYY-MM
		Currency         string    `json:"currency"`
		AssetsTotal      float64   `json:"assetsTotal"`
		LiabilitiesTotal float64   `json:"liabilitiesTotal"`
		NetWorth         float64   `json:"netWorth"`
		CreatedAt        time.Time `json:"createdAt"`
	}

	// AppState is the aggregate root. It is immutable by replacement: every
	// mutation produces a new value, never an in-place edit.
	AppState struct {
		Loans           []Loan               `json:"loans"`
		Assets          []Asset              `json:"assets"`
		Liabilities     []Liability          `json:"liabilities"`
		Budget          Budget               `json:"budget"`
		Transactions    []ExpenseTransaction `json:"transactions"`
		Snapshots       []Snapshot           `json:"snapshots"`
		DisplayCurrency string               `json:"displayCurrency"`
	}
)

var (
	ErrEmptyName      = errors.New("empty name")
	ErrInvalidCadence = errors.New("invalid cadence")
	ErrInvalidOwner   = errors.New("invalid owner tag")
	ErrInvalidAmount  = errors.New("invalid amount")
)

// Valid reports whether c is one of the canonical cadence values.
func (c Cadence) Valid() bool {
	switch c {
	case Monthly, Weekly, Fortnightly, Yearly:
		return true
	default:
		return false
	}
}

// Valid reports whether o is one of the closed owner set.
func (o OwnerTag) Valid() bool {
	switch o {
	case OwnerSelf, OwnerPartner, OwnerJoint:
		return true
	default:
		return false
	}
}

const defaultCurrency = "EUR"

// DefaultState returns the hard-coded empty state used whenever the local
// cache is absent or cannot be decoded.
func DefaultState() AppState {
	return AppState{
		Loans:           []Loan{},
		Assets:          []Asset{},
		Liabilities:     []Liability{},
		Budget:          Budget{Income: []BudgetItem{}, Expenses: []BudgetItem{}},
		Transactions:    []ExpenseTransaction{},
		Snapshots:       []Snapshot{},
		DisplayCurrency: defaultCurrency,
	}
}

// WithDefaults fills every missing collection and field of a partially
// decoded state so that old saved payloads always load into a full shape.
func (s AppState) WithDefaults() AppState {
	if s.Loans == nil {
		s.Loans = []Loan{}
	}
	if s.Assets == nil {
		s.Assets = []Asset{}
	}
	if s.Liabilities == nil {
		s.Liabilities = []Liability{}
	}
	if s.Budget.Income == nil {
		s.Budget.Income = []BudgetItem{}
	}
	if s.Budget.Expenses == nil {
		s.Budget.Expenses = []BudgetItem{}
	}
	if s.Transactions == nil {
		s.Transactions = []ExpenseTransaction{}
	}
	if s.Snapshots == nil {
		s.Snapshots = []Snapshot{}
	}
	if s.DisplayCurrency == "" {
		s.DisplayCurrency = defaultCurrency
	}
	return s
}

func (l Loan) Validate() error {
	if len(strings.TrimSpace(l.Name)) == 0 {
		return ErrEmptyName
	}
	if !l.Cadence.Valid() {
		return ErrInvalidCadence
	}
	return nil
}

func (a Asset) Validate() error {
	if len(strings.TrimSpace(a.Name)) == 0 {
		return ErrEmptyName
	}
	if !a.Owner.Valid() {
		return ErrInvalidOwner
	}
	return nil
}

func (l Liability) Validate() error {
	if len(strings.TrimSpace(l.Name)) == 0 {
		return ErrEmptyName
	}
	return nil
}

func (b BudgetItem) Validate() error {
	if len(strings.TrimSpace(b.Name)) == 0 {
		return ErrEmptyName
	}
	if !b.Cadence.Valid() {
		return ErrInvalidCadence
	}
	return nil
}
