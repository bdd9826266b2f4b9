package core

import (
	"math"
	"testing"
)

func testState() AppState {
	s := DefaultState()
	s.DisplayCurrency = "EUR"
	s.Assets = []Asset{
		{ID: "a1", Name: "flat", Currency: "EUR", Value: 250000, Owner: OwnerJoint},
		{ID: "a2", Name: "savings", Currency: "EUR", Value: 10500.55, Owner: OwnerSelf},
		{ID: "a3", Name: "usd account", Currency: "USD", Value: 3000, Owner: OwnerSelf},
	}
	s.Liabilities = []Liability{
		{ID: "l1", Name: "credit card", Currency: "EUR", Outstanding: 1200.45},
		{ID: "l2", Name: "usd card", Currency: "USD", Outstanding: 500},
	}
	s.Loans = []Loan{
		{
			ID: "m1", Name: "mortgage", Currency: "EUR", Outstanding: 180000,
			AutoCalc: true, Principal: f64(200000), AnnualRatePct: f64(3.5), TermMonths: intp(240),
		},
		{
			ID: "m2", Name: "car", Currency: "EUR", Outstanding: 8000,
			AutoCalc: false, EMIAmount: 250, Cadence: Monthly,
		},
	}
	s.Budget = Budget{
		Income: []BudgetItem{
			{ID: "i1", Name: "salary", Amount: 3500, Cadence: Monthly},
			{ID: "i2", Name: "side gig", Amount: 1200, Cadence: Yearly},
		},
		Expenses: []BudgetItem{
			{ID: "e1", Name: "groceries", Amount: 120, Cadence: Weekly},
			{ID: "e2", Name: "insurance", Amount: 600, Cadence: Yearly},
		},
	}
	return s
}

func TestAssetsTotal(t *testing.T) {
	s := testState()
	if got := s.AssetsTotal("EUR"); got != 260500.55 {
		t.Fatalf("EUR assets total = %v, want 260500.55", got)
	}
	if got := s.AssetsTotal("USD"); got != 3000 {
		t.Fatalf("USD assets total = %v, want 3000", got)
	}
	if got := s.AssetsTotal(""); got != 263500.55 {
		t.Fatalf("unfiltered assets total = %v, want 263500.55", got)
	}
}

func TestLiabilitiesTotalIncludesLoans(t *testing.T) {
	s := testState()
	want := Sum(1200.45, 180000, 8000)
	if got := s.LiabilitiesTotal("EUR"); got != want {
		t.Fatalf("EUR liabilities total = %v, want %v", got, want)
	}
}

func TestNetWorthIdentity(t *testing.T) {
	states := []AppState{DefaultState(), testState()}
	for i, s := range states {
		for _, ccy := range []string{"", "EUR", "USD", "GBP"} {
			want := Round2(s.AssetsTotal(ccy) - s.LiabilitiesTotal(ccy))
			if got := s.NetWorth(ccy); got != want {
				t.Fatalf("state %d ccy %q: net worth = %v, want %v", i, ccy, got, want)
			}
		}
	}
}

func TestMonthlyEMITotal(t *testing.T) {
	s := testState()
	mortgage := EMI(200000, 3.5, 240)
	want := Sum(mortgage, 250)
	if got := s.MonthlyEMITotal("EUR"); got != want {
		t.Fatalf("monthly EMI total = %v, want %v", got, want)
	}
	if got := s.MonthlyEMITotal("USD"); got != 0 {
		t.Fatalf("USD EMI total = %v, want 0", got)
	}
}

func TestBudgetTotals(t *testing.T) {
	s := testState()

	wantIncome := Sum(3500, MonthlyAmount(1200, Yearly))
	if got := s.BudgetMonthlyIncome(); got != wantIncome {
		t.Fatalf("budget income = %v, want %v", got, wantIncome)
	}

	wantExpense := Sum(MonthlyAmount(120, Weekly), MonthlyAmount(600, Yearly), s.MonthlyEMITotal("EUR"))
	if got := s.BudgetMonthlyExpense("EUR"); got != wantExpense {
		t.Fatalf("budget expense = %v, want %v", got, wantExpense)
	}

	wantLeftover := Round2(wantIncome - wantExpense)
	if got := s.BudgetLeftover("EUR"); got != wantLeftover {
		t.Fatalf("budget leftover = %v, want %v", got, wantLeftover)
	}
}

func TestAggregatesCoerceNonFinite(t *testing.T) {
	s := DefaultState()
	s.Assets = []Asset{
		{ID: "a1", Name: "ok", Currency: "EUR", Value: 100, Owner: OwnerSelf},
		{ID: "a2", Name: "bad", Currency: "EUR", Value: math.NaN(), Owner: OwnerSelf},
	}
	if got := s.AssetsTotal("EUR"); got != 100 {
		t.Fatalf("assets total with NaN value = %v, want 100", got)
	}
}
