package core

// Aggregate totals are pure functions over the current state, recomputed on
// every read. A currency filter of "" means all currencies; otherwise only
// entries bucketed under that currency label count (amounts are never
// converted between currencies).

func matchCurrency(itemCurrency, filter string) bool {
	return filter == "" || itemCurrency == filter
}

// AssetsTotal is the sum of asset values, optionally currency-filtered.
func (s AppState) AssetsTotal(currency string) float64 {
	values := make([]float64, 0, len(s.Assets))
	for _, a := range s.Assets {
		if matchCurrency(a.Currency, currency) {
			values = append(values, a.Value)
		}
	}
	return Sum(values...)
}

// LiabilitiesTotal is the sum of non-loan liability outstanding amounts plus
// loan outstanding balances, currency-filtered consistently with AssetsTotal.
func (s AppState) LiabilitiesTotal(currency string) float64 {
	values := make([]float64, 0, len(s.Liabilities)+len(s.Loans))
	for _, l := range s.Liabilities {
		if matchCurrency(l.Currency, currency) {
			values = append(values, l.Outstanding)
		}
	}
	for _, l := range s.Loans {
		if matchCurrency(l.Currency, currency) {
			values = append(values, l.Outstanding)
		}
	}
	return Sum(values...)
}

// NetWorth is assets minus liabilities.
func (s AppState) NetWorth(currency string) float64 {
	return Round2(s.AssetsTotal(currency) - s.LiabilitiesTotal(currency))
}

// MonthlyEMITotal is the sum of each loan's effective monthly EMI.
func (s AppState) MonthlyEMITotal(currency string) float64 {
	values := make([]float64, 0, len(s.Loans))
	for _, l := range s.Loans {
		if matchCurrency(l.Currency, currency) {
			values = append(values, l.MonthlyEMI())
		}
	}
	return Sum(values...)
}

// BudgetMonthlyIncome is the cadence-normalized sum of the income list.
func (s AppState) BudgetMonthlyIncome() float64 {
	values := make([]float64, 0, len(s.Budget.Income))
	for _, item := range s.Budget.Income {
		values = append(values, MonthlyAmount(item.Amount, item.Cadence))
	}
	return Sum(values...)
}

// BudgetMonthlyExpense is the cadence-normalized sum of the expense list
// plus the monthly EMI total: loan installments count as household outflow
// everywhere expense is reported.
func (s AppState) BudgetMonthlyExpense(currency string) float64 {
	values := make([]float64, 0, len(s.Budget.Expenses)+1)
	for _, item := range s.Budget.Expenses {
		values = append(values, MonthlyAmount(item.Amount, item.Cadence))
	}
	values = append(values, s.MonthlyEMITotal(currency))
	return Sum(values...)
}

// BudgetLeftover is monthly income minus monthly expense (EMI-inclusive).
func (s AppState) BudgetLeftover(currency string) float64 {
	return Round2(s.BudgetMonthlyIncome() - s.BudgetMonthlyExpense(currency))
}
