package core

import "math"

// MonthlyAmount converts an amount at the given cadence into its monthly
// equivalent. Non-finite amounts normalize to 0. Unknown cadence tags are
// treated as monthly; callers validate cadence at the input boundary.
func MonthlyAmount(amount float64, cadence Cadence) float64 {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return 0
	}
	switch cadence {
	case Weekly:
		return amount * 52 / 12
	case Fortnightly:
		return amount * 26 / 12
	case Yearly:
		return amount / 12
	default:
		return amount
	}
}
