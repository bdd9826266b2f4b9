// Package core holds the domain model and all pure financial computation:
// cadence normalization, EMI math, aggregate totals and snapshot capture.
//
// Numeric policy: amounts are float64, non-finite values coerce to 0, and
// rounding to 2 decimals happens once at each result boundary, never per term.
package core

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// Round2 rounds v to 2 decimal places, half away from zero. A sign-matched
// epsilon is added before rounding to counter binary representation error
// (so 2.675 rounds to 2.68, not 2.67). Non-finite input rounds to 0.
// Round2 is idempotent.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return math.Round(v*100+math.Copysign(1e-9, v)) / 100
}

// Sum adds the given values, treating non-finite addends as 0, and rounds
// the final result to 2 decimals.
func Sum(values ...float64) float64 {
	var total float64
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		total += v
	}
	return Round2(total)
}

// ParseAmount converts a user-entered decimal string to a float64 amount,
// rounded half-up to 2 places. Both dot (12.34) and comma (12,34) decimal
// separators are accepted. Negative amounts are allowed; empty or malformed
// input is an error.
func ParseAmount(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, ErrInvalidAmount
	}
	f, _ := d.Round(2).Float64()
	return f, nil
}
