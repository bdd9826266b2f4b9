package core

import "math"

// EMI computes the fixed monthly installment amortizing principal over
// termMonths at the given annual rate (in percent):
//
//	installment = P·r·(1+r)^n / ((1+r)^n − 1), r = rate/100/12, n = termMonths
//
// It returns 0 whenever the installment cannot be computed (principal or
// term not positive, non-finite inputs); the caller falls back to a manual
// EMI. A zero monthly rate degrades to straight-line principal/term.
// The result is rounded to 2 decimals.
func EMI(principal, annualRatePct float64, termMonths int) float64 {
	if principal <= 0 || termMonths <= 0 {
		return 0
	}
	if math.IsNaN(principal) || math.IsInf(principal, 0) ||
		math.IsNaN(annualRatePct) || math.IsInf(annualRatePct, 0) {
		return 0
	}
	n := float64(termMonths)
	r := annualRatePct / 100 / 12
	if r == 0 {
		return Round2(principal / n)
	}
	pow := math.Pow(1+r, n)
	return Round2(principal * r * pow / (pow - 1))
}

// MonthlyEMI is a loan's effective monthly installment: the auto-calculated
// EMI when auto-calculation is enabled (0 if principal, rate or term is
// missing), otherwise the manual EMI amount normalized to monthly and rounded.
// This is the single source of truth for a loan's monthly cash outflow.
func (l Loan) MonthlyEMI() float64 {
	if l.AutoCalc {
		if l.Principal == nil || l.AnnualRatePct == nil || l.TermMonths == nil {
			return 0
		}
		return EMI(*l.Principal, *l.AnnualRatePct, *l.TermMonths)
	}
	return Round2(MonthlyAmount(l.EMIAmount, l.Cadence))
}
