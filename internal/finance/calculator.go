package finance

import (
	"liencrm_backend/platform/apperr"

	"github.com/shopspring/decimal"
)

// MonthlyPayment computes the payment for a standard amortizing loan:
//
//	payment = principal * (r * (1+r)^n) / ((1+r)^n - 1)
//
// where r is the monthly rate (annualRate/12) and n the term in months.
// Returns zero when principal or annualRate is not positive. A term of
// zero or less is a caller error.
func MonthlyPayment(principal, annualRate decimal.Decimal, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, apperr.Validation("term months must be positive")
	}
	if !principal.IsPositive() || !annualRate.IsPositive() {
		return decimal.Zero, nil
	}

	monthlyRate := annualRate.Div(twelve)
	if monthlyRate.IsZero() {
		return roundCents(principal.Div(decimal.NewFromInt(int64(termMonths)))), nil
	}

	// (1+r)^n is exact for a decimal base and integer exponent.
	compound := decimal.NewFromInt(1).Add(monthlyRate).Pow(decimal.NewFromInt(int64(termMonths)))

	payment := principal.
		Mul(monthlyRate.Mul(compound)).
		Div(compound.Sub(decimal.NewFromInt(1)))

	return roundCents(payment), nil
}

// LTVRatio returns loanAmount / propertyValue rounded to 4 decimal places.
// A non-positive property value yields 0.0000 rather than an error: the
// caller may legitimately hold an unvalued property.
func LTVRatio(loanAmount, propertyValue decimal.Decimal) decimal.Decimal {
	if !propertyValue.IsPositive() {
		return roundRatio(decimal.Zero)
	}
	return roundRatio(loanAmount.Div(propertyValue))
}

// MaxLoanAmount returns propertyValue * maxLTV rounded to cents.
func MaxLoanAmount(propertyValue, maxLTV decimal.Decimal) decimal.Decimal {
	return roundCents(propertyValue.Mul(maxLTV))
}

// LoanCost summarizes the full cost of a loan over its term.
type LoanCost struct {
	MonthlyPayment     decimal.Decimal `json:"monthlyPayment"`
	TotalPayments      decimal.Decimal `json:"totalPayments"`
	TotalInterest      decimal.Decimal `json:"totalInterest"`
	InterestPercentage decimal.Decimal `json:"interestPercentage"`
}

// TotalLoanCost derives the total cost figures from MonthlyPayment.
// interestPercentage is totalInterest/principal*100, rounded to 2 decimals.
func TotalLoanCost(principal, annualRate decimal.Decimal, termMonths int) (LoanCost, error) {
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return LoanCost{}, err
	}

	total := payment.Mul(decimal.NewFromInt(int64(termMonths)))
	interest := total.Sub(principal)

	var pct decimal.Decimal
	if principal.IsPositive() {
		pct = interest.DivRound(principal, 6).Mul(hundred).Round(2)
	}

	return LoanCost{
		MonthlyPayment:     payment,
		TotalPayments:      roundCents(total),
		TotalInterest:      roundCents(interest),
		InterestPercentage: pct,
	}, nil
}
