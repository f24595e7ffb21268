// Package finance provides the loan calculation engine: amortization math,
// loan-to-value ratios, loan sizing, and risk assessment. All functions are
// pure, stateless, and safe for concurrent use.
//
// Currency and ratio math uses shopspring/decimal throughout; binary
// floating point drifts at the cent level across an amortization schedule.
// Money is rounded to 2 decimal places, ratios to 4, both half-up.
package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// PropertyFinancials is the slice of a property the risk engine consumes.
// Persistence is the caller's concern; only the shape matters here.
type PropertyFinancials struct {
	ImprovementValue decimal.Decimal
	LandValue        decimal.Decimal
	TotalValue       decimal.Decimal

	// MarketValue, when present, overrides TotalValue for valuation purposes.
	MarketValue *decimal.Decimal

	TaxAmountDue    decimal.Decimal
	ExistingTaxLoan bool
	InForeclosure   bool

	// TaxSaleDate is the county's scheduled tax sale, when known.
	TaxSaleDate *time.Time
}

// ValuationBasis returns the value used for LTV and loan sizing:
// market value when set and positive, total value otherwise.
func (p PropertyFinancials) ValuationBasis() decimal.Decimal {
	if p.MarketValue != nil && p.MarketValue.IsPositive() {
		return *p.MarketValue
	}
	return p.TotalValue
}

// roundCents quantizes to 2 decimal places. decimal.Round is half away
// from zero, which is half-up for the non-negative amounts used here.
func roundCents(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// roundRatio quantizes to 4 decimal places.
func roundRatio(d decimal.Decimal) decimal.Decimal {
	return d.Round(4)
}

var (
	twelve  = decimal.NewFromInt(12)
	hundred = decimal.NewFromInt(100)
)
