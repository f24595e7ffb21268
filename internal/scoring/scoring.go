// Package scoring computes deterministic investment scores for properties.
// A score starts at a base of 50 and accumulates additive and subtractive
// factors; the result is clamped to 0-100 and mapped onto a letter grade
// and an investment-potential tier. Re-scoring an unmodified property
// always yields an identical result.
package scoring

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// baseScore - properties start at 50 and factors add/subtract from this.
	baseScore = 50

	// Construction age bands.
	newConstructionYears = 20
	oldConstructionYears = 80
)

// Property types with score adjustments.
const (
	PropertyTypeSingleFamily = "single_family"
	PropertyTypeLand         = "land"
)

// Money thresholds for the market value tiers.
var (
	value100k = decimal.NewFromInt(100_000)
	value50k  = decimal.NewFromInt(50_000)
	value25k  = decimal.NewFromInt(25_000)
)

// Ratio thresholds.
var (
	ratio070 = decimal.RequireFromString("0.70")
	ratio030 = decimal.RequireFromString("0.30")
	ratio020 = decimal.RequireFromString("0.20")
	ratio010 = decimal.RequireFromString("0.10")
	ratio005 = decimal.RequireFromString("0.05")
)

// PropertyProfile is the slice of a property the scorer consumes.
type PropertyProfile struct {
	ImprovementValue decimal.Decimal
	LandValue        decimal.Decimal
	TotalValue       decimal.Decimal

	// MarketValue, when present, overrides TotalValue for valuation.
	MarketValue *decimal.Decimal

	TaxAmountDue    decimal.Decimal
	ExistingTaxLoan bool
	InForeclosure   bool

	PropertyType string
	YearBuilt    int
	SquareFeet   int
}

// valuationBasis mirrors the finance engine's rule: market value wins
// when set and positive.
func (p PropertyProfile) valuationBasis() decimal.Decimal {
	if p.MarketValue != nil && p.MarketValue.IsPositive() {
		return *p.MarketValue
	}
	return p.TotalValue
}

// Factor is one scored attribute with its contribution.
type Factor struct {
	Description string `json:"description"`
	Delta       int    `json:"delta"`
}

// Result holds scoring output and factor details.
type Result struct {
	Score               int             `json:"score"`
	Grade               string          `json:"grade"`
	Factors             []Factor        `json:"scoreFactors"`
	MarketValue         decimal.Decimal `json:"marketValue"`
	InvestmentPotential string          `json:"investmentPotential"`
}

// CalculatePropertyScore scores a property for investment quality. The now
// parameter anchors the construction-age bands so results are replayable.
func CalculatePropertyScore(property PropertyProfile, now time.Time) Result {
	score := baseScore
	factors := make([]Factor, 0, 6)

	apply := func(description string, delta int) {
		score += delta
		factors = append(factors, Factor{Description: description, Delta: delta})
	}

	value := property.valuationBasis()

	switch {
	case value.GreaterThan(value100k):
		apply("Market value above $100k", 30)
	case value.GreaterThanOrEqual(value50k):
		apply("Market value $50k-$100k", 20)
	case value.GreaterThanOrEqual(value25k):
		apply("Market value $25k-$50k", 10)
	default:
		apply("Market value below $25k", 0)
	}

	if value.IsPositive() {
		taxRatio := property.TaxAmountDue.DivRound(value, 4)
		switch {
		case taxRatio.LessThan(ratio005):
			apply("Low tax burden (<5% of value)", 10)
		case taxRatio.GreaterThan(ratio020):
			apply("High tax burden (>20% of value)", -20)
		case taxRatio.GreaterThanOrEqual(ratio010):
			apply("Moderate tax burden (10-20% of value)", -10)
		}
	}

	if property.ExistingTaxLoan {
		apply("Existing tax loan on property", -15)
	}

	if property.InForeclosure {
		apply("Property in foreclosure", -30)
	}

	if property.TotalValue.IsPositive() {
		improvementRatio := property.ImprovementValue.DivRound(property.TotalValue, 4)
		switch {
		case improvementRatio.GreaterThan(ratio070):
			apply("High improvement ratio (>70%)", 15)
		case improvementRatio.LessThan(ratio030):
			apply("Low improvement ratio (<30%)", -10)
		}
	}

	switch property.PropertyType {
	case PropertyTypeSingleFamily:
		apply("Single family residence", 5)
	case PropertyTypeLand:
		apply("Unimproved land", -5)
	}

	if property.YearBuilt > 0 {
		age := now.Year() - property.YearBuilt
		switch {
		case age < newConstructionYears:
			apply("Recent construction (<20 years)", 5)
		case age > oldConstructionYears:
			apply("Aging construction (>80 years)", -5)
		}
	}

	score = clamp(score)

	return Result{
		Score:               score,
		Grade:               gradeFor(score),
		Factors:             factors,
		MarketValue:         value,
		InvestmentPotential: potentialFor(score),
	}
}

// gradeFor maps a score onto one of ten discrete letter-grade bands,
// monotonic from A+ at 90 down to F below 40.
func gradeFor(score int) string {
	switch {
	case score >= 90:
		return "A+"
	case score >= 80:
		return "A"
	case score >= 75:
		return "B+"
	case score >= 70:
		return "B"
	case score >= 65:
		return "C+"
	case score >= 60:
		return "C"
	case score >= 55:
		return "D+"
	case score >= 50:
		return "D"
	case score >= 40:
		return "E"
	default:
		return "F"
	}
}

// potentialFor maps a score onto the five-tier investment classification.
func potentialFor(score int) string {
	switch {
	case score >= 80:
		return "Excellent"
	case score >= 65:
		return "Very Good"
	case score >= 50:
		return "Good"
	case score >= 35:
		return "Fair"
	default:
		return "Poor"
	}
}

func clamp(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
