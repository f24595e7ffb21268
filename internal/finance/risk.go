package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Risk levels.
const (
	RiskLevelLow    = "Low"
	RiskLevelMedium = "Medium"
	RiskLevelHigh   = "High"
)

// Risk factor texts. These strings are persisted and surfaced to users;
// treat them as part of the contract.
const (
	factorHighLTV         = "High LTV ratio (>45%)"
	factorModerateLTV     = "Moderate LTV ratio (35-45%)"
	factorHighTaxBurden   = "High tax burden (>20% of value)"
	factorModerateTax     = "Moderate tax burden (10-20% of value)"
	factorExistingTaxLoan = "Existing tax loan on property"
	factorInForeclosure   = "Property in foreclosure"
	factorLowImprovement  = "Low improvement ratio (<30%)"
	factorImminentTaxSale = "Tax sale within 90 days"
)

const (
	riskBaseScore = 50

	riskLevelMediumFloor = 40
	riskLevelHighFloor   = 70

	taxSaleWarningWindow = 90 * 24 * time.Hour
)

// maxApprovalLTV is the LTV ceiling for a recommended approval.
var maxApprovalLTV = decimal.RequireFromString("0.45")

var (
	ratio035 = decimal.RequireFromString("0.35")
	ratio030 = decimal.RequireFromString("0.30")
	ratio020 = decimal.RequireFromString("0.20")
	ratio010 = decimal.RequireFromString("0.10")
)

// RiskAssessment is the outcome of scoring a loan against a property.
type RiskAssessment struct {
	RiskScore           int             `json:"riskScore"`
	RiskLevel           string          `json:"riskLevel"`
	RiskFactors         []string        `json:"riskFactors"`
	LTVRatio            decimal.Decimal `json:"ltvRatio"`
	RecommendedApproval bool            `json:"recommendedApproval"`
}

// AssessLoanRisk scores a proposed loan from 0 (safest) to 100. The score
// starts at 50 and accumulates weighted penalties; factors are recorded in
// evaluation order. The now parameter anchors the tax-sale window check so
// assessments stay deterministic and replayable.
func AssessLoanRisk(property PropertyFinancials, loanAmount decimal.Decimal, now time.Time) RiskAssessment {
	score := riskBaseScore
	factors := make([]string, 0, 4)

	value := property.ValuationBasis()
	ltv := LTVRatio(loanAmount, value)

	switch {
	case ltv.GreaterThan(maxApprovalLTV):
		score += 30
		factors = append(factors, factorHighLTV)
	case ltv.GreaterThanOrEqual(ratio035):
		score += 15
		factors = append(factors, factorModerateLTV)
	}

	if value.IsPositive() {
		taxRatio := roundRatio(property.TaxAmountDue.Div(value))
		switch {
		case taxRatio.GreaterThan(ratio020):
			score += 25
			factors = append(factors, factorHighTaxBurden)
		case taxRatio.GreaterThanOrEqual(ratio010):
			score += 10
			factors = append(factors, factorModerateTax)
		}
	}

	if property.ExistingTaxLoan {
		score += 20
		factors = append(factors, factorExistingTaxLoan)
	}

	if property.InForeclosure {
		score += 35
		factors = append(factors, factorInForeclosure)
	}

	if property.TotalValue.IsPositive() {
		improvementRatio := roundRatio(property.ImprovementValue.Div(property.TotalValue))
		if improvementRatio.LessThan(ratio030) {
			score += 15
			factors = append(factors, factorLowImprovement)
		}
	}

	if property.TaxSaleDate != nil {
		until := property.TaxSaleDate.Sub(now)
		if until >= 0 && until <= taxSaleWarningWindow {
			score += 20
			factors = append(factors, factorImminentTaxSale)
		}
	}

	score = clampScore(score)

	return RiskAssessment{
		RiskScore:           score,
		RiskLevel:           riskLevel(score),
		RiskFactors:         factors,
		LTVRatio:            ltv,
		RecommendedApproval: score < riskLevelHighFloor && ltv.LessThanOrEqual(maxApprovalLTV),
	}
}

func riskLevel(score int) string {
	switch {
	case score < riskLevelMediumFloor:
		return RiskLevelLow
	case score < riskLevelHighFloor:
		return RiskLevelMedium
	default:
		return RiskLevelHigh
	}
}

func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
