package finance

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var assessAt = time.Date(2026, time.August, 31, 12, 0, 0, 0, time.UTC)

func cleanProperty(total string) PropertyFinancials {
	// A property with a healthy improvement ratio and no penalties.
	totalValue := dec(total)
	return PropertyFinancials{
		ImprovementValue: totalValue.Mul(dec("0.7")).Round(2),
		LandValue:        totalValue.Mul(dec("0.3")).Round(2),
		TotalValue:       totalValue,
	}
}

func TestAssessLoanRiskHighLTV(t *testing.T) {
	// $50k against $100k is 50% LTV: +30 over base 50.
	property := cleanProperty("100000")
	result := AssessLoanRisk(property, dec("50000"), assessAt)

	if !result.LTVRatio.Equal(dec("0.5")) {
		t.Fatalf("ltv: got %s, want 0.5000", result.LTVRatio)
	}
	if result.RiskScore < 80 {
		t.Fatalf("risk score %d, want >= 80", result.RiskScore)
	}
	if result.RecommendedApproval {
		t.Fatal("a 50%% LTV loan must not be recommended for approval")
	}
	if len(result.RiskFactors) == 0 || result.RiskFactors[0] != "High LTV ratio (>45%)" {
		t.Fatalf("expected high-LTV factor first, got %v", result.RiskFactors)
	}
	if result.RiskLevel != RiskLevelHigh {
		t.Fatalf("risk level %s, want High", result.RiskLevel)
	}
}

func TestAssessLoanRiskModerateLTVBand(t *testing.T) {
	property := cleanProperty("100000")
	result := AssessLoanRisk(property, dec("40000"), assessAt)

	if result.RiskScore != 65 {
		t.Fatalf("risk score %d, want 65", result.RiskScore)
	}
	if result.RiskLevel != RiskLevelMedium {
		t.Fatalf("risk level %s, want Medium", result.RiskLevel)
	}
	if !result.RecommendedApproval {
		t.Fatal("moderate LTV under the cap should be approvable")
	}
}

func TestAssessLoanRiskCleanLowLTVLoan(t *testing.T) {
	property := cleanProperty("200000")
	result := AssessLoanRisk(property, dec("40000"), assessAt)

	if result.RiskScore != 50 {
		t.Fatalf("risk score %d, want base 50", result.RiskScore)
	}
	if len(result.RiskFactors) != 0 {
		t.Fatalf("expected no factors, got %v", result.RiskFactors)
	}
	if !result.RecommendedApproval {
		t.Fatal("clean loan should be recommended")
	}
}

func TestAssessLoanRiskAccumulatesPenalties(t *testing.T) {
	saleDate := assessAt.AddDate(0, 0, 45)
	totalValue := dec("100000")
	property := PropertyFinancials{
		ImprovementValue: dec("20000"), // 20% improvement ratio: +15
		LandValue:        dec("80000"),
		TotalValue:       totalValue,
		TaxAmountDue:     dec("25000"), // 25% of value: +25
		ExistingTaxLoan:  true,         // +20
		InForeclosure:    true,         // +35
		TaxSaleDate:      &saleDate,    // within 90 days: +20
	}

	result := AssessLoanRisk(property, dec("50000"), assessAt) // 50% LTV: +30

	if result.RiskScore != 100 {
		t.Fatalf("risk score %d, want clamped 100", result.RiskScore)
	}
	if result.RiskLevel != RiskLevelHigh {
		t.Fatalf("risk level %s, want High", result.RiskLevel)
	}
	if len(result.RiskFactors) != 6 {
		t.Fatalf("expected 6 factors, got %v", result.RiskFactors)
	}
}

func TestAssessLoanRiskTaxSaleWindowEdges(t *testing.T) {
	property := cleanProperty("200000")
	loan := dec("40000")

	past := assessAt.AddDate(0, 0, -1)
	property.TaxSaleDate = &past
	if got := AssessLoanRisk(property, loan, assessAt).RiskScore; got != 50 {
		t.Fatalf("past sale date must not penalize, got %d", got)
	}

	distant := assessAt.AddDate(0, 0, 120)
	property.TaxSaleDate = &distant
	if got := AssessLoanRisk(property, loan, assessAt).RiskScore; got != 50 {
		t.Fatalf("distant sale date must not penalize, got %d", got)
	}

	imminent := assessAt.AddDate(0, 0, 30)
	property.TaxSaleDate = &imminent
	if got := AssessLoanRisk(property, loan, assessAt).RiskScore; got != 70 {
		t.Fatalf("imminent sale date must add 20, got %d", got)
	}
}

func TestAssessLoanRiskMarketValueOverridesTotal(t *testing.T) {
	property := cleanProperty("50000")
	market := dec("200000")
	property.MarketValue = &market

	// Against the market value the LTV is 20%, not 80%.
	result := AssessLoanRisk(property, dec("40000"), assessAt)
	if !result.LTVRatio.Equal(dec("0.2")) {
		t.Fatalf("ltv %s, want 0.2000", result.LTVRatio)
	}
}

func TestAssessLoanRiskScoreBounds(t *testing.T) {
	saleDate := assessAt.AddDate(0, 0, 10)
	worst := PropertyFinancials{
		ImprovementValue: decimal.Zero,
		LandValue:        dec("10000"),
		TotalValue:       dec("10000"),
		TaxAmountDue:     dec("9000"),
		ExistingTaxLoan:  true,
		InForeclosure:    true,
		TaxSaleDate:      &saleDate,
	}

	result := AssessLoanRisk(worst, dec("9000"), assessAt)
	if result.RiskScore < 0 || result.RiskScore > 100 {
		t.Fatalf("risk score out of bounds: %d", result.RiskScore)
	}
}
