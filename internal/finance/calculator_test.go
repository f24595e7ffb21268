package finance

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestMonthlyPaymentReferenceLoan(t *testing.T) {
	// $50,000 at 8% over 24 months is the canonical reference loan.
	payment, err := MonthlyPayment(dec("50000"), dec("0.08"), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := payment.StringFixed(2); got != "2261.36" {
		t.Fatalf("expected payment 2261.36, got %s", got)
	}
}

func TestMonthlyPaymentNonPositiveInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal string
		rate      string
	}{
		{"zero principal", "0", "0.08"},
		{"negative principal", "-100", "0.08"},
		{"zero rate", "50000", "0"},
		{"negative rate", "50000", "-0.01"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			payment, err := MonthlyPayment(dec(tc.principal), dec(tc.rate), 24)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !payment.IsZero() {
				t.Fatalf("expected zero payment, got %s", payment)
			}
		})
	}
}

func TestMonthlyPaymentRejectsNonPositiveTerm(t *testing.T) {
	for _, term := range []int{0, -1, -24} {
		if _, err := MonthlyPayment(dec("50000"), dec("0.08"), term); err == nil {
			t.Errorf("expected error for term %d", term)
		}
	}
}

func TestLTVRatio(t *testing.T) {
	cases := []struct {
		loan, value string
		want        string
	}{
		{"50000", "100000", "0.5"},
		{"45000", "100000", "0.45"},
		{"33333", "100000", "0.3333"},
		{"100000", "0", "0"},
		{"100000", "-5", "0"},
	}

	for _, tc := range cases {
		got := LTVRatio(dec(tc.loan), dec(tc.value))
		if !got.Equal(dec(tc.want)) {
			t.Errorf("LTVRatio(%s, %s) = %s, want %s", tc.loan, tc.value, got, tc.want)
		}
	}
}

func TestLTVRatioMonotonicity(t *testing.T) {
	value := dec("100000")
	prev := LTVRatio(dec("10000"), value)
	for _, loan := range []string{"20000", "30000", "50000", "90000"} {
		cur := LTVRatio(dec(loan), value)
		if !cur.GreaterThan(prev) {
			t.Fatalf("LTV must increase with loan amount: %s then %s", prev, cur)
		}
		prev = cur
	}

	loan := dec("50000")
	prev = LTVRatio(loan, dec("60000"))
	for _, value := range []string{"80000", "100000", "150000", "400000"} {
		cur := LTVRatio(loan, dec(value))
		if !cur.LessThan(prev) {
			t.Fatalf("LTV must decrease with property value: %s then %s", prev, cur)
		}
		prev = cur
	}
}

func TestMaxLoanAmount(t *testing.T) {
	got := MaxLoanAmount(dec("100000"), dec("0.45"))
	if got.StringFixed(2) != "45000.00" {
		t.Fatalf("expected 45000.00, got %s", got.StringFixed(2))
	}

	// Rounds half up at the cent boundary.
	got = MaxLoanAmount(dec("33.345"), dec("1"))
	if got.StringFixed(2) != "33.35" {
		t.Fatalf("expected 33.35, got %s", got.StringFixed(2))
	}
}

func TestTotalLoanCost(t *testing.T) {
	cost, err := TotalLoanCost(dec("50000"), dec("0.08"), 24)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cost.MonthlyPayment.StringFixed(2) != "2261.36" {
		t.Fatalf("monthly payment: got %s", cost.MonthlyPayment.StringFixed(2))
	}
	if cost.TotalPayments.StringFixed(2) != "54272.64" {
		t.Fatalf("total payments: got %s", cost.TotalPayments.StringFixed(2))
	}
	if cost.TotalInterest.StringFixed(2) != "4272.64" {
		t.Fatalf("total interest: got %s", cost.TotalInterest.StringFixed(2))
	}
	if cost.InterestPercentage.StringFixed(2) != "8.55" {
		t.Fatalf("interest percentage: got %s", cost.InterestPercentage.StringFixed(2))
	}
}
