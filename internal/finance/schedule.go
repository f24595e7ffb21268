package finance

import (
	"time"

	"github.com/shopspring/decimal"
)

// ScheduleEntry is one row of an amortization schedule. All amounts are
// rounded to cents.
type ScheduleEntry struct {
	PaymentNumber      int             `json:"paymentNumber"`
	PaymentDate        time.Time       `json:"paymentDate"`
	PaymentAmount      decimal.Decimal `json:"paymentAmount"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	Balance            decimal.Decimal `json:"balance"`
	CumulativeInterest decimal.Decimal `json:"cumulativeInterest"`
}

// PaymentSchedule produces one entry per month of the term. Interest each
// period is balance * monthlyRate rounded to cents; the principal portion
// is the monthly payment minus interest.
//
// The final entry absorbs all rounding residue: its principal is forced to
// the remaining balance and its payment recomputed as principal+interest,
// so the principal column always sums exactly to the loan amount and the
// closing balance is exactly zero. Downstream consumers rely on schedules
// summing to the payoff; do not "fix" this.
//
// A zero firstPaymentDate defaults to 30 days from now. Dates advance one
// calendar month per row.
func PaymentSchedule(principal, annualRate decimal.Decimal, termMonths int, firstPaymentDate time.Time) ([]ScheduleEntry, error) {
	payment, err := MonthlyPayment(principal, annualRate, termMonths)
	if err != nil {
		return nil, err
	}

	if firstPaymentDate.IsZero() {
		firstPaymentDate = time.Now().AddDate(0, 0, 30)
	}

	monthlyRate := decimal.Zero
	if annualRate.IsPositive() {
		monthlyRate = annualRate.Div(twelve)
	}

	entries := make([]ScheduleEntry, 0, termMonths)
	balance := principal
	cumulativeInterest := decimal.Zero
	paymentDate := firstPaymentDate

	for number := 1; number <= termMonths; number++ {
		interest := roundCents(balance.Mul(monthlyRate))
		principalPortion := payment.Sub(interest)
		rowPayment := payment

		if number == termMonths || principalPortion.GreaterThan(balance) {
			// Final payment pays off whatever is left.
			principalPortion = balance
			rowPayment = principalPortion.Add(interest)
		}

		balance = balance.Sub(principalPortion)
		if balance.IsNegative() {
			balance = decimal.Zero
		}
		cumulativeInterest = cumulativeInterest.Add(interest)

		entries = append(entries, ScheduleEntry{
			PaymentNumber:      number,
			PaymentDate:        paymentDate,
			PaymentAmount:      rowPayment,
			Principal:          principalPortion,
			Interest:           interest,
			Balance:            balance,
			CumulativeInterest: cumulativeInterest,
		})

		paymentDate = paymentDate.AddDate(0, 1, 0)
	}

	return entries, nil
}
