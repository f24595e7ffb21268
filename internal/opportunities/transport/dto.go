package transport

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateOpportunityRequest converts a lead into a loan opportunity. Rate and
// term fall back to configured defaults; loan amount falls back to the
// maximum the property's valuation supports.
type CreateOpportunityRequest struct {
	LeadID       uuid.UUID        `json:"leadId" validate:"required"`
	LoanAmount   *decimal.Decimal `json:"loanAmount,omitempty"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	TermMonths   *int             `json:"termMonths,omitempty" validate:"omitempty,min=1,max=360"`
}

// RecalculateRequest changes loan terms on an existing opportunity. Omitted
// fields keep their current values; figures are always recomputed in full.
type RecalculateRequest struct {
	LoanAmount   *decimal.Decimal `json:"loanAmount,omitempty"`
	InterestRate *decimal.Decimal `json:"interestRate,omitempty"`
	TermMonths   *int             `json:"termMonths,omitempty" validate:"omitempty,min=1,max=360"`
}

// UpdateStatusRequest moves an opportunity through its pipeline.
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending approved declined funded closed"`
}

// ListOpportunitiesRequest contains query filters for opportunity listings.
type ListOpportunitiesRequest struct {
	Status   string `form:"status" validate:"omitempty,oneof=pending approved declined funded closed"`
	Page     int    `form:"page"`
	PageSize int    `form:"pageSize"`
}

// OpportunityResponse represents an opportunity in API responses.
type OpportunityResponse struct {
	ID         uuid.UUID `json:"id"`
	LeadID     uuid.UUID `json:"leadId"`
	PropertyID uuid.UUID `json:"propertyId"`
	UserID     uuid.UUID `json:"userId"`

	LoanAmount   decimal.Decimal `json:"loanAmount"`
	InterestRate decimal.Decimal `json:"interestRate"`
	TermMonths   int             `json:"termMonths"`

	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	TotalPayments  decimal.Decimal `json:"totalPayments"`
	TotalInterest  decimal.Decimal `json:"totalInterest"`
	LTVRatio       decimal.Decimal `json:"ltvRatio"`

	RiskScore           int      `json:"riskScore"`
	RiskLevel           string   `json:"riskLevel"`
	RiskFactors         []string `json:"riskFactors"`
	RecommendedApproval bool     `json:"recommendedApproval"`

	Status    string `json:"status"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// OpportunityListResponse wraps a list of opportunities.
type OpportunityListResponse struct {
	Items []OpportunityResponse `json:"items"`
	Total int                   `json:"total"`
}

// ScheduleEntryResponse is one amortization row.
type ScheduleEntryResponse struct {
	PaymentNumber      int             `json:"paymentNumber"`
	PaymentDate        time.Time       `json:"paymentDate"`
	PaymentAmount      decimal.Decimal `json:"paymentAmount"`
	Principal          decimal.Decimal `json:"principal"`
	Interest           decimal.Decimal `json:"interest"`
	Balance            decimal.Decimal `json:"balance"`
	CumulativeInterest decimal.Decimal `json:"cumulativeInterest"`
}

// ScheduleResponse is the full amortization schedule of an opportunity.
type ScheduleResponse struct {
	OpportunityID uuid.UUID               `json:"opportunityId"`
	Entries       []ScheduleEntryResponse `json:"entries"`
}
