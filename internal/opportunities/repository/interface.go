package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Opportunity statuses.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusDeclined = "declined"
	StatusFunded   = "funded"
	StatusClosed   = "closed"
)

// Opportunity is a proposed tax loan on a lead's property with its derived
// payment and risk figures.
type Opportunity struct {
	ID         uuid.UUID `db:"id"`
	LeadID     uuid.UUID `db:"lead_id"`
	PropertyID uuid.UUID `db:"property_id"`
	UserID     uuid.UUID `db:"user_id"`

	LoanAmount   decimal.Decimal `db:"loan_amount"`
	InterestRate decimal.Decimal `db:"interest_rate"`
	TermMonths   int             `db:"term_months"`

	MonthlyPayment decimal.Decimal `db:"monthly_payment"`
	TotalPayments  decimal.Decimal `db:"total_payments"`
	TotalInterest  decimal.Decimal `db:"total_interest"`
	LTVRatio       decimal.Decimal `db:"ltv_ratio"`

	RiskScore           int      `db:"risk_score"`
	RiskLevel           string   `db:"risk_level"`
	RiskFactors         []string `db:"risk_factors"`
	RecommendedApproval bool     `db:"recommended_approval"`

	Status    string `db:"status"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// CreateParams contains parameters for creating an opportunity.
type CreateParams struct {
	LeadID     uuid.UUID
	PropertyID uuid.UUID
	UserID     uuid.UUID

	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	TermMonths   int

	MonthlyPayment decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalInterest  decimal.Decimal
	LTVRatio       decimal.Decimal

	RiskScore           int
	RiskLevel           string
	RiskFactors         []string
	RecommendedApproval bool
}

// FigureUpdate carries recomputed loan terms and derived figures.
type FigureUpdate struct {
	ID uuid.UUID

	LoanAmount   decimal.Decimal
	InterestRate decimal.Decimal
	TermMonths   int

	MonthlyPayment decimal.Decimal
	TotalPayments  decimal.Decimal
	TotalInterest  decimal.Decimal
	LTVRatio       decimal.Decimal

	RiskScore           int
	RiskLevel           string
	RiskFactors         []string
	RecommendedApproval bool
}

// ListParams contains filters and paging for opportunity listings.
type ListParams struct {
	UserID uuid.UUID
	Status string
	Limit  int
	Offset int
}

// OpportunityReader provides read operations for opportunities.
type OpportunityReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error)
	List(ctx context.Context, params ListParams) ([]Opportunity, int, error)
}

// OpportunityWriter provides write operations for opportunities.
type OpportunityWriter interface {
	Create(ctx context.Context, params CreateParams) (Opportunity, error)
	UpdateFigures(ctx context.Context, update FigureUpdate) (Opportunity, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Opportunity, error)
}

// Repository combines all opportunity repository operations.
type Repository interface {
	OpportunityReader
	OpportunityWriter
}
