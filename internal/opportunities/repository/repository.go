package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"liencrm_backend/platform/apperr"
)

const opportunityColumns = `id, lead_id, property_id, user_id,
	loan_amount, interest_rate, term_months,
	monthly_payment, total_payments, total_interest, ltv_ratio,
	risk_score, risk_level, risk_factors, recommended_approval,
	status, created_at, updated_at`

// Repo implements Repository backed by PostgreSQL.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new opportunities repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// GetByID retrieves an opportunity by ID.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Opportunity, error) {
	query := `SELECT ` + opportunityColumns + ` FROM opportunities WHERE id = $1`

	opp, err := scanOpportunity(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Opportunity{}, apperr.NotFound("opportunity not found")
		}
		return Opportunity{}, fmt.Errorf("get opportunity: %w", err)
	}
	return opp, nil
}

// List retrieves a user's opportunities with optional status filtering.
func (r *Repo) List(ctx context.Context, params ListParams) ([]Opportunity, int, error) {
	countQuery := `
		SELECT COUNT(*) FROM opportunities
		WHERE user_id = $1 AND ($2::text = '' OR status = $2)`

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, params.UserID, params.Status).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count opportunities: %w", err)
	}

	query := `SELECT ` + opportunityColumns + `
		FROM opportunities
		WHERE user_id = $1 AND ($2::text = '' OR status = $2)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4`

	rows, err := r.pool.Query(ctx, query, params.UserID, params.Status, params.Limit, params.Offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list opportunities: %w", err)
	}
	defer rows.Close()

	opportunities := make([]Opportunity, 0)
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan opportunity: %w", err)
		}
		opportunities = append(opportunities, opp)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate opportunities: %w", err)
	}

	return opportunities, total, nil
}

// Create inserts a new opportunity.
func (r *Repo) Create(ctx context.Context, params CreateParams) (Opportunity, error) {
	query := `
		INSERT INTO opportunities (
			lead_id, property_id, user_id,
			loan_amount, interest_rate, term_months,
			monthly_payment, total_payments, total_interest, ltv_ratio,
			risk_score, risk_level, risk_factors, recommended_approval,
			status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING ` + opportunityColumns

	opp, err := scanOpportunity(r.pool.QueryRow(ctx, query,
		params.LeadID, params.PropertyID, params.UserID,
		params.LoanAmount, params.InterestRate, params.TermMonths,
		params.MonthlyPayment, params.TotalPayments, params.TotalInterest, params.LTVRatio,
		params.RiskScore, params.RiskLevel, params.RiskFactors, params.RecommendedApproval,
		StatusPending,
	))
	if err != nil {
		return Opportunity{}, fmt.Errorf("create opportunity: %w", err)
	}
	return opp, nil
}

// UpdateFigures overwrites the loan terms and every derived figure at once.
// Partial figure updates are never valid, so no COALESCE here.
func (r *Repo) UpdateFigures(ctx context.Context, update FigureUpdate) (Opportunity, error) {
	query := `
		UPDATE opportunities SET
			loan_amount = $2, interest_rate = $3, term_months = $4,
			monthly_payment = $5, total_payments = $6, total_interest = $7, ltv_ratio = $8,
			risk_score = $9, risk_level = $10, risk_factors = $11, recommended_approval = $12,
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + opportunityColumns

	opp, err := scanOpportunity(r.pool.QueryRow(ctx, query,
		update.ID,
		update.LoanAmount, update.InterestRate, update.TermMonths,
		update.MonthlyPayment, update.TotalPayments, update.TotalInterest, update.LTVRatio,
		update.RiskScore, update.RiskLevel, update.RiskFactors, update.RecommendedApproval,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Opportunity{}, apperr.NotFound("opportunity not found")
		}
		return Opportunity{}, fmt.Errorf("update opportunity figures: %w", err)
	}
	return opp, nil
}

// UpdateStatus moves an opportunity to a new status.
func (r *Repo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (Opportunity, error) {
	query := `
		UPDATE opportunities SET status = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + opportunityColumns

	opp, err := scanOpportunity(r.pool.QueryRow(ctx, query, id, status))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Opportunity{}, apperr.NotFound("opportunity not found")
		}
		return Opportunity{}, fmt.Errorf("update opportunity status: %w", err)
	}
	return opp, nil
}

func scanOpportunity(row pgx.Row) (Opportunity, error) {
	var o Opportunity
	var createdAt, updatedAt time.Time

	err := row.Scan(
		&o.ID, &o.LeadID, &o.PropertyID, &o.UserID,
		&o.LoanAmount, &o.InterestRate, &o.TermMonths,
		&o.MonthlyPayment, &o.TotalPayments, &o.TotalInterest, &o.LTVRatio,
		&o.RiskScore, &o.RiskLevel, &o.RiskFactors, &o.RecommendedApproval,
		&o.Status, &createdAt, &updatedAt,
	)
	if err != nil {
		return Opportunity{}, err
	}

	o.CreatedAt = createdAt.Format(time.RFC3339)
	o.UpdatedAt = updatedAt.Format(time.RFC3339)

	return o, nil
}

// Compile-time check that Repo implements Repository
var _ Repository = (*Repo)(nil)
