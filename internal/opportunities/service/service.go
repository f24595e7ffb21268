package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/finance"
	"liencrm_backend/internal/opportunities/repository"
	"liencrm_backend/internal/opportunities/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// Fallbacks when the configured loan defaults are missing or unparseable.
const (
	defaultInterestRate = "0.08"
	defaultMaxLTV       = "0.45"
	defaultTermMonths   = 24
)

// LeadSummary is the slice of a lead the conversion flow needs.
type LeadSummary struct {
	ID         uuid.UUID
	PropertyID *uuid.UUID
}

// LeadSource supplies convertible leads. Implemented by the leads module
// behind an adapter.
type LeadSource interface {
	ConvertibleLead(ctx context.Context, userID, leadID uuid.UUID) (LeadSummary, error)
	MarkConverted(ctx context.Context, leadID uuid.UUID) error
}

// PropertyValuer supplies the finance-engine view of a property. Implemented
// by the properties module behind an adapter.
type PropertyValuer interface {
	Financials(ctx context.Context, propertyID uuid.UUID) (finance.PropertyFinancials, error)
}

// Service provides business logic for loan opportunities.
type Service struct {
	repo     repository.Repository
	leads    LeadSource
	valuer   PropertyValuer
	eventBus events.Bus
	log      *logger.Logger

	defaultRate decimal.Decimal
	maxLTV      decimal.Decimal
	defaultTerm int
}

// New creates a new opportunities service.
func New(repo repository.Repository, leads LeadSource, valuer PropertyValuer, cfg config.LoanConfig, eventBus events.Bus, log *logger.Logger) *Service {
	rate, err := decimal.NewFromString(cfg.GetDefaultInterestRate())
	if err != nil || !rate.IsPositive() {
		rate = decimal.RequireFromString(defaultInterestRate)
	}
	maxLTV, err := decimal.NewFromString(cfg.GetMaxLTV())
	if err != nil || !maxLTV.IsPositive() {
		maxLTV = decimal.RequireFromString(defaultMaxLTV)
	}
	term := cfg.GetDefaultTermMonths()
	if term <= 0 {
		term = defaultTermMonths
	}

	return &Service{
		repo:        repo,
		leads:       leads,
		valuer:      valuer,
		eventBus:    eventBus,
		log:         log,
		defaultRate: rate,
		maxLTV:      maxLTV,
		defaultTerm: term,
	}
}

// Create converts a lead into a loan opportunity. The loan amount defaults
// to the maximum the property's valuation supports and may never exceed it.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateOpportunityRequest) (transport.OpportunityResponse, error) {
	lead, err := s.leads.ConvertibleLead(ctx, userID, req.LeadID)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	if lead.PropertyID == nil {
		return transport.OpportunityResponse{}, apperr.Validation("lead has no property attached")
	}

	financials, err := s.valuer.Financials(ctx, *lead.PropertyID)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	valuation := financials.ValuationBasis()
	if !valuation.IsPositive() {
		return transport.OpportunityResponse{}, apperr.Validation("property has no positive valuation")
	}

	maxLoan := finance.MaxLoanAmount(valuation, s.maxLTV)
	amount := maxLoan
	if req.LoanAmount != nil {
		amount = *req.LoanAmount
	}
	if !amount.IsPositive() {
		return transport.OpportunityResponse{}, apperr.Validation("loan amount must be positive")
	}
	if amount.GreaterThan(maxLoan) {
		return transport.OpportunityResponse{}, apperr.Validation("loan amount exceeds maximum of " + maxLoan.StringFixed(2))
	}

	rate := s.defaultRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	term := s.defaultTerm
	if req.TermMonths != nil {
		term = *req.TermMonths
	}

	figures, err := deriveFigures(financials, amount, rate, term)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}

	opp, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:     lead.ID,
		PropertyID: *lead.PropertyID,
		UserID:     userID,

		LoanAmount:   amount,
		InterestRate: rate,
		TermMonths:   term,

		MonthlyPayment: figures.cost.MonthlyPayment,
		TotalPayments:  figures.cost.TotalPayments,
		TotalInterest:  figures.cost.TotalInterest,
		LTVRatio:       figures.ltv,

		RiskScore:           figures.risk.RiskScore,
		RiskLevel:           figures.risk.RiskLevel,
		RiskFactors:         figures.risk.RiskFactors,
		RecommendedApproval: figures.risk.RecommendedApproval,
	})
	if err != nil {
		return transport.OpportunityResponse{}, err
	}

	if err := s.leads.MarkConverted(ctx, lead.ID); err != nil {
		s.log.Error("mark lead converted failed", "leadId", lead.ID, "error", err)
	}

	s.log.Info("opportunity created", "id", opp.ID, "leadId", lead.ID, "loanAmount", amount.StringFixed(2), "riskLevel", opp.RiskLevel)
	s.eventBus.Publish(ctx, events.OpportunityCreated{
		BaseEvent:      events.NewBaseEvent(),
		OpportunityID:  opp.ID,
		LeadID:         lead.ID,
		PropertyID:     *lead.PropertyID,
		LoanAmount:     opp.LoanAmount.StringFixed(2),
		MonthlyPayment: opp.MonthlyPayment.StringFixed(2),
		RiskLevel:      opp.RiskLevel,
		CreatedBy:      userID,
	})

	return toResponse(opp), nil
}

// GetByID retrieves an opportunity owned by the caller.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (transport.OpportunityResponse, error) {
	opp, err := s.ownedOpportunity(ctx, userID, id)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	return toResponse(opp), nil
}

// List retrieves the caller's opportunities.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListOpportunitiesRequest) (transport.OpportunityListResponse, error) {
	page := req.Page
	pageSize := req.PageSize
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	opportunities, total, err := s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Status: req.Status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.OpportunityListResponse{}, err
	}

	items := make([]transport.OpportunityResponse, 0, len(opportunities))
	for _, opp := range opportunities {
		items = append(items, toResponse(opp))
	}
	return transport.OpportunityListResponse{Items: items, Total: total}, nil
}

// Schedule produces the full amortization schedule for an opportunity.
func (s *Service) Schedule(ctx context.Context, userID, id uuid.UUID) (transport.ScheduleResponse, error) {
	opp, err := s.ownedOpportunity(ctx, userID, id)
	if err != nil {
		return transport.ScheduleResponse{}, err
	}

	entries, err := finance.PaymentSchedule(opp.LoanAmount, opp.InterestRate, opp.TermMonths, time.Time{})
	if err != nil {
		return transport.ScheduleResponse{}, apperr.Validation(err.Error())
	}

	rows := make([]transport.ScheduleEntryResponse, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, transport.ScheduleEntryResponse{
			PaymentNumber:      entry.PaymentNumber,
			PaymentDate:        entry.PaymentDate,
			PaymentAmount:      entry.PaymentAmount,
			Principal:          entry.Principal,
			Interest:           entry.Interest,
			Balance:            entry.Balance,
			CumulativeInterest: entry.CumulativeInterest,
		})
	}

	return transport.ScheduleResponse{OpportunityID: opp.ID, Entries: rows}, nil
}

// Recalculate changes loan terms and recomputes every derived figure,
// including a fresh risk assessment against current property financials.
func (s *Service) Recalculate(ctx context.Context, userID, id uuid.UUID, req transport.RecalculateRequest) (transport.OpportunityResponse, error) {
	opp, err := s.ownedOpportunity(ctx, userID, id)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	if opp.Status == repository.StatusClosed {
		return transport.OpportunityResponse{}, apperr.Conflict("opportunity is closed")
	}

	amount := opp.LoanAmount
	if req.LoanAmount != nil {
		amount = *req.LoanAmount
	}
	rate := opp.InterestRate
	if req.InterestRate != nil {
		rate = *req.InterestRate
	}
	term := opp.TermMonths
	if req.TermMonths != nil {
		term = *req.TermMonths
	}

	financials, err := s.valuer.Financials(ctx, opp.PropertyID)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	valuation := financials.ValuationBasis()
	if !valuation.IsPositive() {
		return transport.OpportunityResponse{}, apperr.Validation("property has no positive valuation")
	}
	if !amount.IsPositive() {
		return transport.OpportunityResponse{}, apperr.Validation("loan amount must be positive")
	}
	maxLoan := finance.MaxLoanAmount(valuation, s.maxLTV)
	if amount.GreaterThan(maxLoan) {
		return transport.OpportunityResponse{}, apperr.Validation("loan amount exceeds maximum of " + maxLoan.StringFixed(2))
	}

	figures, err := deriveFigures(financials, amount, rate, term)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}

	updated, err := s.repo.UpdateFigures(ctx, repository.FigureUpdate{
		ID: opp.ID,

		LoanAmount:   amount,
		InterestRate: rate,
		TermMonths:   term,

		MonthlyPayment: figures.cost.MonthlyPayment,
		TotalPayments:  figures.cost.TotalPayments,
		TotalInterest:  figures.cost.TotalInterest,
		LTVRatio:       figures.ltv,

		RiskScore:           figures.risk.RiskScore,
		RiskLevel:           figures.risk.RiskLevel,
		RiskFactors:         figures.risk.RiskFactors,
		RecommendedApproval: figures.risk.RecommendedApproval,
	})
	if err != nil {
		return transport.OpportunityResponse{}, err
	}

	s.eventBus.Publish(ctx, events.OpportunityRecalculated{
		BaseEvent:     events.NewBaseEvent(),
		OpportunityID: updated.ID,
		LoanAmount:    updated.LoanAmount.StringFixed(2),
		RiskLevel:     updated.RiskLevel,
		ActorID:       userID,
	})

	return toResponse(updated), nil
}

// UpdateStatus moves an opportunity through its pipeline.
func (s *Service) UpdateStatus(ctx context.Context, userID, id uuid.UUID, req transport.UpdateStatusRequest) (transport.OpportunityResponse, error) {
	opp, err := s.ownedOpportunity(ctx, userID, id)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	if opp.Status == repository.StatusClosed && req.Status != repository.StatusClosed {
		return transport.OpportunityResponse{}, apperr.Conflict("opportunity is closed")
	}

	updated, err := s.repo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return transport.OpportunityResponse{}, err
	}
	return toResponse(updated), nil
}

type derivedFigures struct {
	cost finance.LoanCost
	ltv  decimal.Decimal
	risk finance.RiskAssessment
}

func deriveFigures(financials finance.PropertyFinancials, amount, rate decimal.Decimal, term int) (derivedFigures, error) {
	cost, err := finance.TotalLoanCost(amount, rate, term)
	if err != nil {
		return derivedFigures{}, apperr.Validation(err.Error())
	}

	return derivedFigures{
		cost: cost,
		ltv:  finance.LTVRatio(amount, financials.ValuationBasis()),
		risk: finance.AssessLoanRisk(financials, amount, time.Now().UTC()),
	}, nil
}

func (s *Service) ownedOpportunity(ctx context.Context, userID, id uuid.UUID) (repository.Opportunity, error) {
	opp, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Opportunity{}, err
	}
	if opp.UserID != userID {
		return repository.Opportunity{}, apperr.Forbidden("opportunity belongs to another agent")
	}
	return opp, nil
}

func toResponse(o repository.Opportunity) transport.OpportunityResponse {
	return transport.OpportunityResponse{
		ID:         o.ID,
		LeadID:     o.LeadID,
		PropertyID: o.PropertyID,
		UserID:     o.UserID,

		LoanAmount:   o.LoanAmount,
		InterestRate: o.InterestRate,
		TermMonths:   o.TermMonths,

		MonthlyPayment: o.MonthlyPayment,
		TotalPayments:  o.TotalPayments,
		TotalInterest:  o.TotalInterest,
		LTVRatio:       o.LTVRatio,

		RiskScore:           o.RiskScore,
		RiskLevel:           o.RiskLevel,
		RiskFactors:         o.RiskFactors,
		RecommendedApproval: o.RecommendedApproval,

		Status:    o.Status,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}
