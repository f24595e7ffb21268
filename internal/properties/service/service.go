package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"liencrm_backend/internal/finance"
	"liencrm_backend/internal/properties/repository"
	"liencrm_backend/internal/properties/transport"
	"liencrm_backend/internal/scoring"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// TokenConsumer debits lookup tokens from a user. Implemented by the tokens
// module behind an adapter so this module never imports it directly.
type TokenConsumer interface {
	ConsumeLookup(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (remaining int, err error)
}

// Service provides business logic for properties.
type Service struct {
	repo   repository.Repository
	tokens TokenConsumer
	maxLTV decimal.Decimal
	log    *logger.Logger
}

var defaultMaxLTV = decimal.RequireFromString("0.45")

// New creates a new properties service.
func New(repo repository.Repository, tokens TokenConsumer, cfg config.LoanConfig, log *logger.Logger) *Service {
	maxLTV, err := decimal.NewFromString(cfg.GetMaxLTV())
	if err != nil || !maxLTV.IsPositive() {
		maxLTV = defaultMaxLTV
	}

	return &Service{repo: repo, tokens: tokens, maxLTV: maxLTV, log: log}
}

// Create registers a new property. The stored total value is always the sum
// of improvement and land values, never caller-supplied.
func (s *Service) Create(ctx context.Context, req transport.CreatePropertyRequest) (transport.PropertyResponse, error) {
	params := repository.CreateParams{
		County:     req.County,
		Address:    req.Address,
		City:       req.City,
		State:      req.State,
		PostalCode: req.PostalCode,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,

		PropertyType: req.PropertyType,
		YearBuilt:    req.YearBuilt,
		SquareFeet:   req.SquareFeet,

		ImprovementValue: req.ImprovementValue,
		LandValue:        req.LandValue,
		TotalValue:       req.ImprovementValue.Add(req.LandValue),
		MarketValue:      req.MarketValue,
		TaxAmountDue:     req.TaxAmountDue,
		ExistingTaxLoan:  req.ExistingTaxLoan,
		InForeclosure:    req.InForeclosure,
		TaxSaleDate:      req.TaxSaleDate,
	}

	property, err := s.repo.Create(ctx, params)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	s.log.Info("property created", "id", property.ID, "county", property.County)

	return toResponse(property), nil
}

// GetByID retrieves a property by ID.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (transport.PropertyResponse, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}
	return toResponse(property), nil
}

// List retrieves properties with filters and pagination.
func (s *Service) List(ctx context.Context, req transport.ListPropertiesRequest) (transport.PropertyListResponse, error) {
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

	items, total, err := s.repo.List(ctx, repository.ListParams{
		County:       req.County,
		PropertyType: req.PropertyType,
		Limit:        pageSize,
		Offset:       (page - 1) * pageSize,
	})
	if err != nil {
		return transport.PropertyListResponse{}, err
	}

	responses := make([]transport.PropertyResponse, 0, len(items))
	for _, property := range items {
		responses = append(responses, toResponse(property))
	}

	return transport.PropertyListResponse{Items: responses, Total: total}, nil
}

// UpdateDetails updates address and structural attributes.
func (s *Service) UpdateDetails(ctx context.Context, id uuid.UUID, req transport.UpdatePropertyDetailsRequest) (transport.PropertyResponse, error) {
	property, err := s.repo.UpdateDetails(ctx, repository.UpdateDetailsParams{
		ID:           id,
		County:       req.County,
		Address:      req.Address,
		City:         req.City,
		State:        req.State,
		PostalCode:   req.PostalCode,
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		PropertyType: req.PropertyType,
		YearBuilt:    req.YearBuilt,
		SquareFeet:   req.SquareFeet,
	})
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	return toResponse(property), nil
}

// UpdateValues updates financial figures. The stored total value is recomputed
// from the effective improvement and land values on every change.
func (s *Service) UpdateValues(ctx context.Context, id uuid.UUID, req transport.UpdatePropertyValuesRequest) (transport.PropertyResponse, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	improvement := current.ImprovementValue
	if req.ImprovementValue != nil {
		improvement = *req.ImprovementValue
	}
	land := current.LandValue
	if req.LandValue != nil {
		land = *req.LandValue
	}

	property, err := s.repo.UpdateValues(ctx, repository.UpdateValuesParams{
		ID:               id,
		ImprovementValue: req.ImprovementValue,
		LandValue:        req.LandValue,
		TotalValue:       improvement.Add(land),
		MarketValue:      req.MarketValue,
		TaxAmountDue:     req.TaxAmountDue,
		ExistingTaxLoan:  req.ExistingTaxLoan,
		InForeclosure:    req.InForeclosure,
		TaxSaleDate:      req.TaxSaleDate,
	})
	if err != nil {
		return transport.PropertyResponse{}, err
	}

	return toResponse(property), nil
}

// Delete soft-deletes a property.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Deactivate(ctx, id); err != nil {
		return err
	}

	s.log.Info("property deactivated", "id", id)

	return nil
}

// Lookup produces the priced property report: scoring breakdown, valuation
// basis and maximum loan sizing. The token debit happens before any figures
// are computed; an insufficient balance surfaces as a payment-required error.
func (s *Service) Lookup(ctx context.Context, userID, propertyID uuid.UUID) (transport.PropertyLookupResponse, error) {
	property, err := s.repo.GetByID(ctx, propertyID)
	if err != nil {
		return transport.PropertyLookupResponse{}, err
	}

	remaining, err := s.tokens.ConsumeLookup(ctx, userID, &property.ID)
	if err != nil {
		return transport.PropertyLookupResponse{}, err
	}

	result := scoring.CalculatePropertyScore(toScoringProfile(property), time.Now())
	financials := ToFinancials(property)
	valuation := financials.ValuationBasis()

	factors := make([]transport.ScoreFactorResponse, 0, len(result.Factors))
	for _, factor := range result.Factors {
		factors = append(factors, transport.ScoreFactorResponse{
			Description: factor.Description,
			Delta:       factor.Delta,
		})
	}

	return transport.PropertyLookupResponse{
		Property:            toResponse(property),
		Score:               result.Score,
		Grade:               result.Grade,
		InvestmentPotential: result.InvestmentPotential,
		ScoreFactors:        factors,
		ValuationBasis:      valuation,
		MaxLoanAmount:       finance.MaxLoanAmount(valuation, s.maxLTV),
		TokensRemaining:     remaining,
	}, nil
}

// ScoringProfile loads the scoring inputs of a property. Other modules
// consume it through an adapter.
func (s *Service) ScoringProfile(ctx context.Context, id uuid.UUID) (scoring.PropertyProfile, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return scoring.PropertyProfile{}, err
	}
	return toScoringProfile(property), nil
}

// Financials loads the finance-engine view of a property. Other modules
// consume it through an adapter.
func (s *Service) Financials(ctx context.Context, id uuid.UUID) (finance.PropertyFinancials, error) {
	property, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return finance.PropertyFinancials{}, err
	}
	return ToFinancials(property), nil
}

// ToFinancials converts a stored property into the finance engine's shape.
func ToFinancials(p repository.Property) finance.PropertyFinancials {
	return finance.PropertyFinancials{
		ImprovementValue: p.ImprovementValue,
		LandValue:        p.LandValue,
		TotalValue:       p.TotalValue,
		MarketValue:      p.MarketValue,
		TaxAmountDue:     p.TaxAmountDue,
		ExistingTaxLoan:  p.ExistingTaxLoan,
		InForeclosure:    p.InForeclosure,
		TaxSaleDate:      p.TaxSaleDate,
	}
}

func toScoringProfile(p repository.Property) scoring.PropertyProfile {
	profile := scoring.PropertyProfile{
		ImprovementValue: p.ImprovementValue,
		LandValue:        p.LandValue,
		TotalValue:       p.TotalValue,
		MarketValue:      p.MarketValue,
		TaxAmountDue:     p.TaxAmountDue,
		ExistingTaxLoan:  p.ExistingTaxLoan,
		InForeclosure:    p.InForeclosure,
		PropertyType:     p.PropertyType,
	}
	if p.YearBuilt != nil {
		profile.YearBuilt = *p.YearBuilt
	}
	if p.SquareFeet != nil {
		profile.SquareFeet = *p.SquareFeet
	}
	return profile
}

func toResponse(p repository.Property) transport.PropertyResponse {
	return transport.PropertyResponse{
		ID:         p.ID,
		County:     p.County,
		Address:    p.Address,
		City:       p.City,
		State:      p.State,
		PostalCode: p.PostalCode,
		Latitude:   p.Latitude,
		Longitude:  p.Longitude,

		PropertyType: p.PropertyType,
		YearBuilt:    p.YearBuilt,
		SquareFeet:   p.SquareFeet,

		ImprovementValue: p.ImprovementValue,
		LandValue:        p.LandValue,
		TotalValue:       p.TotalValue,
		MarketValue:      p.MarketValue,
		TaxAmountDue:     p.TaxAmountDue,
		ExistingTaxLoan:  p.ExistingTaxLoan,
		InForeclosure:    p.InForeclosure,
		TaxSaleDate:      p.TaxSaleDate,

		IsActive:  p.IsActive,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
