package adapters

import (
	"context"

	"github.com/google/uuid"

	"liencrm_backend/internal/finance"
	"liencrm_backend/internal/properties/service"
	"liencrm_backend/internal/scoring"
)

// PropertyProfileAdapter exposes property scoring inputs and financials to
// the leads and opportunities modules without leaking repository types.
type PropertyProfileAdapter struct {
	svc *service.Service
}

// NewPropertyProfileAdapter creates a new adapter that wraps the properties service.
func NewPropertyProfileAdapter(svc *service.Service) *PropertyProfileAdapter {
	return &PropertyProfileAdapter{svc: svc}
}

// ScoringProfile implements the leads module's PropertyProfiler interface.
func (a *PropertyProfileAdapter) ScoringProfile(ctx context.Context, propertyID uuid.UUID) (scoring.PropertyProfile, error) {
	return a.svc.ScoringProfile(ctx, propertyID)
}

// Financials implements the opportunities module's PropertyValuer interface.
func (a *PropertyProfileAdapter) Financials(ctx context.Context, propertyID uuid.UUID) (finance.PropertyFinancials, error) {
	return a.svc.Financials(ctx, propertyID)
}
