package adapters

import (
	"context"

	"github.com/google/uuid"

	leadsservice "liencrm_backend/internal/leads/service"
	oppservice "liencrm_backend/internal/opportunities/service"
)

// LeadConversionAdapter adapts the leads service for the opportunities
// module's conversion flow. It implements opportunities/service.LeadSource.
type LeadConversionAdapter struct {
	svc *leadsservice.Service
}

// NewLeadConversionAdapter creates a new adapter that wraps the leads service.
func NewLeadConversionAdapter(svc *leadsservice.Service) *LeadConversionAdapter {
	return &LeadConversionAdapter{svc: svc}
}

// ConvertibleLead returns the lead when the caller owns it and it can still
// be converted.
func (a *LeadConversionAdapter) ConvertibleLead(ctx context.Context, userID, leadID uuid.UUID) (oppservice.LeadSummary, error) {
	lead, err := a.svc.ConvertibleLead(ctx, userID, leadID)
	if err != nil {
		return oppservice.LeadSummary{}, err
	}
	return oppservice.LeadSummary{ID: lead.ID, PropertyID: lead.PropertyID}, nil
}

// MarkConverted flips a lead into the converted status.
func (a *LeadConversionAdapter) MarkConverted(ctx context.Context, leadID uuid.UUID) error {
	return a.svc.MarkConverted(ctx, leadID)
}
