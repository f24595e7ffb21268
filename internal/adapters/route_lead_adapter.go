package adapters

import (
	"context"

	"github.com/google/uuid"

	leadsservice "liencrm_backend/internal/leads/service"
	routesservice "liencrm_backend/internal/routes/service"
)

// RouteLeadAdapter adapts the leads service for route planning. It
// implements routes/service.LeadLocator.
type RouteLeadAdapter struct {
	svc *leadsservice.Service
}

// NewRouteLeadAdapter creates a new adapter that wraps the leads service.
func NewRouteLeadAdapter(svc *leadsservice.Service) *RouteLeadAdapter {
	return &RouteLeadAdapter{svc: svc}
}

// LocateLead returns the lead's position when the caller owns it and it is
// still open for field work.
func (a *RouteLeadAdapter) LocateLead(ctx context.Context, userID, leadID uuid.UUID) (routesservice.LeadPoint, error) {
	lead, err := a.svc.ConvertibleLead(ctx, userID, leadID)
	if err != nil {
		return routesservice.LeadPoint{}, err
	}
	return routesservice.LeadPoint{
		ID:        lead.ID,
		Latitude:  lead.Latitude,
		Longitude: lead.Longitude,
	}, nil
}
