package adapters

import (
	"context"

	"github.com/google/uuid"

	leadsservice "liencrm_backend/internal/leads/service"
	missionsservice "liencrm_backend/internal/missions/service"
)

// MissionLeadAdapter adapts the leads service for mission assignment. It
// implements missions/service.LeadSource.
type MissionLeadAdapter struct {
	svc *leadsservice.Service
}

// NewMissionLeadAdapter creates a new adapter that wraps the leads service.
func NewMissionLeadAdapter(svc *leadsservice.Service) *MissionLeadAdapter {
	return &MissionLeadAdapter{svc: svc}
}

// OpenLead returns the lead when the caller owns it and it is still open
// for field work.
func (a *MissionLeadAdapter) OpenLead(ctx context.Context, userID, leadID uuid.UUID) (missionsservice.LeadInfo, error) {
	lead, err := a.svc.ConvertibleLead(ctx, userID, leadID)
	if err != nil {
		return missionsservice.LeadInfo{}, err
	}
	return missionsservice.LeadInfo{
		ID:        lead.ID,
		Latitude:  lead.Latitude,
		Longitude: lead.Longitude,
	}, nil
}
