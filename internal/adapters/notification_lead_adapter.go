package adapters

import (
	"context"

	"github.com/google/uuid"

	leadsrepo "liencrm_backend/internal/leads/repository"
)

// NotificationLeadAdapter resolves lead ownership for the notification
// module. It implements notification.LeadOwnerResolver.
type NotificationLeadAdapter struct {
	repo leadsrepo.Repository
}

// NewNotificationLeadAdapter creates a new adapter over the leads repository.
func NewNotificationLeadAdapter(repo leadsrepo.Repository) *NotificationLeadAdapter {
	return &NotificationLeadAdapter{repo: repo}
}

// LeadOwner returns the agent who owns the lead.
func (a *NotificationLeadAdapter) LeadOwner(ctx context.Context, leadID uuid.UUID) (uuid.UUID, error) {
	lead, err := a.repo.GetByID(ctx, leadID)
	if err != nil {
		return uuid.Nil, err
	}
	return lead.UserID, nil
}
