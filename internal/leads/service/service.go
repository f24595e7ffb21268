package service

import (
	"context"

	"github.com/google/uuid"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/leads/repository"
	"liencrm_backend/internal/leads/transport"
	"liencrm_backend/internal/scoring"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/phone"
)

// PropertyProfiler loads the scoring profile of a lead's property.
// Implemented by the properties module behind an adapter.
type PropertyProfiler interface {
	ScoringProfile(ctx context.Context, propertyID uuid.UUID) (scoring.PropertyProfile, error)
}

// TokenConsumer debits mail tokens from a user. Implemented by the tokens
// module behind an adapter.
type TokenConsumer interface {
	ConsumeMail(ctx context.Context, userID uuid.UUID, referenceID *uuid.UUID) (remaining int, err error)
}

// Service provides business logic for leads.
type Service struct {
	repo     repository.Repository
	profiles PropertyProfiler
	tokens   TokenConsumer
	eventBus events.Bus
	log      *logger.Logger
}

// New creates a new leads service.
func New(repo repository.Repository, profiles PropertyProfiler, tokens TokenConsumer, eventBus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, profiles: profiles, tokens: tokens, eventBus: eventBus, log: log}
}

// Create registers a new lead owned by the calling agent.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateLeadRequest) (transport.LeadResponse, error) {
	lead, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:     userID,
		PropertyID: req.PropertyID,
		OwnerName:  req.OwnerName,
		OwnerPhone: phone.NormalizeE164(req.OwnerPhone),
		OwnerEmail: req.OwnerEmail,
		Source:     req.Source,
		County:     req.County,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Notes:      req.Notes,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	s.log.Info("lead created", "id", lead.ID, "userId", userID)
	s.eventBus.Publish(ctx, events.LeadCreated{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		PropertyID: lead.PropertyID,
		OwnerName:  lead.OwnerName,
		OwnerPhone: lead.OwnerPhone,
		OwnerEmail: lead.OwnerEmail,
		Source:     lead.Source,
		County:     lead.County,
	})

	return toResponse(lead), nil
}

// GetByID retrieves a lead owned by the calling agent.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.ownedLead(ctx, userID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	return toResponse(lead), nil
}

// List retrieves the calling agent's leads.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListLeadsRequest) (transport.LeadListResponse, error) {
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

	leads, total, err := s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Status: req.Status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.LeadListResponse{}, err
	}

	items := make([]transport.LeadResponse, 0, len(leads))
	for _, lead := range leads {
		items = append(items, toResponse(lead))
	}

	return transport.LeadListResponse{Items: items, Total: total}, nil
}

// Update updates a lead owned by the calling agent.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, req transport.UpdateLeadRequest) (transport.LeadResponse, error) {
	if _, err := s.ownedLead(ctx, userID, id); err != nil {
		return transport.LeadResponse{}, err
	}

	ownerPhone := req.OwnerPhone
	if ownerPhone != nil {
		normalized := phone.NormalizeE164(*ownerPhone)
		ownerPhone = &normalized
	}

	lead, err := s.repo.Update(ctx, repository.UpdateParams{
		ID:          id,
		OwnerName:   req.OwnerName,
		OwnerPhone:  ownerPhone,
		OwnerEmail:  req.OwnerEmail,
		County:      req.County,
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		Status:      req.Status,
		IsDangerous: req.IsDangerous,
		DoNotEmail:  req.DoNotEmail,
		DoNotMail:   req.DoNotMail,
		IsBusiness:  req.IsBusiness,
		Notes:       req.Notes,
	})
	if err != nil {
		return transport.LeadResponse{}, err
	}

	return toResponse(lead), nil
}

// Delete removes a lead owned by the calling agent.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedLead(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

// MailOwner debits mail tokens and queues a mailing to the lead's owner.
// Respecting the do-not-mail flag is the caller-facing contract; the debit
// only happens once the flag check passes.
func (s *Service) MailOwner(ctx context.Context, userID, id uuid.UUID, req transport.MailOwnerRequest) (transport.MailOwnerResponse, error) {
	lead, err := s.ownedLead(ctx, userID, id)
	if err != nil {
		return transport.MailOwnerResponse{}, err
	}

	if lead.DoNotMail {
		return transport.MailOwnerResponse{}, apperr.Validation("lead owner opted out of mailings")
	}

	remaining, err := s.tokens.ConsumeMail(ctx, userID, &lead.ID)
	if err != nil {
		return transport.MailOwnerResponse{}, err
	}

	s.eventBus.Publish(ctx, events.OwnerMailRequested{
		BaseEvent:  events.NewBaseEvent(),
		LeadID:     lead.ID,
		UserID:     userID,
		OwnerName:  lead.OwnerName,
		OwnerEmail: lead.OwnerEmail,
		Subject:    req.Subject,
		Body:       req.Body,
	})

	return transport.MailOwnerResponse{Queued: true, TokensRemaining: remaining}, nil
}

// ConvertibleLead returns the lead when the caller owns it and it has not
// already been converted or closed. The opportunities module consumes it
// through an adapter.
func (s *Service) ConvertibleLead(ctx context.Context, userID, id uuid.UUID) (transport.LeadResponse, error) {
	lead, err := s.ownedLead(ctx, userID, id)
	if err != nil {
		return transport.LeadResponse{}, err
	}
	if lead.Status == repository.StatusConverted || lead.Status == repository.StatusClosed {
		return transport.LeadResponse{}, apperr.Conflict("lead is already " + lead.Status)
	}
	return toResponse(lead), nil
}

// MarkConverted flips a lead into the converted status.
func (s *Service) MarkConverted(ctx context.Context, id uuid.UUID) error {
	status := repository.StatusConverted
	if _, err := s.repo.Update(ctx, repository.UpdateParams{ID: id, Status: &status}); err != nil {
		return err
	}
	return nil
}

func (s *Service) ownedLead(ctx context.Context, userID, id uuid.UUID) (repository.Lead, error) {
	lead, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Lead{}, err
	}
	if lead.UserID != userID {
		return repository.Lead{}, apperr.Forbidden("lead belongs to another agent")
	}
	return lead, nil
}

func toResponse(l repository.Lead) transport.LeadResponse {
	return transport.LeadResponse{
		ID:         l.ID,
		UserID:     l.UserID,
		PropertyID: l.PropertyID,

		OwnerName:  l.OwnerName,
		OwnerPhone: l.OwnerPhone,
		OwnerEmail: l.OwnerEmail,
		Source:     l.Source,
		County:     l.County,

		Latitude:  l.Latitude,
		Longitude: l.Longitude,

		Status:   l.Status,
		Score:    l.Score,
		Grade:    l.Grade,
		ScoredAt: l.ScoredAt,

		IsDangerous: l.IsDangerous,
		DoNotEmail:  l.DoNotEmail,
		DoNotMail:   l.DoNotMail,
		IsBusiness:  l.IsBusiness,

		Notes:     l.Notes,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
