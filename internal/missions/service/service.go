package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/geo"
	"liencrm_backend/internal/missions/domain"
	"liencrm_backend/internal/missions/repository"
	"liencrm_backend/internal/missions/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// Fallbacks when mission configuration is missing.
const (
	defaultHoldWindow  = 72 * time.Hour
	defaultActiveLimit = 1
)

// LeadInfo is the slice of a lead the mission flow needs.
type LeadInfo struct {
	ID        uuid.UUID
	Latitude  *float64
	Longitude *float64
}

// LeadSource supplies open leads for mission assignment. Implemented by the
// leads module behind an adapter.
type LeadSource interface {
	OpenLead(ctx context.Context, userID, leadID uuid.UUID) (LeadInfo, error)
}

// Service provides business logic for field missions.
type Service struct {
	repo     repository.Repository
	leads    LeadSource
	eventBus events.Bus
	log      *logger.Logger

	holdWindow  time.Duration
	activeLimit int
}

// New creates a new missions service.
func New(repo repository.Repository, leads LeadSource, cfg config.MissionConfig, eventBus events.Bus, log *logger.Logger) *Service {
	holdWindow := cfg.GetMissionHoldWindow()
	if holdWindow <= 0 {
		holdWindow = defaultHoldWindow
	}
	activeLimit := cfg.GetActiveMissionLimit()
	if activeLimit <= 0 {
		activeLimit = defaultActiveLimit
	}

	return &Service{
		repo:        repo,
		leads:       leads,
		eventBus:    eventBus,
		log:         log,
		holdWindow:  holdWindow,
		activeLimit: activeLimit,
	}
}

// Create assigns a field mission for a lead to the caller. The mission
// starts in the new status and must be accepted within the hold window.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateMissionRequest) (transport.MissionResponse, error) {
	lead, err := s.leads.OpenLead(ctx, userID, req.LeadID)
	if err != nil {
		return transport.MissionResponse{}, err
	}

	if err := s.checkActiveLimit(ctx, userID); err != nil {
		return transport.MissionResponse{}, err
	}

	mission, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:        lead.ID,
		UserID:        userID,
		Instructions:  req.Instructions,
		Latitude:      lead.Latitude,
		Longitude:     lead.Longitude,
		HoldExpiresAt: time.Now().UTC().Add(s.holdWindow),
	})
	if err != nil {
		return transport.MissionResponse{}, err
	}

	s.log.Info("mission created", "id", mission.ID, "leadId", lead.ID, "userId", userID)
	s.eventBus.Publish(ctx, events.MissionCreated{
		BaseEvent: events.NewBaseEvent(),
		MissionID: mission.ID,
		LeadID:    mission.LeadID,
		UserID:    userID,
	})

	return toResponse(mission), nil
}

// Accept moves a new mission into the accepted status.
func (s *Service) Accept(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	mission, err := s.ownedMission(ctx, userID, id)
	if err != nil {
		return transport.MissionResponse{}, err
	}
	if !domain.CanTransition(mission.Status, domain.StatusAccepted) {
		return transport.MissionResponse{}, transitionConflict(mission.Status, domain.StatusAccepted)
	}

	acceptedAt := time.Now().UTC()
	updated, err := s.repo.Accept(ctx, id, acceptedAt)
	if err != nil {
		return transport.MissionResponse{}, err
	}

	s.log.MissionTransition(id.String(), string(mission.Status), string(updated.Status))
	s.eventBus.Publish(ctx, events.MissionAccepted{
		BaseEvent:  events.NewBaseEvent(),
		MissionID:  updated.ID,
		LeadID:     updated.LeadID,
		UserID:     userID,
		AcceptedAt: acceptedAt,
	})

	return toResponse(updated), nil
}

// Decline refuses a mission. A safety decline lands in its own terminal
// status and bumps the agent's safety-decline counter for the suspension
// policy to act on.
func (s *Service) Decline(ctx context.Context, userID, id uuid.UUID, req transport.DeclineMissionRequest) (transport.MissionResponse, error) {
	mission, err := s.ownedMission(ctx, userID, id)
	if err != nil {
		return transport.MissionResponse{}, err
	}

	target := domain.StatusDeclined
	if req.Safety {
		target = domain.StatusDeclinedSafety
	}
	if !domain.CanTransition(mission.Status, target) {
		return transport.MissionResponse{}, transitionConflict(mission.Status, target)
	}

	updated, err := s.repo.Decline(ctx, id, mission.Status, target, req.Reason)
	if err != nil {
		return transport.MissionResponse{}, err
	}

	if req.Safety {
		count, err := s.repo.IncrementSafetyDeclines(ctx, userID)
		if err != nil {
			s.log.Error("increment safety declines failed", "userId", userID, "error", err)
		} else {
			s.log.Warn("safety decline recorded", "userId", userID, "missionId", id, "count", count)
		}
	}

	s.log.MissionTransition(id.String(), string(mission.Status), string(updated.Status))
	s.eventBus.Publish(ctx, events.MissionDeclined{
		BaseEvent:     events.NewBaseEvent(),
		MissionID:     updated.ID,
		LeadID:        updated.LeadID,
		UserID:        userID,
		SafetyDecline: req.Safety,
		Reason:        req.Reason,
	})

	return toResponse(updated), nil
}

// Pause suspends an accepted mission.
func (s *Service) Pause(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusPaused)
}

// Resume returns a paused mission to the accepted status.
func (s *Service) Resume(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusAccepted)
}

// Hold parks a new mission outside the active flow.
func (s *Service) Hold(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusOnHold)
}

// Release returns a held mission to the new status.
func (s *Service) Release(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusNew)
}

// Cancel cancels a mission from any cancellable status.
func (s *Service) Cancel(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusCancelled)
}

// Close archives a completed mission.
func (s *Service) Close(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	return s.transition(ctx, userID, id, domain.StatusClosed)
}

// Complete records a completion report for an accepted mission. Distance is
// derived from the mission site to the reported position; missing
// coordinates on either side leave it unset without blocking completion.
func (s *Service) Complete(ctx context.Context, userID, id uuid.UUID, req transport.CompleteMissionRequest) (transport.MissionResponse, error) {
	mission, err := s.ownedMission(ctx, userID, id)
	if err != nil {
		return transport.MissionResponse{}, err
	}
	if !domain.CanTransition(mission.Status, domain.StatusCompleted) {
		return transport.MissionResponse{}, transitionConflict(mission.Status, domain.StatusCompleted)
	}

	var distanceKM *float64
	if mission.Latitude != nil && mission.Longitude != nil && req.Latitude != nil && req.Longitude != nil {
		d := geo.DistanceKM(*mission.Latitude, *mission.Longitude, *req.Latitude, *req.Longitude)
		distanceKM = &d
	}

	updated, err := s.repo.Complete(ctx, repository.CompleteParams{
		ID:          id,
		CompletedAt: time.Now().UTC(),
		Latitude:    req.Latitude,
		Longitude:   req.Longitude,
		DistanceKM:  distanceKM,
	})
	if err != nil {
		return transport.MissionResponse{}, err
	}

	if _, err := s.repo.IncrementCompleted(ctx, userID); err != nil {
		s.log.Error("increment completed missions failed", "userId", userID, "error", err)
	}

	s.log.MissionTransition(id.String(), string(mission.Status), string(updated.Status))
	s.eventBus.Publish(ctx, events.MissionCompleted{
		BaseEvent:        events.NewBaseEvent(),
		MissionID:        updated.ID,
		LeadID:           updated.LeadID,
		UserID:           userID,
		DistanceTraveled: distanceKM,
	})

	return toResponse(updated), nil
}

// GetByID retrieves a mission owned by the caller.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (transport.MissionResponse, error) {
	mission, err := s.ownedMission(ctx, userID, id)
	if err != nil {
		return transport.MissionResponse{}, err
	}
	return toResponse(mission), nil
}

// List retrieves the caller's missions.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListMissionsRequest) (transport.MissionListResponse, error) {
	status := domain.Status(req.Status)
	if req.Status != "" && !status.Valid() {
		return transport.MissionListResponse{}, apperr.Validation("unknown mission status " + req.Status)
	}

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

	missions, total, err := s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Status: status,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.MissionListResponse{}, err
	}

	items := make([]transport.MissionResponse, 0, len(missions))
	for _, mission := range missions {
		items = append(items, toResponse(mission))
	}
	return transport.MissionListResponse{Items: items, Total: total}, nil
}

// Stats reports the caller's mission counters.
func (s *Service) Stats(ctx context.Context, userID uuid.UUID) (transport.UserStatsResponse, error) {
	stats, err := s.repo.GetUserStats(ctx, userID)
	if err != nil {
		return transport.UserStatsResponse{}, err
	}
	return transport.UserStatsResponse{
		UserID:             userID,
		SafetyDeclineCount: stats.SafetyDeclineCount,
		CompletedCount:     stats.CompletedCount,
	}, nil
}

// ExpireHeld expires every mission still new past its hold window. The
// scheduler worker calls this periodically.
func (s *Service) ExpireHeld(ctx context.Context) (transport.ExpireHeldResponse, error) {
	expired, err := s.repo.ExpireHeld(ctx, time.Now().UTC())
	if err != nil {
		return transport.ExpireHeldResponse{}, err
	}

	for _, mission := range expired {
		s.log.MissionTransition(mission.ID.String(), string(domain.StatusNew), string(mission.Status))
		s.eventBus.Publish(ctx, events.MissionHoldExpired{
			BaseEvent: events.NewBaseEvent(),
			MissionID: mission.ID,
			LeadID:    mission.LeadID,
			UserID:    mission.UserID,
		})
	}

	if len(expired) > 0 {
		s.log.Info("held missions expired", "count", len(expired))
	}
	return transport.ExpireHeldResponse{Expired: len(expired)}, nil
}

func (s *Service) transition(ctx context.Context, userID, id uuid.UUID, target domain.Status) (transport.MissionResponse, error) {
	mission, err := s.ownedMission(ctx, userID, id)
	if err != nil {
		return transport.MissionResponse{}, err
	}
	if !domain.CanTransition(mission.Status, target) {
		return transport.MissionResponse{}, transitionConflict(mission.Status, target)
	}

	updated, err := s.repo.Transition(ctx, id, mission.Status, target)
	if err != nil {
		return transport.MissionResponse{}, err
	}

	s.log.MissionTransition(id.String(), string(mission.Status), string(updated.Status))
	return toResponse(updated), nil
}

func (s *Service) checkActiveLimit(ctx context.Context, userID uuid.UUID) error {
	active, err := s.repo.CountActive(ctx, userID)
	if err != nil {
		return err
	}
	if active >= s.activeLimit {
		return apperr.Conflict("active mission limit reached")
	}
	return nil
}

func (s *Service) ownedMission(ctx context.Context, userID, id uuid.UUID) (repository.Mission, error) {
	mission, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Mission{}, err
	}
	if mission.UserID != userID {
		return repository.Mission{}, apperr.Forbidden("mission belongs to another agent")
	}
	return mission, nil
}

func transitionConflict(from, to domain.Status) error {
	return apperr.Conflict("cannot move mission from " + string(from) + " to " + string(to))
}

func toResponse(m repository.Mission) transport.MissionResponse {
	return transport.MissionResponse{
		ID:     m.ID,
		LeadID: m.LeadID,
		UserID: m.UserID,

		Status:       string(m.Status),
		Instructions: m.Instructions,

		Latitude:  m.Latitude,
		Longitude: m.Longitude,

		HoldExpiresAt: m.HoldExpiresAt,
		AcceptedAt:    m.AcceptedAt,
		CompletedAt:   m.CompletedAt,

		DistanceTraveled: m.DistanceTraveled,

		DeclineReason: m.DeclineReason,

		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
