// Package notification subscribes to domain events and turns them into
// in-app notifications and outbound email. Domain modules publish events
// and never talk to mail providers or the notifications table directly.
package notification

import (
	"context"
	"fmt"

	"liencrm_backend/internal/email"
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	notifhandler "liencrm_backend/internal/notification/handler"
	"liencrm_backend/internal/notification/repository"
	"liencrm_backend/internal/notification/service"
	"liencrm_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// LeadOwnerResolver resolves which agent owns a lead, for events that
// carry a lead but no user.
type LeadOwnerResolver interface {
	LeadOwner(ctx context.Context, leadID uuid.UUID) (uuid.UUID, error)
}

// Module handles all notification-related event subscriptions and serves
// the in-app notification endpoints.
type Module struct {
	svc        *service.Service
	handler    *notifhandler.Handler
	sender     email.Sender
	leadOwners LeadOwnerResolver
	log        *logger.Logger
}

// NewModule creates a new notification module.
func NewModule(pool *pgxpool.Pool, sender email.Sender, log *logger.Logger) *Module {
	return newModule(repository.New(pool), sender, log)
}

func newModule(repo repository.Repository, sender email.Sender, log *logger.Logger) *Module {
	svc := service.New(repo, log)
	return &Module{
		svc:     svc,
		handler: notifhandler.New(svc),
		sender:  sender,
		log:     log,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string { return "notification" }

// Service returns the in-app notification service.
func (m *Module) Service() *service.Service { return m.svc }

// SetLeadOwnerResolver injects the lead owner lookup. Set after module
// construction to avoid a dependency cycle with the leads module.
func (m *Module) SetLeadOwnerResolver(resolver LeadOwnerResolver) {
	m.leadOwners = resolver
}

// RegisterRoutes mounts notification endpoints on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/notifications")
	group.GET("", m.handler.List)
	group.GET("/unread", m.handler.CountUnread)
	group.PATCH("/:id/read", m.handler.MarkRead)
	group.PATCH("/read-all", m.handler.MarkAllRead)
	group.DELETE("/:id", m.handler.Delete)
}

// RegisterHandlers subscribes to all relevant domain events on the event bus.
func (m *Module) RegisterHandlers(bus *events.InMemoryBus) {
	// Lead events
	bus.Subscribe(events.LeadScored{}.EventName(), m)
	bus.Subscribe(events.OwnerMailRequested{}.EventName(), m)

	// Opportunity events
	bus.Subscribe(events.OpportunityCreated{}.EventName(), m)

	// Mission events
	bus.Subscribe(events.MissionCreated{}.EventName(), m)
	bus.Subscribe(events.MissionAccepted{}.EventName(), m)
	bus.Subscribe(events.MissionCompleted{}.EventName(), m)
	bus.Subscribe(events.MissionDeclined{}.EventName(), m)
	bus.Subscribe(events.MissionHoldExpired{}.EventName(), m)

	// Token events
	bus.Subscribe(events.TokensDebitDenied{}.EventName(), m)

	m.log.Info("notification module registered event handlers")
}

// Handle dispatches events to their specific handlers.
func (m *Module) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.LeadScored:
		return m.handleLeadScored(ctx, e)
	case events.OwnerMailRequested:
		return m.handleOwnerMailRequested(ctx, e)
	case events.OpportunityCreated:
		return m.handleOpportunityCreated(ctx, e)
	case events.MissionCreated:
		return m.handleMissionCreated(ctx, e)
	case events.MissionAccepted:
		return m.handleMissionAccepted(ctx, e)
	case events.MissionCompleted:
		return m.handleMissionCompleted(ctx, e)
	case events.MissionDeclined:
		return m.handleMissionDeclined(ctx, e)
	case events.MissionHoldExpired:
		return m.handleMissionHoldExpired(ctx, e)
	case events.TokensDebitDenied:
		return m.handleTokensDebitDenied(ctx, e)
	default:
		m.log.Warn("unhandled event type", "event", event.EventName())
		return nil
	}
}

func (m *Module) handleLeadScored(ctx context.Context, e events.LeadScored) error {
	if m.leadOwners == nil {
		m.log.Warn("lead owner resolver not configured, skipping score notification", "leadId", e.LeadID)
		return nil
	}

	ownerID, err := m.leadOwners.LeadOwner(ctx, e.LeadID)
	if err != nil {
		m.log.Error("failed to resolve lead owner", "leadId", e.LeadID, "error", err)
		return err
	}

	content := fmt.Sprintf("Lead scored %d (grade %s).", e.Score, e.Grade)
	if e.PreviousScore != nil {
		content = fmt.Sprintf("Lead rescored %d (grade %s), previously %d.", e.Score, e.Grade, *e.PreviousScore)
	}

	return m.svc.Send(ctx, service.SendParams{
		UserID:       ownerID,
		Title:        "Lead scored",
		Content:      content,
		ResourceID:   &e.LeadID,
		ResourceType: "lead",
		Category:     repository.CategoryInfo,
	})
}

func (m *Module) handleOwnerMailRequested(ctx context.Context, e events.OwnerMailRequested) error {
	if e.OwnerEmail == "" {
		return m.svc.Send(ctx, service.SendParams{
			UserID:       e.UserID,
			Title:        "Owner mail not sent",
			Content:      "The lead has no owner email address on file.",
			ResourceID:   &e.LeadID,
			ResourceType: "lead",
			Category:     repository.CategoryWarning,
		})
	}

	if err := m.sender.SendOwnerMail(ctx, e.OwnerEmail, e.OwnerName, e.Subject, e.Body); err != nil {
		m.log.Error("failed to send owner mail",
			"leadId", e.LeadID,
			"userId", e.UserID,
			"error", err,
		)
		return err
	}
	m.log.Info("owner mail sent", "leadId", e.LeadID, "userId", e.UserID)

	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Owner mail sent",
		Content:      fmt.Sprintf("Your mailing %q was delivered to the property owner.", e.Subject),
		ResourceID:   &e.LeadID,
		ResourceType: "lead",
		Category:     repository.CategorySuccess,
	})
}

func (m *Module) handleOpportunityCreated(ctx context.Context, e events.OpportunityCreated) error {
	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.CreatedBy,
		Title:        "Opportunity created",
		Content:      fmt.Sprintf("Loan opportunity for %s created, monthly payment %s, risk %s.", e.LoanAmount, e.MonthlyPayment, e.RiskLevel),
		ResourceID:   &e.OpportunityID,
		ResourceType: "opportunity",
		Category:     repository.CategorySuccess,
	})
}

func (m *Module) handleMissionCreated(ctx context.Context, e events.MissionCreated) error {
	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Mission created",
		Content:      "A new field mission is waiting for your acceptance.",
		ResourceID:   &e.MissionID,
		ResourceType: "mission",
		Category:     repository.CategoryInfo,
	})
}

func (m *Module) handleMissionAccepted(ctx context.Context, e events.MissionAccepted) error {
	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Mission accepted",
		Content:      "Mission accepted. Visit instructions are on the mission page.",
		ResourceID:   &e.MissionID,
		ResourceType: "mission",
		Category:     repository.CategoryInfo,
	})
}

func (m *Module) handleMissionCompleted(ctx context.Context, e events.MissionCompleted) error {
	content := "Mission completed."
	if e.DistanceTraveled != nil {
		content = fmt.Sprintf("Mission completed, %.1f km traveled.", *e.DistanceTraveled)
	}

	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Mission completed",
		Content:      content,
		ResourceID:   &e.MissionID,
		ResourceType: "mission",
		Category:     repository.CategorySuccess,
	})
}

func (m *Module) handleMissionDeclined(ctx context.Context, e events.MissionDeclined) error {
	// Plain declines are routine and not worth a notification.
	if !e.SafetyDecline {
		return nil
	}

	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Safety decline recorded",
		Content:      "Your safety decline was recorded. The lead has been flagged for review.",
		ResourceID:   &e.MissionID,
		ResourceType: "mission",
		Category:     repository.CategoryWarning,
	})
}

func (m *Module) handleMissionHoldExpired(ctx context.Context, e events.MissionHoldExpired) error {
	return m.svc.Send(ctx, service.SendParams{
		UserID:       e.UserID,
		Title:        "Mission hold expired",
		Content:      "A mission sat unaccepted past its hold window and was released.",
		ResourceID:   &e.MissionID,
		ResourceType: "mission",
		Category:     repository.CategoryWarning,
	})
}

func (m *Module) handleTokensDebitDenied(ctx context.Context, e events.TokensDebitDenied) error {
	return m.svc.Send(ctx, service.SendParams{
		UserID:   e.UserID,
		Title:    "Token balance too low",
		Content:  fmt.Sprintf("A %s needed %d tokens but your balance is %d. Top up to continue.", e.Operation, e.Requested, e.Balance),
		Category: repository.CategoryWarning,
	})
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
