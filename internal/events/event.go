// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"liencrm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
	InMemoryBus = events.InMemoryBus
)

// Re-export platform functions
var (
	NewBaseEvent   = events.NewBaseEvent
	NewInMemoryBus = events.NewInMemoryBus
)

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the system.
type LeadCreated struct {
	BaseEvent
	LeadID       uuid.UUID  `json:"leadId"`
	PropertyID   *uuid.UUID `json:"propertyId,omitempty"`
	OwnerName    string     `json:"ownerName"`
	OwnerPhone   string     `json:"ownerPhone,omitempty"`
	OwnerEmail   string     `json:"ownerEmail,omitempty"`
	Source       string     `json:"source,omitempty"`
	County       string     `json:"county,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadScored is published when a lead's property score is computed or refreshed.
type LeadScored struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	PropertyID    uuid.UUID `json:"propertyId"`
	Score         int       `json:"score"`
	PreviousScore *int      `json:"previousScore,omitempty"`
	Grade         string    `json:"grade"`
}

func (e LeadScored) EventName() string { return "leads.lead.scored" }

// OwnerMailRequested is published when an agent pays for a mailing to a
// property owner. The notification module picks it up for delivery.
type OwnerMailRequested struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	UserID     uuid.UUID `json:"userId"`
	OwnerName  string    `json:"ownerName"`
	OwnerEmail string    `json:"ownerEmail,omitempty"`
	Subject    string    `json:"subject"`
	Body       string    `json:"body"`
}

func (e OwnerMailRequested) EventName() string { return "leads.owner_mail.requested" }

// =============================================================================
// Opportunities Domain Events
// =============================================================================

// OpportunityCreated is published when a lead is converted into a loan opportunity.
type OpportunityCreated struct {
	BaseEvent
	OpportunityID  uuid.UUID `json:"opportunityId"`
	LeadID         uuid.UUID `json:"leadId"`
	PropertyID     uuid.UUID `json:"propertyId"`
	LoanAmount     string    `json:"loanAmount"`
	MonthlyPayment string    `json:"monthlyPayment"`
	RiskLevel      string    `json:"riskLevel"`
	CreatedBy      uuid.UUID `json:"createdBy"`
}

func (e OpportunityCreated) EventName() string { return "opportunities.opportunity.created" }

// OpportunityRecalculated is published when loan terms on an opportunity change
// and its payment and risk figures are recomputed.
type OpportunityRecalculated struct {
	BaseEvent
	OpportunityID uuid.UUID `json:"opportunityId"`
	LoanAmount    string    `json:"loanAmount"`
	RiskLevel     string    `json:"riskLevel"`
	ActorID       uuid.UUID `json:"actorId"`
}

func (e OpportunityRecalculated) EventName() string { return "opportunities.opportunity.recalculated" }

// =============================================================================
// Missions Domain Events
// =============================================================================

// MissionCreated is published when a field mission is generated for a lead.
type MissionCreated struct {
	BaseEvent
	MissionID uuid.UUID `json:"missionId"`
	LeadID    uuid.UUID `json:"leadId"`
	UserID    uuid.UUID `json:"userId"`
}

func (e MissionCreated) EventName() string { return "missions.mission.created" }

// MissionAccepted is published when a field agent accepts a mission.
type MissionAccepted struct {
	BaseEvent
	MissionID  uuid.UUID `json:"missionId"`
	LeadID     uuid.UUID `json:"leadId"`
	UserID     uuid.UUID `json:"userId"`
	AcceptedAt time.Time `json:"acceptedAt"`
}

func (e MissionAccepted) EventName() string { return "missions.mission.accepted" }

// MissionCompleted is published when a mission reaches the completed state.
type MissionCompleted struct {
	BaseEvent
	MissionID        uuid.UUID `json:"missionId"`
	LeadID           uuid.UUID `json:"leadId"`
	UserID           uuid.UUID `json:"userId"`
	DistanceTraveled *float64  `json:"distanceTraveled,omitempty"`
}

func (e MissionCompleted) EventName() string { return "missions.mission.completed" }

// MissionDeclined is published when a mission is declined, including
// safety-related declines. Safety declines feed the per-user safety counter.
type MissionDeclined struct {
	BaseEvent
	MissionID     uuid.UUID `json:"missionId"`
	LeadID        uuid.UUID `json:"leadId"`
	UserID        uuid.UUID `json:"userId"`
	SafetyDecline bool      `json:"safetyDecline"`
	Reason        string    `json:"reason,omitempty"`
}

func (e MissionDeclined) EventName() string { return "missions.mission.declined" }

// MissionHoldExpired is published by the scheduler when a mission sat in the
// new state past the hold window and was expired.
type MissionHoldExpired struct {
	BaseEvent
	MissionID uuid.UUID `json:"missionId"`
	LeadID    uuid.UUID `json:"leadId"`
	UserID    uuid.UUID `json:"userId"`
}

func (e MissionHoldExpired) EventName() string { return "missions.mission.hold_expired" }

// =============================================================================
// Tokens Domain Events
// =============================================================================

// TokensDebited is published after a successful token debit.
type TokensDebited struct {
	BaseEvent
	UserID          uuid.UUID  `json:"userId"`
	Amount          int        `json:"amount"`
	TokensRemaining int        `json:"tokensRemaining"`
	Operation       string     `json:"operation"`
	ReferenceID     *uuid.UUID `json:"referenceId,omitempty"`
}

func (e TokensDebited) EventName() string { return "tokens.debited" }

// TokensDebitDenied is published when a debit is refused for insufficient balance.
// Used for transparency and downstream handlers (e.g. notifications).
type TokensDebitDenied struct {
	BaseEvent
	UserID    uuid.UUID `json:"userId"`
	Requested int       `json:"requested"`
	Balance   int       `json:"balance"`
	Operation string    `json:"operation"`
}

func (e TokensDebitDenied) EventName() string { return "tokens.debit_denied" }
