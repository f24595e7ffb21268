package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"liencrm_backend/internal/missions/domain"
)

// Mission is a field visit assigned to an agent for a lead.
type Mission struct {
	ID     uuid.UUID `db:"id"`
	LeadID uuid.UUID `db:"lead_id"`
	UserID uuid.UUID `db:"user_id"`

	Status       domain.Status `db:"status"`
	Instructions string        `db:"instructions"`

	// Site coordinates snapshotted from the lead at creation time.
	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`

	HoldExpiresAt time.Time  `db:"hold_expires_at"`
	AcceptedAt    *time.Time `db:"accepted_at"`
	CompletedAt   *time.Time `db:"completed_at"`

	CompletionLatitude  *float64 `db:"completion_latitude"`
	CompletionLongitude *float64 `db:"completion_longitude"`

	// DistanceTraveled is the great-circle distance in kilometers from the
	// site to the completion report, when both are known.
	DistanceTraveled *float64 `db:"distance_traveled"`

	DeclineReason string `db:"decline_reason"`

	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// UserStats tracks per-agent mission counters.
type UserStats struct {
	UserID             uuid.UUID `db:"user_id"`
	SafetyDeclineCount int       `db:"safety_decline_count"`
	CompletedCount     int       `db:"completed_count"`
	UpdatedAt          string    `db:"updated_at"`
}

// CreateParams contains parameters for creating a mission.
type CreateParams struct {
	LeadID        uuid.UUID
	UserID        uuid.UUID
	Instructions  string
	Latitude      *float64
	Longitude     *float64
	HoldExpiresAt time.Time
}

// CompleteParams carries the completion report for a mission.
type CompleteParams struct {
	ID             uuid.UUID
	CompletedAt    time.Time
	Latitude       *float64
	Longitude      *float64
	DistanceKM     *float64
}

// ListParams contains filters and paging for mission listings.
type ListParams struct {
	UserID uuid.UUID
	Status domain.Status
	Limit  int
	Offset int
}

// MissionReader provides read operations for missions.
type MissionReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Mission, error)
	List(ctx context.Context, params ListParams) ([]Mission, int, error)
	// CountActive counts the user's missions in a status that blocks new
	// assignments.
	CountActive(ctx context.Context, userID uuid.UUID) (int, error)
	GetUserStats(ctx context.Context, userID uuid.UUID) (UserStats, error)
}

// MissionWriter provides write operations for missions.
type MissionWriter interface {
	Create(ctx context.Context, params CreateParams) (Mission, error)
	// Transition moves a mission from an expected status to a new one. It
	// fails with a conflict when the stored status no longer matches, so
	// concurrent actors cannot double-apply a transition.
	Transition(ctx context.Context, id uuid.UUID, from, to domain.Status) (Mission, error)
	Accept(ctx context.Context, id uuid.UUID, acceptedAt time.Time) (Mission, error)
	Complete(ctx context.Context, params CompleteParams) (Mission, error)
	Decline(ctx context.Context, id uuid.UUID, from, to domain.Status, reason string) (Mission, error)
	// ExpireHeld moves every mission still new past its hold window into
	// the hold-expired status and returns the affected missions.
	ExpireHeld(ctx context.Context, now time.Time) ([]Mission, error)
	IncrementSafetyDeclines(ctx context.Context, userID uuid.UUID) (int, error)
	IncrementCompleted(ctx context.Context, userID uuid.UUID) (int, error)
}

// Repository combines all mission repository operations.
type Repository interface {
	MissionReader
	MissionWriter
}
