package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"liencrm_backend/internal/geo"
)

// Lead statuses.
const (
	StatusNew       = "new"
	StatusContacted = "contacted"
	StatusQualified = "qualified"
	StatusConverted = "converted"
	StatusClosed    = "closed"
)

// Lead represents a property owner being worked by a field agent.
type Lead struct {
	ID         uuid.UUID  `db:"id"`
	UserID     uuid.UUID  `db:"user_id"`
	PropertyID *uuid.UUID `db:"property_id"`

	OwnerName  string `db:"owner_name"`
	OwnerPhone string `db:"owner_phone"`
	OwnerEmail string `db:"owner_email"`
	Source     string `db:"source"`
	County     string `db:"county"`

	Latitude  *float64 `db:"latitude"`
	Longitude *float64 `db:"longitude"`

	Status   string     `db:"status"`
	Score    *int       `db:"score"`
	Grade    *string    `db:"grade"`
	ScoredAt *time.Time `db:"scored_at"`

	IsDangerous bool `db:"is_dangerous"`
	DoNotEmail  bool `db:"do_not_email"`
	DoNotMail   bool `db:"do_not_mail"`
	IsBusiness  bool `db:"is_business"`

	Notes     string `db:"notes"`
	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// CreateParams contains parameters for creating a lead.
type CreateParams struct {
	UserID     uuid.UUID
	PropertyID *uuid.UUID
	OwnerName  string
	OwnerPhone string
	OwnerEmail string
	Source     string
	County     string
	Latitude   *float64
	Longitude  *float64
	Notes      string
}

// UpdateParams contains parameters for updating a lead. Nil fields are left
// unchanged.
type UpdateParams struct {
	ID          uuid.UUID
	OwnerName   *string
	OwnerPhone  *string
	OwnerEmail  *string
	County      *string
	Latitude    *float64
	Longitude   *float64
	Status      *string
	IsDangerous *bool
	DoNotEmail  *bool
	DoNotMail   *bool
	IsBusiness  *bool
	Notes       *string
}

// ScoreUpdate persists a freshly computed score.
type ScoreUpdate struct {
	ID       uuid.UUID
	Score    int
	Grade    string
	ScoredAt time.Time
}

// ListParams contains filters and paging for lead listings.
type ListParams struct {
	UserID uuid.UUID
	Status string
	Limit  int
	Offset int
}

// MatchFilters are the predicate filters applied inside the bounding-box
// prefilter query, before any distance work happens.
type MatchFilters struct {
	ExcludeDangerous    bool
	ExcludeBusiness     bool
	ExcludeDoNotContact bool
	PropertyType        string
	MinAmountDue        *decimal.Decimal
	MaxAmountDue        *decimal.Decimal
}

// LeadReader provides read operations for leads.
type LeadReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (Lead, error)
	List(ctx context.Context, params ListParams) ([]Lead, int, error)
	// ListInBoundingBox returns leads with coordinates inside the box that
	// survive the predicate filters. Exact distance filtering is the
	// service's job.
	ListInBoundingBox(ctx context.Context, box geo.BoundingBox, filters MatchFilters) ([]Lead, error)
	// ListScoreable returns leads attached to a property, for batch rescoring.
	ListScoreable(ctx context.Context) ([]uuid.UUID, error)
}

// LeadWriter provides write operations for leads.
type LeadWriter interface {
	Create(ctx context.Context, params CreateParams) (Lead, error)
	Update(ctx context.Context, params UpdateParams) (Lead, error)
	UpdateScore(ctx context.Context, update ScoreUpdate) (Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all lead repository operations.
type Repository interface {
	LeadReader
	LeadWriter
}
