package repository

import (
	"context"

	"github.com/google/uuid"
)

// Route is a planned visiting order over a set of leads.
type Route struct {
	ID     uuid.UUID `db:"id"`
	UserID uuid.UUID `db:"user_id"`
	Name   string    `db:"name"`

	// TotalDistanceKM is the great-circle length of the optimized order.
	TotalDistanceKM float64 `db:"total_distance_km"`

	Stops []Stop

	CreatedAt string `db:"created_at"`
	UpdatedAt string `db:"updated_at"`
}

// Stop is one lead visit on a route. ProvidedIndex preserves the order the
// agent submitted; OptimizedIndex is the order the optimizer decided on.
type Stop struct {
	ID      uuid.UUID `db:"id"`
	RouteID uuid.UUID `db:"route_id"`
	LeadID  uuid.UUID `db:"lead_id"`

	ProvidedIndex  int `db:"provided_index"`
	OptimizedIndex int `db:"optimized_index"`

	Latitude  float64 `db:"latitude"`
	Longitude float64 `db:"longitude"`
}

// CreateParams contains a route and its stops, inserted atomically.
type CreateParams struct {
	UserID          uuid.UUID
	Name            string
	TotalDistanceKM float64
	Stops           []StopParams
}

// StopParams is one stop of a new route.
type StopParams struct {
	LeadID         uuid.UUID
	ProvidedIndex  int
	OptimizedIndex int
	Latitude       float64
	Longitude      float64
}

// ListParams contains paging for route listings.
type ListParams struct {
	UserID uuid.UUID
	Limit  int
	Offset int
}

// RouteReader provides read operations for routes.
type RouteReader interface {
	// GetByID returns the route with its stops ordered by optimized index.
	GetByID(ctx context.Context, id uuid.UUID) (Route, error)
	List(ctx context.Context, params ListParams) ([]Route, int, error)
}

// RouteWriter provides write operations for routes.
type RouteWriter interface {
	// Create inserts the route and all its stops in one transaction.
	Create(ctx context.Context, params CreateParams) (Route, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Repository combines all route repository operations.
type Repository interface {
	RouteReader
	RouteWriter
}
