package transport

import "github.com/google/uuid"

// CreateRouteRequest plans a visiting route over a set of leads. Lead order
// is the agent's preference; the optimizer decides the final order. The
// optional start coordinates anchor the route at the agent's position.
type CreateRouteRequest struct {
	Name     string      `json:"name" validate:"required,min=1,max=200"`
	LeadIDs  []uuid.UUID `json:"leadIds" validate:"required,min=2,max=25,unique"`
	StartLat *float64    `json:"startLat" validate:"omitempty,latitude"`
	StartLng *float64    `json:"startLng" validate:"omitempty,longitude"`
}

// ListRoutesRequest contains paging for route listings.
type ListRoutesRequest struct {
	Page     int `form:"page"`
	PageSize int `form:"pageSize"`
}

// StopResponse is one stop on a route, in optimized order.
type StopResponse struct {
	LeadID         uuid.UUID `json:"leadId"`
	ProvidedIndex  int       `json:"providedIndex"`
	OptimizedIndex int       `json:"optimizedIndex"`
	Latitude       float64   `json:"latitude"`
	Longitude      float64   `json:"longitude"`
}

// RouteResponse represents a route in API responses.
type RouteResponse struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"userId"`
	Name   string    `json:"name"`

	TotalDistanceKM float64 `json:"totalDistanceKm"`

	Stops []StopResponse `json:"stops,omitempty"`

	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

// RouteListResponse wraps a list of routes.
type RouteListResponse struct {
	Items []RouteResponse `json:"items"`
	Total int             `json:"total"`
}
