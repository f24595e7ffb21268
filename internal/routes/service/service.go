package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"liencrm_backend/internal/routes/repository"
	"liencrm_backend/internal/routes/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/logger"
)

// Route size bounds. A single stop is not a route; past 25 the optimizer
// ordering stops being meaningful for a day of field work.
const (
	minStops = 2
	maxStops = 25
)

// LeadPoint is the slice of a lead the route planner needs.
type LeadPoint struct {
	ID        uuid.UUID
	Latitude  *float64
	Longitude *float64
}

// LeadLocator resolves leads for route planning. Implemented by the leads
// module behind an adapter.
type LeadLocator interface {
	LocateLead(ctx context.Context, userID, leadID uuid.UUID) (LeadPoint, error)
}

// Service provides business logic for visit routes.
type Service struct {
	repo      repository.Repository
	leads     LeadLocator
	optimizer Optimizer
	log       *logger.Logger
}

// New creates a new routes service.
func New(repo repository.Repository, leads LeadLocator, optimizer Optimizer, log *logger.Logger) *Service {
	return &Service{repo: repo, leads: leads, optimizer: optimizer, log: log}
}

// Create plans a route over the given leads. Every lead must belong to the
// caller and carry coordinates; the optimizer decides the visiting order.
func (s *Service) Create(ctx context.Context, userID uuid.UUID, req transport.CreateRouteRequest) (transport.RouteResponse, error) {
	if len(req.LeadIDs) < minStops {
		return transport.RouteResponse{}, apperr.Validation(fmt.Sprintf("a route needs at least %d stops", minStops))
	}
	if len(req.LeadIDs) > maxStops {
		return transport.RouteResponse{}, apperr.Validation(fmt.Sprintf("a route cannot exceed %d stops", maxStops))
	}

	seen := make(map[uuid.UUID]struct{}, len(req.LeadIDs))
	waypoints := make([]Waypoint, 0, len(req.LeadIDs))
	for _, leadID := range req.LeadIDs {
		if _, dup := seen[leadID]; dup {
			return transport.RouteResponse{}, apperr.Validation("lead " + leadID.String() + " appears more than once")
		}
		seen[leadID] = struct{}{}

		lead, err := s.leads.LocateLead(ctx, userID, leadID)
		if err != nil {
			return transport.RouteResponse{}, err
		}
		if lead.Latitude == nil || lead.Longitude == nil {
			return transport.RouteResponse{}, apperr.Validation("lead " + leadID.String() + " has no coordinates")
		}
		waypoints = append(waypoints, Waypoint{Latitude: *lead.Latitude, Longitude: *lead.Longitude})
	}

	var start *Waypoint
	if req.StartLat != nil || req.StartLng != nil {
		if req.StartLat == nil || req.StartLng == nil {
			return transport.RouteResponse{}, apperr.Validation("start position needs both latitude and longitude")
		}
		start = &Waypoint{Latitude: *req.StartLat, Longitude: *req.StartLng}
	}

	order, err := s.optimizer.Optimize(ctx, start, waypoints)
	if err != nil {
		return transport.RouteResponse{}, fmt.Errorf("optimize route: %w", err)
	}
	if len(order) != len(waypoints) {
		return transport.RouteResponse{}, fmt.Errorf("optimizer returned %d positions for %d stops", len(order), len(waypoints))
	}

	stops := make([]repository.StopParams, len(order))
	for position, providedIndex := range order {
		stops[position] = repository.StopParams{
			LeadID:         req.LeadIDs[providedIndex],
			ProvidedIndex:  providedIndex,
			OptimizedIndex: position,
			Latitude:       waypoints[providedIndex].Latitude,
			Longitude:      waypoints[providedIndex].Longitude,
		}
	}

	route, err := s.repo.Create(ctx, repository.CreateParams{
		UserID:          userID,
		Name:            req.Name,
		TotalDistanceKM: RouteLength(waypoints, order),
		Stops:           stops,
	})
	if err != nil {
		return transport.RouteResponse{}, err
	}

	s.log.Info("route created", "id", route.ID, "userId", userID, "stops", len(stops), "distanceKm", route.TotalDistanceKM)

	return toResponse(route), nil
}

// GetByID retrieves a route owned by the caller, stops in optimized order.
func (s *Service) GetByID(ctx context.Context, userID, id uuid.UUID) (transport.RouteResponse, error) {
	route, err := s.ownedRoute(ctx, userID, id)
	if err != nil {
		return transport.RouteResponse{}, err
	}
	return toResponse(route), nil
}

// List retrieves the caller's routes without stops.
func (s *Service) List(ctx context.Context, userID uuid.UUID, req transport.ListRoutesRequest) (transport.RouteListResponse, error) {
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

	routes, total, err := s.repo.List(ctx, repository.ListParams{
		UserID: userID,
		Limit:  pageSize,
		Offset: (page - 1) * pageSize,
	})
	if err != nil {
		return transport.RouteListResponse{}, err
	}

	items := make([]transport.RouteResponse, 0, len(routes))
	for _, route := range routes {
		items = append(items, toResponse(route))
	}
	return transport.RouteListResponse{Items: items, Total: total}, nil
}

// Delete removes a route owned by the caller.
func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	if _, err := s.ownedRoute(ctx, userID, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}

func (s *Service) ownedRoute(ctx context.Context, userID, id uuid.UUID) (repository.Route, error) {
	route, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return repository.Route{}, err
	}
	if route.UserID != userID {
		return repository.Route{}, apperr.Forbidden("route belongs to another agent")
	}
	return route, nil
}

func toResponse(r repository.Route) transport.RouteResponse {
	stops := make([]transport.StopResponse, 0, len(r.Stops))
	for _, stop := range r.Stops {
		stops = append(stops, transport.StopResponse{
			LeadID:         stop.LeadID,
			ProvidedIndex:  stop.ProvidedIndex,
			OptimizedIndex: stop.OptimizedIndex,
			Latitude:       stop.Latitude,
			Longitude:      stop.Longitude,
		})
	}

	return transport.RouteResponse{
		ID:     r.ID,
		UserID: r.UserID,
		Name:   r.Name,

		TotalDistanceKM: r.TotalDistanceKM,

		Stops: stops,

		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
}
