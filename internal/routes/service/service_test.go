package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"liencrm_backend/internal/routes/repository"
	"liencrm_backend/internal/routes/transport"
	"liencrm_backend/platform/apperr"
	"liencrm_backend/platform/logger"
)

type fakeRepo struct {
	routes map[uuid.UUID]repository.Route
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{routes: make(map[uuid.UUID]repository.Route)}
}

func (r *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Route, error) {
	route, ok := r.routes[id]
	if !ok {
		return repository.Route{}, apperr.NotFound("route not found")
	}
	return route, nil
}

func (r *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Route, int, error) {
	var matched []repository.Route
	for _, route := range r.routes {
		if route.UserID == params.UserID {
			summary := route
			summary.Stops = nil
			matched = append(matched, summary)
		}
	}
	return matched, len(matched), nil
}

func (r *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Route, error) {
	route := repository.Route{
		ID:              uuid.New(),
		UserID:          params.UserID,
		Name:            params.Name,
		TotalDistanceKM: params.TotalDistanceKM,
	}
	for _, stop := range params.Stops {
		route.Stops = append(route.Stops, repository.Stop{
			ID:             uuid.New(),
			RouteID:        route.ID,
			LeadID:         stop.LeadID,
			ProvidedIndex:  stop.ProvidedIndex,
			OptimizedIndex: stop.OptimizedIndex,
			Latitude:       stop.Latitude,
			Longitude:      stop.Longitude,
		})
	}
	r.routes[route.ID] = route
	return route, nil
}

func (r *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.routes[id]; !ok {
		return apperr.NotFound("route not found")
	}
	delete(r.routes, id)
	return nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type fakeLocator struct {
	owner uuid.UUID
	leads map[uuid.UUID]LeadPoint
}

func (l *fakeLocator) LocateLead(_ context.Context, userID, leadID uuid.UUID) (LeadPoint, error) {
	lead, ok := l.leads[leadID]
	if !ok {
		return LeadPoint{}, apperr.NotFound("lead not found")
	}
	if userID != l.owner {
		return LeadPoint{}, apperr.Forbidden("lead belongs to another agent")
	}
	return lead, nil
}

func ptr(v float64) *float64 { return &v }

type fixture struct {
	svc    *Service
	repo   *fakeRepo
	userID uuid.UUID
	leads  []uuid.UUID
	noGeo  uuid.UUID
}

// newFixture seeds four locatable leads on the same meridian plus one
// without coordinates, all owned by the same agent.
func newFixture(t *testing.T, optimizer Optimizer) *fixture {
	t.Helper()

	userID := uuid.New()
	locator := &fakeLocator{owner: userID, leads: make(map[uuid.UUID]LeadPoint)}

	lats := []float64{32.7767, 32.8267, 32.7867, 32.8067}
	leadIDs := make([]uuid.UUID, len(lats))
	for i, lat := range lats {
		id := uuid.New()
		leadIDs[i] = id
		locator.leads[id] = LeadPoint{ID: id, Latitude: ptr(lat), Longitude: ptr(-96.7970)}
	}

	noGeo := uuid.New()
	locator.leads[noGeo] = LeadPoint{ID: noGeo}

	repo := newFakeRepo()
	return &fixture{
		svc:    New(repo, locator, optimizer, logger.New("test")),
		repo:   repo,
		userID: userID,
		leads:  leadIDs,
		noGeo:  noGeo,
	}
}

func TestCreateKeepsSubmittedOrderWithIdentityOptimizer(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	route, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Tuesday canvass",
		LeadIDs: fx.leads[:3],
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if len(route.Stops) != 3 {
		t.Fatalf("Create() returned %d stops, want 3", len(route.Stops))
	}
	for i, stop := range route.Stops {
		if stop.LeadID != fx.leads[i] {
			t.Errorf("stop %d lead = %s, want %s", i, stop.LeadID, fx.leads[i])
		}
		if stop.ProvidedIndex != i || stop.OptimizedIndex != i {
			t.Errorf("stop %d indexes = (%d, %d), want (%d, %d)", i, stop.ProvidedIndex, stop.OptimizedIndex, i, i)
		}
	}
	if route.TotalDistanceKM <= 0 {
		t.Errorf("TotalDistanceKM = %.3f, want positive", route.TotalDistanceKM)
	}

	if len(fx.repo.routes) != 1 {
		t.Fatalf("repo holds %d routes, want 1", len(fx.repo.routes))
	}
}

func TestCreateReordersStopsWithNearestNeighbor(t *testing.T) {
	fx := newFixture(t, NearestNeighborOptimizer{})

	route, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Optimized canvass",
		LeadIDs: fx.leads,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	// The greedy walk from the southernmost stop visits submitted
	// positions 0, 2, 3, 1.
	wantProvided := []int{0, 2, 3, 1}
	for position, stop := range route.Stops {
		if stop.OptimizedIndex != position {
			t.Errorf("stop at position %d has optimized index %d", position, stop.OptimizedIndex)
		}
		if stop.ProvidedIndex != wantProvided[position] {
			t.Errorf("position %d visits submitted stop %d, want %d", position, stop.ProvidedIndex, wantProvided[position])
		}
		if stop.LeadID != fx.leads[wantProvided[position]] {
			t.Errorf("position %d lead = %s, want %s", position, stop.LeadID, fx.leads[wantProvided[position]])
		}
	}

	// 0.05 degrees of latitude, about 5.6 km.
	if route.TotalDistanceKM < 5.0 || route.TotalDistanceKM > 6.0 {
		t.Errorf("TotalDistanceKM = %.3f, want roughly 5.6", route.TotalDistanceKM)
	}
}

func TestCreateAnchorsAtStartPosition(t *testing.T) {
	fx := newFixture(t, NearestNeighborOptimizer{})

	// Starting north of every stop the greedy walk heads south, visiting
	// submitted positions 1, 3, 2, 0.
	route, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:     "From the office",
		LeadIDs:  fx.leads,
		StartLat: ptr(32.9000),
		StartLng: ptr(-96.7970),
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	wantProvided := []int{1, 3, 2, 0}
	for position, stop := range route.Stops {
		if stop.ProvidedIndex != wantProvided[position] {
			t.Errorf("position %d visits submitted stop %d, want %d", position, stop.ProvidedIndex, wantProvided[position])
		}
	}
}

func TestCreateRejectsHalfSpecifiedStart(t *testing.T) {
	fx := newFixture(t, NearestNeighborOptimizer{})

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:     "No longitude",
		LeadIDs:  fx.leads[:2],
		StartLat: ptr(32.9000),
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestCreateRejectsLeadWithoutCoordinates(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Broken route",
		LeadIDs: []uuid.UUID{fx.leads[0], fx.noGeo},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
	if len(fx.repo.routes) != 0 {
		t.Fatalf("repo holds %d routes after rejected create, want 0", len(fx.repo.routes))
	}
}

func TestCreateRejectsDuplicateLeads(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Duplicate stops",
		LeadIDs: []uuid.UUID{fx.leads[0], fx.leads[0]},
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestCreateRejectsSingleStop(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "One stop",
		LeadIDs: fx.leads[:1],
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("Create() error = %v, want validation error", err)
	}
}

func TestCreatePropagatesForeignLead(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	_, err := fx.svc.Create(context.Background(), uuid.New(), transport.CreateRouteRequest{
		Name:    "Someone else's leads",
		LeadIDs: fx.leads[:2],
	})
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("Create() error = %v, want forbidden error", err)
	}
}

func TestGetByIDRejectsForeignRoute(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	route, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Private route",
		LeadIDs: fx.leads[:2],
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := fx.svc.GetByID(context.Background(), uuid.New(), route.ID); apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("GetByID() error = %v, want forbidden error", err)
	}
}

func TestDeleteRemovesOwnedRoute(t *testing.T) {
	fx := newFixture(t, IdentityOptimizer{})

	route, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateRouteRequest{
		Name:    "Short lived",
		LeadIDs: fx.leads[:2],
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if err := fx.svc.Delete(context.Background(), fx.userID, route.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := fx.svc.GetByID(context.Background(), fx.userID, route.ID); apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("GetByID() after delete error = %v, want not found", err)
	}
}
