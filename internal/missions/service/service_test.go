package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"liencrm_backend/internal/events"
	"liencrm_backend/internal/missions/domain"
	"liencrm_backend/internal/missions/repository"
	"liencrm_backend/internal/missions/transport"
	"liencrm_backend/platform/apperr"
	platformevents "liencrm_backend/platform/events"
	"liencrm_backend/platform/logger"
)

type fakeRepo struct {
	missions map[uuid.UUID]repository.Mission
	stats    map[uuid.UUID]*repository.UserStats
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		missions: make(map[uuid.UUID]repository.Mission),
		stats:    make(map[uuid.UUID]*repository.UserStats),
	}
}

func (f *fakeRepo) GetByID(_ context.Context, id uuid.UUID) (repository.Mission, error) {
	mission, ok := f.missions[id]
	if !ok {
		return repository.Mission{}, apperr.NotFound("mission not found")
	}
	return mission, nil
}

func (f *fakeRepo) List(_ context.Context, params repository.ListParams) ([]repository.Mission, int, error) {
	var out []repository.Mission
	for _, mission := range f.missions {
		if mission.UserID != params.UserID {
			continue
		}
		if params.Status != "" && mission.Status != params.Status {
			continue
		}
		out = append(out, mission)
	}
	return out, len(out), nil
}

func (f *fakeRepo) CountActive(_ context.Context, userID uuid.UUID) (int, error) {
	count := 0
	for _, mission := range f.missions {
		if mission.UserID == userID && mission.Status.Active() {
			count++
		}
	}
	return count, nil
}

func (f *fakeRepo) GetUserStats(_ context.Context, userID uuid.UUID) (repository.UserStats, error) {
	if stats, ok := f.stats[userID]; ok {
		return *stats, nil
	}
	return repository.UserStats{UserID: userID}, nil
}

func (f *fakeRepo) Create(_ context.Context, params repository.CreateParams) (repository.Mission, error) {
	mission := repository.Mission{
		ID:            uuid.New(),
		LeadID:        params.LeadID,
		UserID:        params.UserID,
		Status:        domain.StatusNew,
		Instructions:  params.Instructions,
		Latitude:      params.Latitude,
		Longitude:     params.Longitude,
		HoldExpiresAt: params.HoldExpiresAt,
	}
	f.missions[mission.ID] = mission
	return mission, nil
}

func (f *fakeRepo) guarded(id uuid.UUID, from domain.Status, apply func(*repository.Mission)) (repository.Mission, error) {
	mission, ok := f.missions[id]
	if !ok {
		return repository.Mission{}, apperr.NotFound("mission not found")
	}
	if mission.Status != from {
		return repository.Mission{}, apperr.Conflict("mission status changed")
	}
	apply(&mission)
	f.missions[id] = mission
	return mission, nil
}

func (f *fakeRepo) Transition(_ context.Context, id uuid.UUID, from, to domain.Status) (repository.Mission, error) {
	return f.guarded(id, from, func(m *repository.Mission) { m.Status = to })
}

func (f *fakeRepo) Accept(_ context.Context, id uuid.UUID, acceptedAt time.Time) (repository.Mission, error) {
	return f.guarded(id, domain.StatusNew, func(m *repository.Mission) {
		m.Status = domain.StatusAccepted
		m.AcceptedAt = &acceptedAt
	})
}

func (f *fakeRepo) Complete(_ context.Context, params repository.CompleteParams) (repository.Mission, error) {
	return f.guarded(params.ID, domain.StatusAccepted, func(m *repository.Mission) {
		m.Status = domain.StatusCompleted
		m.CompletedAt = &params.CompletedAt
		m.CompletionLatitude = params.Latitude
		m.CompletionLongitude = params.Longitude
		m.DistanceTraveled = params.DistanceKM
	})
}

func (f *fakeRepo) Decline(_ context.Context, id uuid.UUID, from, to domain.Status, reason string) (repository.Mission, error) {
	return f.guarded(id, from, func(m *repository.Mission) {
		m.Status = to
		m.DeclineReason = reason
	})
}

func (f *fakeRepo) ExpireHeld(_ context.Context, now time.Time) ([]repository.Mission, error) {
	var expired []repository.Mission
	for id, mission := range f.missions {
		if mission.Status == domain.StatusNew && !mission.HoldExpiresAt.After(now) {
			mission.Status = domain.StatusHoldExpired
			f.missions[id] = mission
			expired = append(expired, mission)
		}
	}
	return expired, nil
}

func (f *fakeRepo) userStats(userID uuid.UUID) *repository.UserStats {
	if _, ok := f.stats[userID]; !ok {
		f.stats[userID] = &repository.UserStats{UserID: userID}
	}
	return f.stats[userID]
}

func (f *fakeRepo) IncrementSafetyDeclines(_ context.Context, userID uuid.UUID) (int, error) {
	stats := f.userStats(userID)
	stats.SafetyDeclineCount++
	return stats.SafetyDeclineCount, nil
}

func (f *fakeRepo) IncrementCompleted(_ context.Context, userID uuid.UUID) (int, error) {
	stats := f.userStats(userID)
	stats.CompletedCount++
	return stats.CompletedCount, nil
}

var _ repository.Repository = (*fakeRepo)(nil)

type fakeLeads struct {
	lead    LeadInfo
	ownerID uuid.UUID
}

func (f *fakeLeads) OpenLead(_ context.Context, userID, leadID uuid.UUID) (LeadInfo, error) {
	if leadID != f.lead.ID {
		return LeadInfo{}, apperr.NotFound("lead not found")
	}
	if userID != f.ownerID {
		return LeadInfo{}, apperr.Forbidden("lead belongs to another agent")
	}
	return f.lead, nil
}

type recordingBus struct {
	published []platformevents.Event
}

func (b *recordingBus) Publish(_ context.Context, event platformevents.Event) {
	b.published = append(b.published, event)
}

func (b *recordingBus) PublishSync(_ context.Context, event platformevents.Event) error {
	b.published = append(b.published, event)
	return nil
}

func (b *recordingBus) Subscribe(string, platformevents.Handler) {}

type missionDefaults struct{}

func (missionDefaults) GetActiveMissionLimit() int          { return 1 }
func (missionDefaults) GetMissionHoldWindow() time.Duration { return 72 * time.Hour }

type fixture struct {
	repo   *fakeRepo
	bus    *recordingBus
	svc    *Service
	userID uuid.UUID
	leadID uuid.UUID
}

const (
	siteLat = 32.7767
	siteLng = -96.7970
)

func newFixture() *fixture {
	userID := uuid.New()
	leadID := uuid.New()
	lat, lng := siteLat, siteLng

	repo := newFakeRepo()
	bus := &recordingBus{}
	leads := &fakeLeads{
		lead:    LeadInfo{ID: leadID, Latitude: &lat, Longitude: &lng},
		ownerID: userID,
	}
	svc := New(repo, leads, missionDefaults{}, bus, logger.New("test"))

	return &fixture{repo: repo, bus: bus, svc: svc, userID: userID, leadID: leadID}
}

func (fx *fixture) create(t *testing.T) transport.MissionResponse {
	t.Helper()
	mission, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateMissionRequest{LeadID: fx.leadID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return mission
}

func (fx *fixture) accept(t *testing.T, id uuid.UUID) transport.MissionResponse {
	t.Helper()
	mission, err := fx.svc.Accept(context.Background(), fx.userID, id)
	if err != nil {
		t.Fatalf("Accept: %v", err)
	}
	return mission
}

func TestCreateStartsNewWithHoldWindow(t *testing.T) {
	fx := newFixture()

	mission := fx.create(t)
	if mission.Status != string(domain.StatusNew) {
		t.Errorf("expected NEW status, got %q", mission.Status)
	}

	expected := time.Now().UTC().Add(72 * time.Hour)
	if diff := mission.HoldExpiresAt.Sub(expected); diff < -time.Minute || diff > time.Minute {
		t.Errorf("hold window not ~72h out: %v", mission.HoldExpiresAt)
	}

	if len(fx.bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.bus.published))
	}
	if _, ok := fx.bus.published[0].(events.MissionCreated); !ok {
		t.Fatalf("expected MissionCreated event, got %T", fx.bus.published[0])
	}
}

func TestCreateEnforcesActiveLimit(t *testing.T) {
	fx := newFixture()
	fx.create(t)

	_, err := fx.svc.Create(context.Background(), fx.userID, transport.CreateMissionRequest{LeadID: fx.leadID})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("expected conflict at the active limit, got %v", err)
	}
}

func TestAcceptRecordsTimeAndPublishes(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.bus.published = nil

	accepted := fx.accept(t, created.ID)
	if accepted.Status != string(domain.StatusAccepted) {
		t.Errorf("expected ACCEPTED, got %q", accepted.Status)
	}
	if accepted.AcceptedAt == nil {
		t.Error("acceptedAt should be set")
	}

	if len(fx.bus.published) != 1 {
		t.Fatalf("expected 1 event, got %d", len(fx.bus.published))
	}
	event, ok := fx.bus.published[0].(events.MissionAccepted)
	if !ok {
		t.Fatalf("expected MissionAccepted event, got %T", fx.bus.published[0])
	}
	if event.MissionID != created.ID || event.UserID != fx.userID {
		t.Errorf("unexpected event payload: %+v", event)
	}

	if _, err := fx.svc.Accept(context.Background(), fx.userID, created.ID); apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("double accept should conflict, got %v", err)
	}
}

func TestSafetyDeclineBumpsCounter(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.bus.published = nil

	declined, err := fx.svc.Decline(context.Background(), fx.userID, created.ID, transport.DeclineMissionRequest{
		Reason: "aggressive dog on premises",
		Safety: true,
	})
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.Status != string(domain.StatusDeclinedSafety) {
		t.Errorf("expected DECLINED_SAFETY, got %q", declined.Status)
	}
	if declined.DeclineReason != "aggressive dog on premises" {
		t.Errorf("reason not recorded: %q", declined.DeclineReason)
	}

	stats, err := fx.svc.Stats(context.Background(), fx.userID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.SafetyDeclineCount != 1 {
		t.Errorf("expected safety decline count 1, got %d", stats.SafetyDeclineCount)
	}

	event, ok := fx.bus.published[len(fx.bus.published)-1].(events.MissionDeclined)
	if !ok {
		t.Fatalf("expected MissionDeclined event, got %T", fx.bus.published[len(fx.bus.published)-1])
	}
	if !event.SafetyDecline {
		t.Error("event should flag safety decline")
	}
}

func TestPlainDeclineLeavesCounterAlone(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)

	declined, err := fx.svc.Decline(context.Background(), fx.userID, created.ID, transport.DeclineMissionRequest{Reason: "too far"})
	if err != nil {
		t.Fatalf("Decline: %v", err)
	}
	if declined.Status != string(domain.StatusDeclined) {
		t.Errorf("expected DECLINED, got %q", declined.Status)
	}

	stats, _ := fx.svc.Stats(context.Background(), fx.userID)
	if stats.SafetyDeclineCount != 0 {
		t.Errorf("plain decline must not bump the safety counter, got %d", stats.SafetyDeclineCount)
	}
}

func TestPauseResumeCycle(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.accept(t, created.ID)

	paused, err := fx.svc.Pause(context.Background(), fx.userID, created.ID)
	if err != nil {
		t.Fatalf("Pause: %v", err)
	}
	if paused.Status != string(domain.StatusPaused) {
		t.Errorf("expected PAUSED, got %q", paused.Status)
	}

	resumed, err := fx.svc.Resume(context.Background(), fx.userID, created.ID)
	if err != nil {
		t.Fatalf("Resume: %v", err)
	}
	if resumed.Status != string(domain.StatusAccepted) {
		t.Errorf("expected ACCEPTED after resume, got %q", resumed.Status)
	}
}

func TestHoldAcceptedAndRelease(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.accept(t, created.ID)

	held, err := fx.svc.Hold(context.Background(), fx.userID, created.ID)
	if err != nil {
		t.Fatalf("Hold: %v", err)
	}
	if held.Status != string(domain.StatusOnHold) {
		t.Errorf("expected ON_HOLD, got %q", held.Status)
	}

	released, err := fx.svc.Release(context.Background(), fx.userID, created.ID)
	if err != nil {
		t.Fatalf("Release: %v", err)
	}
	if released.Status != string(domain.StatusNew) {
		t.Errorf("expected NEW after release, got %q", released.Status)
	}
}

func TestCompleteComputesDistance(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.accept(t, created.ID)
	fx.bus.published = nil

	// Roughly 1.11 km north of the site.
	lat := siteLat + 0.01
	lng := siteLng
	completed, err := fx.svc.Complete(context.Background(), fx.userID, created.ID, transport.CompleteMissionRequest{
		Latitude:  &lat,
		Longitude: &lng,
	})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.Status != string(domain.StatusCompleted) {
		t.Errorf("expected COMPLETED, got %q", completed.Status)
	}
	if completed.DistanceTraveled == nil {
		t.Fatal("distance should be recorded")
	}
	if *completed.DistanceTraveled < 1.0 || *completed.DistanceTraveled > 1.25 {
		t.Errorf("distance out of expected band: %f km", *completed.DistanceTraveled)
	}

	stats, _ := fx.svc.Stats(context.Background(), fx.userID)
	if stats.CompletedCount != 1 {
		t.Errorf("expected completed count 1, got %d", stats.CompletedCount)
	}

	event, ok := fx.bus.published[0].(events.MissionCompleted)
	if !ok {
		t.Fatalf("expected MissionCompleted event, got %T", fx.bus.published[0])
	}
	if event.DistanceTraveled == nil {
		t.Error("event should carry the distance")
	}
}

func TestCompleteWithoutCoordinatesStillCompletes(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)
	fx.accept(t, created.ID)

	completed, err := fx.svc.Complete(context.Background(), fx.userID, created.ID, transport.CompleteMissionRequest{})
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.DistanceTraveled != nil {
		t.Errorf("distance should be unset without coordinates, got %f", *completed.DistanceTraveled)
	}
}

func TestCompleteRequiresAccepted(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)

	_, err := fx.svc.Complete(context.Background(), fx.userID, created.ID, transport.CompleteMissionRequest{})
	if apperr.GetKind(err) != apperr.KindConflict {
		t.Fatalf("completing a NEW mission should conflict, got %v", err)
	}
}

func TestExpireHeldSweepsNewMissionsPastWindow(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)

	stale := fx.repo.missions[created.ID]
	stale.HoldExpiresAt = time.Now().UTC().Add(-time.Hour)
	fx.repo.missions[created.ID] = stale
	fx.bus.published = nil

	resp, err := fx.svc.ExpireHeld(context.Background())
	if err != nil {
		t.Fatalf("ExpireHeld: %v", err)
	}
	if resp.Expired != 1 {
		t.Fatalf("expected 1 expired mission, got %d", resp.Expired)
	}
	if fx.repo.missions[created.ID].Status != domain.StatusHoldExpired {
		t.Errorf("mission not moved to HOLD_EXPIRED: %s", fx.repo.missions[created.ID].Status)
	}
	if _, ok := fx.bus.published[0].(events.MissionHoldExpired); !ok {
		t.Fatalf("expected MissionHoldExpired event, got %T", fx.bus.published[0])
	}

	again, err := fx.svc.ExpireHeld(context.Background())
	if err != nil {
		t.Fatalf("ExpireHeld second pass: %v", err)
	}
	if again.Expired != 0 {
		t.Errorf("second sweep should expire nothing, got %d", again.Expired)
	}
}

func TestForeignMissionIsForbidden(t *testing.T) {
	fx := newFixture()
	created := fx.create(t)

	_, err := fx.svc.Accept(context.Background(), uuid.New(), created.ID)
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}
