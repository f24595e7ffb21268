package scheduler

import (
	"context"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"

	leadstransport "liencrm_backend/internal/leads/transport"
	missionstransport "liencrm_backend/internal/missions/transport"
	"liencrm_backend/platform/logger"
)

type testSchedulerConfig struct {
	url string
}

func (c testSchedulerConfig) GetRedisURL() string       { return c.url }
func (c testSchedulerConfig) GetRedisTLSInsecure() bool { return false }
func (c testSchedulerConfig) GetAsynqQueueName() string { return "background" }
func (c testSchedulerConfig) GetAsynqConcurrency() int  { return 2 }

func TestClientEnqueuesOnConfiguredQueue(t *testing.T) {
	srv := miniredis.RunT(t)

	client, err := NewClient(testSchedulerConfig{url: "redis://" + srv.Addr()})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	defer client.Close()

	if err := client.EnqueueMissionHoldSweep(context.Background()); err != nil {
		t.Fatalf("EnqueueMissionHoldSweep() error = %v", err)
	}
	if err := client.EnqueueLeadRescore(context.Background()); err != nil {
		t.Fatalf("EnqueueLeadRescore() error = %v", err)
	}

	pending := false
	for _, key := range srv.Keys() {
		if strings.Contains(key, "background") && strings.Contains(key, "pending") {
			pending = true
		}
	}
	if !pending {
		t.Fatalf("no pending key on the background queue, keys = %v", srv.Keys())
	}
}

func TestNewClientRequiresRedisURL(t *testing.T) {
	if _, err := NewClient(testSchedulerConfig{}); err == nil {
		t.Fatal("NewClient() with empty redis url succeeded, want error")
	}
}

type fakeSweeper struct {
	calls   int
	expired int
}

func (s *fakeSweeper) ExpireHeld(context.Context) (missionstransport.ExpireHeldResponse, error) {
	s.calls++
	return missionstransport.ExpireHeldResponse{Expired: s.expired}, nil
}

type fakeRescorer struct {
	calls int
}

func (r *fakeRescorer) RescoreAll(context.Context) (leadstransport.BatchRescoreResponse, error) {
	r.calls++
	return leadstransport.BatchRescoreResponse{Scored: 3, Failed: 1}, nil
}

func TestWorkerHandlesMissionHoldSweep(t *testing.T) {
	sweeper := &fakeSweeper{expired: 2}
	w := &Worker{missions: sweeper, log: logger.New("test")}

	task, err := NewMissionHoldSweepTask(MissionHoldSweepPayload{})
	if err != nil {
		t.Fatalf("NewMissionHoldSweepTask() error = %v", err)
	}

	if err := w.handleMissionHoldSweep(context.Background(), task); err != nil {
		t.Fatalf("handleMissionHoldSweep() error = %v", err)
	}
	if sweeper.calls != 1 {
		t.Fatalf("sweeper called %d times, want 1", sweeper.calls)
	}
}

func TestWorkerHandlesLeadRescore(t *testing.T) {
	rescorer := &fakeRescorer{}
	w := &Worker{leads: rescorer, log: logger.New("test")}

	task, err := NewLeadRescoreTask(LeadRescorePayload{})
	if err != nil {
		t.Fatalf("NewLeadRescoreTask() error = %v", err)
	}

	if err := w.handleLeadRescore(context.Background(), task); err != nil {
		t.Fatalf("handleLeadRescore() error = %v", err)
	}
	if rescorer.calls != 1 {
		t.Fatalf("rescorer called %d times, want 1", rescorer.calls)
	}
}
