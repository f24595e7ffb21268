package scheduler

import (
	"context"
	"fmt"

	leadstransport "liencrm_backend/internal/leads/transport"
	missionstransport "liencrm_backend/internal/missions/transport"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"

	"github.com/hibiken/asynq"
)

// MissionSweeper expires missions that sat past their hold window.
type MissionSweeper interface {
	ExpireHeld(ctx context.Context) (missionstransport.ExpireHeldResponse, error)
}

// LeadRescorer refreshes scores for all leads with an attached property.
type LeadRescorer interface {
	RescoreAll(ctx context.Context) (leadstransport.BatchRescoreResponse, error)
}

// Worker consumes background tasks from the shared redis queue.
type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	missions MissionSweeper
	leads    LeadRescorer
	log      *logger.Logger
}

// NewWorker creates an asynq worker wired to the mission and lead services.
func NewWorker(cfg config.SchedulerConfig, missions MissionSweeper, leads LeadRescorer, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		missions: missions,
		leads:    leads,
		log:      log,
	}

	mux.HandleFunc(TaskMissionHoldSweep, w.handleMissionHoldSweep)
	mux.HandleFunc(TaskLeadRescore, w.handleLeadRescore)

	return w, nil
}

// Run processes tasks until the context is cancelled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleMissionHoldSweep(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseMissionHoldSweepPayload(task)
	if err != nil {
		return err
	}

	result, err := w.missions.ExpireHeld(ctx)
	if err != nil {
		return err
	}

	if result.Expired > 0 {
		w.log.Info("mission hold sweep expired missions",
			"expired", result.Expired,
			"requestedAt", payload.RequestedAt,
		)
	}
	return nil
}

func (w *Worker) handleLeadRescore(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseLeadRescorePayload(task)
	if err != nil {
		return err
	}

	result, err := w.leads.RescoreAll(ctx)
	if err != nil {
		return err
	}

	w.log.Info("lead rescore batch finished",
		"scored", result.Scored,
		"failed", result.Failed,
		"requestedAt", payload.RequestedAt,
	)
	return nil
}
