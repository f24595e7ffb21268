package scheduler

import (
	"context"
	"time"

	"liencrm_backend/platform/logger"
)

const (
	defaultHoldSweepInterval = 15 * time.Minute
	defaultRescoreInterval   = 24 * time.Hour
)

// PeriodicDispatcher enqueues recurring tasks on a fixed cadence. It runs
// in the worker process alongside the asynq server.
type PeriodicDispatcher struct {
	client          *Client
	log             *logger.Logger
	sweepInterval   time.Duration
	rescoreInterval time.Duration
}

// NewPeriodicDispatcher creates a dispatcher over the given client.
func NewPeriodicDispatcher(client *Client, log *logger.Logger, sweepInterval, rescoreInterval time.Duration) *PeriodicDispatcher {
	if sweepInterval <= 0 {
		sweepInterval = defaultHoldSweepInterval
	}
	if rescoreInterval <= 0 {
		rescoreInterval = defaultRescoreInterval
	}

	return &PeriodicDispatcher{
		client:          client,
		log:             log,
		sweepInterval:   sweepInterval,
		rescoreInterval: rescoreInterval,
	}
}

// Run enqueues tasks until the context is cancelled. The hold sweep fires
// once at startup so a restart never extends a mission's hold window.
func (d *PeriodicDispatcher) Run(ctx context.Context) {
	if d == nil || d.client == nil {
		return
	}

	d.enqueueSweep(ctx)

	sweep := time.NewTicker(d.sweepInterval)
	defer sweep.Stop()
	rescore := time.NewTicker(d.rescoreInterval)
	defer rescore.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-sweep.C:
			d.enqueueSweep(ctx)
		case <-rescore.C:
			d.enqueueRescore(ctx)
		}
	}
}

func (d *PeriodicDispatcher) enqueueSweep(ctx context.Context) {
	if err := d.client.EnqueueMissionHoldSweep(ctx); err != nil {
		d.log.Warn("failed to enqueue mission hold sweep", "error", err)
	}
}

func (d *PeriodicDispatcher) enqueueRescore(ctx context.Context) {
	if err := d.client.EnqueueLeadRescore(ctx); err != nil {
		d.log.Warn("failed to enqueue lead rescore", "error", err)
	}
}
