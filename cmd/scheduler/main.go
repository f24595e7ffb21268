package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"liencrm_backend/internal/adapters"
	"liencrm_backend/internal/email"
	"liencrm_backend/internal/events"
	"liencrm_backend/internal/leads"
	"liencrm_backend/internal/missions"
	"liencrm_backend/internal/notification"
	"liencrm_backend/internal/properties"
	"liencrm_backend/internal/scheduler"
	"liencrm_backend/internal/tokens"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/db"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	eventBus := events.NewInMemoryBus(log)
	val := validator.New()
	sender := email.NewSender(cfg, log)

	// Worker-side module wiring (no HTTP handlers required).
	notificationModule := notification.NewModule(pool, sender, log)
	notificationModule.RegisterHandlers(eventBus)

	tokensModule := tokens.NewModule(pool, cfg, eventBus, val, log)
	tokensAdapter := adapters.NewTokensAdapter(tokensModule.Service())

	propertiesModule := properties.NewModule(pool, tokensAdapter, cfg, val, log)
	profileAdapter := adapters.NewPropertyProfileAdapter(propertiesModule.Service())

	leadsModule := leads.NewModule(pool, profileAdapter, tokensAdapter, eventBus, val, log)
	notificationModule.SetLeadOwnerResolver(adapters.NewNotificationLeadAdapter(leadsModule.Repository()))

	missionLeads := adapters.NewMissionLeadAdapter(leadsModule.Service())
	missionsModule := missions.NewModule(pool, missionLeads, cfg, eventBus, val, log)

	client, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize scheduler client", "error", err)
		panic("failed to initialize scheduler client: " + err.Error())
	}
	defer func() { _ = client.Close() }()

	sweepInterval := getDurationEnv("MISSION_HOLD_SWEEP_INTERVAL", 15*time.Minute)
	rescoreInterval := getDurationEnv("LEAD_RESCORE_INTERVAL", 24*time.Hour)
	dispatcher := scheduler.NewPeriodicDispatcher(client, log, sweepInterval, rescoreInterval)
	go dispatcher.Run(ctx)

	worker, err := scheduler.NewWorker(cfg, missionsModule.Service(), leadsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}

func getDurationEnv(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}

	parsed, err := time.ParseDuration(raw)
	if err != nil || parsed <= 0 {
		return fallback
	}

	return parsed
}
