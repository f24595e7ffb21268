package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"liencrm_backend/internal/adapters"
	"liencrm_backend/internal/email"
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/http/router"
	"liencrm_backend/internal/leads"
	"liencrm_backend/internal/missions"
	"liencrm_backend/internal/notification"
	"liencrm_backend/internal/opportunities"
	"liencrm_backend/internal/properties"
	"liencrm_backend/internal/routes"
	routesservice "liencrm_backend/internal/routes/service"
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
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, "migrations")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

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
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	sender := email.NewSender(cfg, log)

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	// Notification module subscribes to domain events
	notificationModule := notification.NewModule(pool, sender, log)
	notificationModule.RegisterHandlers(eventBus)

	tokensModule := tokens.NewModule(pool, cfg, eventBus, val, log)
	tokensAdapter := adapters.NewTokensAdapter(tokensModule.Service())

	propertiesModule := properties.NewModule(pool, tokensAdapter, cfg, val, log)
	profileAdapter := adapters.NewPropertyProfileAdapter(propertiesModule.Service())

	leadsModule := leads.NewModule(pool, profileAdapter, tokensAdapter, eventBus, val, log)
	notificationModule.SetLeadOwnerResolver(adapters.NewNotificationLeadAdapter(leadsModule.Repository()))

	leadConversion := adapters.NewLeadConversionAdapter(leadsModule.Service())
	opportunitiesModule := opportunities.NewModule(pool, leadConversion, profileAdapter, cfg, eventBus, val, log)

	missionLeads := adapters.NewMissionLeadAdapter(leadsModule.Service())
	missionsModule := missions.NewModule(pool, missionLeads, cfg, eventBus, val, log)

	routeLeads := adapters.NewRouteLeadAdapter(leadsModule.Service())
	routesModule := routes.NewModule(pool, routeLeads, routesservice.IdentityOptimizer{}, val, log)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   db.NewPoolAdapter(pool),
		EventBus: eventBus,
		Modules: []apphttp.Module{
			tokensModule,
			propertiesModule,
			leadsModule,
			opportunitiesModule,
			missionsModule,
			routesModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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

	return fmt.Errorf("%s: %w", name, lastErr)
}
