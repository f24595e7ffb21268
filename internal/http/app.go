package http

import (
	"context"

	"liencrm_backend/internal/events"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
)

// RouterConfig combines the config interfaces the HTTP router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker is what the readiness probe needs from the database.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies. The
// composition root in main.go populates it and hands it to the router.
type App struct {
	// Config holds the HTTP and JWT settings the router reads.
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health backs the readiness probe, normally a DB ping.
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}
