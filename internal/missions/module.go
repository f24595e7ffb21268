// Package missions provides the field mission bounded context module: the
// mission lifecycle state machine, hold-window expiry, completion distance
// tracking and per-agent safety counters.
package missions

import (
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/missions/handler"
	"liencrm_backend/internal/missions/repository"
	"liencrm_backend/internal/missions/service"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the missions bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the missions module with all its dependencies.
func NewModule(pool *pgxpool.Pool, leads service.LeadSource, cfg config.MissionConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "missions"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts mission routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/missions")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/stats", m.handler.Stats)
	group.GET("/:id", m.handler.GetByID)
	group.POST("/:id/accept", m.handler.Accept)
	group.POST("/:id/decline", m.handler.Decline)
	group.POST("/:id/complete", m.handler.Complete)
	group.POST("/:id/pause", m.handler.Pause)
	group.POST("/:id/resume", m.handler.Resume)
	group.POST("/:id/hold", m.handler.Hold)
	group.POST("/:id/release", m.handler.Release)
	group.POST("/:id/cancel", m.handler.Cancel)
	group.POST("/:id/close", m.handler.Close)

	admin := ctx.Admin.Group("/missions")
	admin.POST("/expire-held", m.handler.ExpireHeld)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
