// Package opportunities provides the loan opportunity bounded context
// module: lead conversion, amortization figures, LTV sizing and risk
// assessment over the finance engine.
package opportunities

import (
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/opportunities/handler"
	"liencrm_backend/internal/opportunities/repository"
	"liencrm_backend/internal/opportunities/service"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the opportunities bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the opportunities module with all its dependencies.
func NewModule(pool *pgxpool.Pool, leads service.LeadSource, valuer service.PropertyValuer, cfg config.LoanConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, valuer, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "opportunities"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts opportunity routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/opportunities")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.GET("/:id/schedule", m.handler.Schedule)
	group.POST("/:id/recalculate", m.handler.Recalculate)
	group.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
