// Package leads provides the lead bounded context module: owner contact
// records, proximity matching for field missions, paid owner mailings and
// property-backed scoring.
package leads

import (
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/leads/handler"
	"liencrm_backend/internal/leads/repository"
	"liencrm_backend/internal/leads/service"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module with all its dependencies.
func NewModule(pool *pgxpool.Pool, profiles service.PropertyProfiler, tokens service.TokenConsumer, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, profiles, tokens, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.POST("/nearby", m.handler.Nearby)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id", m.handler.Update)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/score", m.handler.Score)
	group.POST("/:id/mail", m.handler.MailOwner)

	admin := ctx.Admin.Group("/leads")
	admin.POST("/rescore", m.handler.RescoreAll)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
