// Package routes provides the route planning bounded context module: multi
// stop visit routes over leads with pluggable order optimization.
package routes

import (
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/routes/handler"
	"liencrm_backend/internal/routes/repository"
	"liencrm_backend/internal/routes/service"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the routes bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the routes module with all its dependencies.
func NewModule(pool *pgxpool.Pool, leads service.LeadLocator, optimizer service.Optimizer, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, leads, optimizer, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "routes"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts route planning endpoints on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/routes")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.DELETE("/:id", m.handler.Delete)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
