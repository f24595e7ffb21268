// Package properties provides the property bounded context module.
// Properties are the tax-delinquent parcels that leads, opportunities and
// missions all hang off.
package properties

import (
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/properties/handler"
	"liencrm_backend/internal/properties/repository"
	"liencrm_backend/internal/properties/service"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the properties bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the properties module with all its dependencies.
func NewModule(pool *pgxpool.Pool, tokens service.TokenConsumer, cfg config.LoanConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, tokens, cfg, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "properties"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts property routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/properties")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.GetByID)
	group.PATCH("/:id/details", m.handler.UpdateDetails)
	group.PATCH("/:id/values", m.handler.UpdateValues)
	group.DELETE("/:id", m.handler.Delete)
	group.POST("/:id/lookup", m.handler.Lookup)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
