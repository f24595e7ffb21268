// Package tokens provides the token ledger bounded context module.
// Tokens gate priced operations such as property detail lookups and
// owner mailings.
package tokens

import (
	"liencrm_backend/internal/events"
	apphttp "liencrm_backend/internal/http"
	"liencrm_backend/internal/tokens/handler"
	"liencrm_backend/internal/tokens/repository"
	"liencrm_backend/internal/tokens/service"
	"liencrm_backend/platform/config"
	"liencrm_backend/platform/logger"
	"liencrm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the tokens bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the tokens module with all its dependencies.
func NewModule(pool *pgxpool.Pool, cfg config.TokenConfig, eventBus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, eventBus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "tokens"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts token routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/tokens")
	group.GET("/balance", m.handler.GetBalance)
	group.GET("/ledger", m.handler.Ledger)

	ctx.Admin.POST("/tokens/grant", m.handler.Grant)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
