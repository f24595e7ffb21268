// Package http provides HTTP server infrastructure including the Module
// interface that all domain modules implement for route registration.
package http

import (
	"liencrm_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is a bounded context that mounts its own HTTP routes. Keeping
// route setup inside each module leaves the router unaware of individual
// endpoints.
type Module interface {
	// Name returns the module's identifier for logging purposes.
	Name() string
	// RegisterRoutes mounts the module's routes on the shared groups.
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext carries the shared groups and middleware a module needs
// during route registration.
type RouterContext struct {
	// Engine is the root Gin engine for modules that need engine-level access.
	Engine *gin.Engine
	// V1 is the /api/v1 route group.
	V1 *gin.RouterGroup
	// Protected is the authenticated route group under /api/v1.
	Protected *gin.RouterGroup
	// Admin is the admin-only route group under /api/v1/admin.
	Admin *gin.RouterGroup
	// Config is the JWT configuration for auth middleware.
	Config config.JWTConfig
	// AuthMiddleware enforces authentication on custom groups.
	AuthMiddleware gin.HandlerFunc
}
