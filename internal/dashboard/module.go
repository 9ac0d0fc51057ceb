// Package dashboard provides the per-role dashboard bounded context module.
// One endpoint serves every role; the service layer dispatches on the
// requester's role and assembles the matching payload.
package dashboard

import (
	"time"

	"fieldops_backend/internal/dashboard/handler"
	"fieldops_backend/internal/dashboard/repository"
	"fieldops_backend/internal/dashboard/service"
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/platform/cache"
	"fieldops_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the dashboard module. c may be nil when
// redis is not configured.
func NewModule(pool *pgxpool.Pool, c *cache.Cache, statsTTL time.Duration, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, c, statsTTL, log)
	h := handler.New(svc)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// RegisterRoutes mounts the dashboard route on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/dashboard", m.handler.Get)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
