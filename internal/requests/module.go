// Package requests provides the service request bounded context module:
// the client-facing work orders that get triaged, assigned and scheduled.
package requests

import (
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/requests/handler"
	"fieldops_backend/internal/requests/repository"
	"fieldops_backend/internal/requests/service"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the requests bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the requests module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "requests"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts request routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Client users operate on their own company's requests.
	client := ctx.Protected.Group("/requests")
	client.GET("/mine", m.handler.ListMine)
	client.POST("", httpkit.RequireRole(httpkit.RoleClient), m.handler.Create)

	// Triage and oversight are manager/admin operations.
	manage := ctx.Protected.Group("/requests")
	manage.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	manage.GET("", m.handler.List)
	manage.GET("/stats", m.handler.Stats)
	manage.GET("/:id", m.handler.GetByID)
	manage.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
