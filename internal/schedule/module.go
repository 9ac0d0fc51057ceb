// Package schedule provides the scheduling bounded context module: concrete
// dated service visits assigned to teams.
package schedule

import (
	"fieldops_backend/internal/events"
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/schedule/handler"
	"fieldops_backend/internal/schedule/repository"
	"fieldops_backend/internal/schedule/service"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the schedule bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the schedule module.
func NewModule(pool *pgxpool.Pool, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "schedule"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts schedule routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Collaborators read their own agenda.
	ctx.Protected.GET("/schedule/agenda", m.handler.Agenda)

	manage := ctx.Protected.Group("/schedule")
	manage.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	manage.GET("", m.handler.List)
	manage.POST("", m.handler.Create)
	manage.GET("/:id", m.handler.GetByID)
	manage.PATCH("/:id/status", m.handler.UpdateStatus)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
