// Package timeclock provides the time clock bounded context module:
// collaborators punching in and out of their work day.
package timeclock

import (
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/timeclock/handler"
	"fieldops_backend/internal/timeclock/repository"
	"fieldops_backend/internal/timeclock/service"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the timeclock bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the timeclock module.
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
	return "timeclock"
}

// RegisterRoutes mounts timeclock routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.POST("/timeclock/clock-in", m.handler.ClockIn)
	ctx.Protected.POST("/timeclock/clock-out", m.handler.ClockOut)
	ctx.Protected.GET("/timeclock/mine", m.handler.ListMine)

	// Managers review their team's punches.
	team := ctx.Protected.Group("/timeclock/team")
	team.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	team.GET("/:id", m.handler.ListForTeam)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
