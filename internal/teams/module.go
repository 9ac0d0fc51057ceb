// Package teams provides the field teams bounded context module.
package teams

import (
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/teams/handler"
	"fieldops_backend/internal/teams/repository"
	"fieldops_backend/internal/teams/service"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the teams bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the teams module.
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
	return "teams"
}

// RegisterRoutes mounts team routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	read := ctx.Protected.Group("/teams")
	read.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	read.GET("", m.handler.List)
	read.GET("/:id", m.handler.GetByID)

	adminGroup := ctx.Admin.Group("/teams")
	adminGroup.POST("", m.handler.Create)
	adminGroup.PUT("/:id", m.handler.Update)
	adminGroup.PATCH("/:id/deactivate", m.handler.Deactivate)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
