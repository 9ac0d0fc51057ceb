// Package photoreview provides the photo review bounded context module.
// Managers inspect before/after evidence photos grouped per scheduled
// service and release them to the client company.
package photoreview

import (
	"fieldops_backend/internal/adapters/storage"
	"fieldops_backend/internal/events"
	apphttp "fieldops_backend/internal/http"
	"fieldops_backend/internal/photoreview/handler"
	"fieldops_backend/internal/photoreview/repository"
	"fieldops_backend/internal/photoreview/service"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/logger"
	"fieldops_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the photo review bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// Config holds the storage settings the module needs.
type Config interface {
	GetMinioBucketServicePhotos() string
	GetMinIOPublicBaseURL() string
}

// NewModule creates and initializes the photo review module.
func NewModule(pool *pgxpool.Pool, store storage.StorageService, cfg Config, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, store, cfg.GetMinioBucketServicePhotos(), cfg.GetMinIOPublicBaseURL(), bus, log)
	h := handler.New(svc, val)

	return &Module{
		handler: h,
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "photoreview"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts photo review routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	// Collaborators upload evidence from the field.
	ctx.Protected.POST("/photo-review/photos", m.handler.Upload)

	// Review and release are manager/admin operations.
	review := ctx.Protected.Group("/photo-review")
	review.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	review.GET("/submissions", m.handler.List)
	review.GET("/submissions/:id", m.handler.Get)
	review.POST("/submissions/:id/send", m.handler.SendToClient)
	review.DELETE("/photos", m.handler.DeletePhoto)

	// The archive view spans every review status.
	history := ctx.Protected.Group("/photo-history")
	history.Use(httpkit.RequireRole(httpkit.RoleAdmin, httpkit.RoleManager))
	history.GET("", m.handler.History)
	history.GET("/stats", m.handler.HistoryStats)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
