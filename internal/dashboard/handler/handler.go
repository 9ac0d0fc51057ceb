package handler

import (
	"github.com/gin-gonic/gin"

	"fieldops_backend/internal/dashboard/service"
	"fieldops_backend/platform/httpkit"
)

// Handler handles HTTP requests for role dashboards.
type Handler struct {
	svc *service.Service
}

// New creates a new dashboard handler.
func New(svc *service.Service) *Handler {
	return &Handler{svc: svc}
}

// Get returns the dashboard payload for the authenticated user's role.
// GET /api/v1/dashboard
func (h *Handler) Get(c *gin.Context) {
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	result, err := h.svc.ForRole(c.Request.Context(), identity)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
