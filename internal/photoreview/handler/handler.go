package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"fieldops_backend/internal/photoreview/service"
	"fieldops_backend/internal/photoreview/transport"
	"fieldops_backend/platform/httpkit"
	"fieldops_backend/platform/validator"
)

// Handler handles HTTP requests for photo review submissions.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

// New creates a new photo review handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// List retrieves photo submissions grouped by service, with filters.
// GET /api/v1/photo-review/submissions
func (h *Handler) List(c *gin.Context) {
	var req transport.ListSubmissionsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.ListSubmissions(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// History retrieves the photo archive grouped by service, with filters.
// GET /api/v1/photo-history
func (h *Handler) History(c *gin.Context) {
	var req transport.ListHistoryRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	result, err := h.svc.ListHistory(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// HistoryStats reports archive-wide photo counts.
// GET /api/v1/photo-history/stats
func (h *Handler) HistoryStats(c *gin.Context) {
	result, err := h.svc.HistoryStats(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Get retrieves one submission by display id (SUB-… or PHOTO-…).
// GET /api/v1/photo-review/submissions/:id
func (h *Handler) Get(c *gin.Context) {
	result, err := h.svc.GetSubmission(c.Request.Context(), c.Param("id"))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SendToClient marks a submission's photos as sent with optional notes.
// POST /api/v1/photo-review/submissions/:id/send
func (h *Handler) SendToClient(c *gin.Context) {
	var req transport.SendToClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}
	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	err := h.svc.SendToClient(c.Request.Context(), c.Param("id"), req, identity.UserID())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "review sent to client"})
}

// Upload stores an evidence photo from a multipart form.
// POST /api/v1/photo-review/photos
// Form fields: file (required), type (before|after), serviceId (optional).
func (h *Handler) Upload(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "file is required", nil)
		return
	}

	var serviceID *int64
	if raw := c.PostForm("serviceId"); raw != "" {
		id, parseErr := strconv.ParseInt(raw, 10, 64)
		if parseErr != nil || id <= 0 {
			httpkit.Error(c, http.StatusBadRequest, "invalid serviceId", nil)
			return
		}
		serviceID = &id
	}

	identity := httpkit.MustGetIdentity(c)
	if identity == nil {
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read file", nil)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "failed to read file", nil)
		return
	}

	result, err := h.svc.UploadPhoto(
		c.Request.Context(),
		serviceID,
		c.PostForm("type"),
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
		identity.UserID(),
	)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.Created(c, result)
}

// DeletePhoto removes a single photo by URL.
// DELETE /api/v1/photo-review/photos
func (h *Handler) DeletePhoto(c *gin.Context) {
	var req transport.DeletePhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	if err := h.svc.DeletePhoto(c.Request.Context(), req); httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, transport.MessageResponse{Message: "photo deleted"})
}
