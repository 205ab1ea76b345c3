package handlers

import (
	"errors"
	"net/http"

	"github.com/CourageAllien/studioportal/internal/lifecycle"
	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/CourageAllien/studioportal/internal/services"
	"github.com/gin-gonic/gin"
)

// RequestAdminHandler handles admin build request management
type RequestAdminHandler struct {
	requests *services.RequestService
}

// NewRequestAdminHandler creates a new admin request handler
func NewRequestAdminHandler(requests *services.RequestService) *RequestAdminHandler {
	return &RequestAdminHandler{requests: requests}
}

// List handles GET /admin/requests requests.
// Query parameters: q (search text) and workspace_id both filter the result.
func (h *RequestAdminHandler) List(c *gin.Context) {
	var (
		requests []*models.BuildRequest
		err      error
	)

	if workspaceId := c.Query("workspace_id"); workspaceId != "" {
		requests, err = h.requests.ListByWorkspace(c.Request.Context(), workspaceId)
	} else if query := c.Query("q"); query != "" {
		requests, err = h.requests.Search(c.Request.Context(), query)
	} else {
		requests, err = h.requests.ListAll(c.Request.Context())
	}
	if err != nil {
		logger.Errorf("Failed to list requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list requests",
			"message": err.Error(),
		})
		return
	}

	responses := make([]models.BuildRequestResponse, 0, len(requests))
	for _, request := range requests {
		responses = append(responses, request.ToResponse())
	}

	c.JSON(http.StatusOK, models.BuildRequestListResponse{
		Requests: responses,
		Total:    len(responses),
	})
}

// Counts handles GET /admin/requests/counts requests
func (h *RequestAdminHandler) Counts(c *gin.Context) {
	counts, total, err := h.requests.CountsByStatus(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to count requests: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to count requests",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, models.StatusCountsResponse{
		Counts: counts,
		Total:  total,
	})
}

// Get handles GET /admin/requests/:id requests
func (h *RequestAdminHandler) Get(c *gin.Context) {
	id := c.Param("id")

	request, err := h.requests.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get request",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// UpdateStatus handles PUT /admin/requests/:id/status requests
func (h *RequestAdminHandler) UpdateStatus(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.requests.SetStatus(c.Request.Context(), id, models.Status(req.Status), req.Message)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if errors.Is(err, lifecycle.ErrInvalidStatus) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid status",
			"message": "Unknown status: " + req.Status,
		})
		return
	}
	if errors.Is(err, lifecycle.ErrInvalidTransition) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Invalid transition",
			"message": "Cannot move this request to status: " + req.Status,
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to update status for request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update status",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// AppendUpdate handles POST /admin/requests/:id/updates requests
func (h *RequestAdminHandler) AppendUpdate(c *gin.Context) {
	id := c.Param("id")

	var req models.AppendUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.requests.AppendUpdate(c.Request.Context(), id, req.Message, models.LogCategory(req.Category))
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if err != nil {
		logger.Errorf("Failed to append update for request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to append update",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// UpdateProgress handles PUT /admin/requests/:id/progress requests
func (h *RequestAdminHandler) UpdateProgress(c *gin.Context) {
	id := c.Param("id")

	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.requests.SetProgress(c.Request.Context(), id, req.Percent, req.Phase)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if err != nil {
		logger.Errorf("Failed to update progress for request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update progress",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// AddDeliverable handles POST /admin/requests/:id/deliverables requests
func (h *RequestAdminHandler) AddDeliverable(c *gin.Context) {
	id := c.Param("id")

	var req models.AddDeliverableRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.requests.AddDeliverable(c.Request.Context(), id, req.Name, models.DeliverableKind(req.Kind), req.URL)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if err != nil {
		logger.Errorf("Failed to add deliverable to request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to add deliverable",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, request.ToResponse())
}

// RemoveDeliverable handles DELETE /admin/requests/:id/deliverables/:deliverable_id requests
func (h *RequestAdminHandler) RemoveDeliverable(c *gin.Context) {
	id := c.Param("id")
	deliverableId := c.Param("deliverable_id")

	request, err := h.requests.RemoveDeliverable(c.Request.Context(), id, deliverableId)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Not found",
			"message": "No such request or deliverable",
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to remove deliverable from request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to remove deliverable",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// SetPreview handles PUT /admin/requests/:id/preview requests.
// An empty url clears the preview link.
func (h *RequestAdminHandler) SetPreview(c *gin.Context) {
	id := c.Param("id")

	var req models.SetPreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	request, err := h.requests.SetPreviewURL(c.Request.Context(), id, req.URL)
	if errors.Is(err, repository.ErrNotFound) {
		h.notFound(c, id)
		return
	}
	if err != nil {
		logger.Errorf("Failed to set preview for request %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to set preview",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

func (h *RequestAdminHandler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "Invalid request body",
		"message": err.Error(),
	})
}

func (h *RequestAdminHandler) notFound(c *gin.Context, id string) {
	c.JSON(http.StatusNotFound, gin.H{
		"error":   "Request not found",
		"message": "No request exists with id: " + id,
	})
}
