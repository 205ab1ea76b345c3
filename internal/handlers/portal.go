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

// PortalHandler serves the client-facing portal endpoints. Every route
// runs behind access-code auth, so the workspace id is always present
// in the context.
type PortalHandler struct {
	requests *services.RequestService
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(requests *services.RequestService) *PortalHandler {
	return &PortalHandler{requests: requests}
}

// ListRequests handles GET /portal/requests requests
func (h *PortalHandler) ListRequests(c *gin.Context) {
	workspaceId := c.GetString("workspace_id")

	requests, err := h.requests.ListByWorkspace(c.Request.Context(), workspaceId)
	if err != nil {
		logger.Errorf("Failed to list portal requests for workspace %s: %v", workspaceId, err)
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

// GetRequest handles GET /portal/requests/:id requests
func (h *PortalHandler) GetRequest(c *gin.Context) {
	request, ok := h.ownedRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, request.ToResponse())
}

// SubmitReview handles POST /portal/requests/:id/review requests
func (h *PortalHandler) SubmitReview(c *gin.Context) {
	request, ok := h.ownedRequest(c)
	if !ok {
		return
	}

	var req models.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	updated, err := h.requests.SubmitReview(c.Request.Context(), request.Id, req.Feedback, *req.Approved)
	if errors.Is(err, lifecycle.ErrNotReviewable) {
		c.JSON(http.StatusConflict, gin.H{
			"error":   "Not reviewable",
			"message": "This request is not waiting for review",
		})
		return
	}
	if errors.Is(err, lifecycle.ErrEmptyFeedback) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Feedback required",
			"message": "Rejecting a build requires feedback describing the changes",
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to submit review for request %s: %v", request.Id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to submit review",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, updated.ToResponse())
}

// ownedRequest loads the request from the path and verifies it belongs
// to the authenticated workspace. Foreign requests read as not found so
// the portal never confirms another client's request ids exist.
func (h *PortalHandler) ownedRequest(c *gin.Context) (*models.BuildRequest, bool) {
	id := c.Param("id")
	workspaceId := c.GetString("workspace_id")

	request, err := h.requests.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Request not found",
			"message": "No request exists with id: " + id,
		})
		return nil, false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get request",
			"message": err.Error(),
		})
		return nil, false
	}

	if request.WorkspaceId != workspaceId {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Request not found",
			"message": "No request exists with id: " + id,
		})
		return nil, false
	}

	return request, true
}
