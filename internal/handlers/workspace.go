package handlers

import (
	"errors"
	"net/http"

	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/CourageAllien/studioportal/internal/services"
	"github.com/gin-gonic/gin"
)

// WorkspaceHandler handles admin workspace management
type WorkspaceHandler struct {
	workspaces *services.WorkspaceService
}

// NewWorkspaceHandler creates a new workspace handler
func NewWorkspaceHandler(workspaces *services.WorkspaceService) *WorkspaceHandler {
	return &WorkspaceHandler{workspaces: workspaces}
}

// Create handles POST /admin/workspaces requests
func (h *WorkspaceHandler) Create(c *gin.Context) {
	var req models.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	workspace, err := h.workspaces.Create(c.Request.Context(), &req)
	if err != nil {
		logger.Errorf("Failed to create workspace: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to create workspace",
			"message": err.Error(),
		})
		return
	}

	// The access code is only returned here, at creation time
	c.JSON(http.StatusCreated, workspace.ToResponse(true))
}

// List handles GET /admin/workspaces requests
func (h *WorkspaceHandler) List(c *gin.Context) {
	workspaces, err := h.workspaces.List(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to list workspaces: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to list workspaces",
			"message": err.Error(),
		})
		return
	}

	responses := make([]models.WorkspaceResponse, 0, len(workspaces))
	for _, workspace := range workspaces {
		responses = append(responses, workspace.ToResponse(false))
	}

	c.JSON(http.StatusOK, models.WorkspaceListResponse{
		Workspaces: responses,
		Total:      len(responses),
	})
}

// Get handles GET /admin/workspaces/:id requests
func (h *WorkspaceHandler) Get(c *gin.Context) {
	id := c.Param("id")

	workspace, err := h.workspaces.Get(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Workspace not found",
			"message": "No workspace exists with id: " + id,
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get workspace",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, workspace.ToResponse(false))
}

// setActiveRequest toggles a workspace's portal access
type setActiveRequest struct {
	Active *bool `json:"active" binding:"required"`
}

// SetActive handles PUT /admin/workspaces/:id/active requests
func (h *WorkspaceHandler) SetActive(c *gin.Context) {
	id := c.Param("id")

	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	workspace, err := h.workspaces.SetActive(c.Request.Context(), id, *req.Active)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Workspace not found",
			"message": "No workspace exists with id: " + id,
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to update workspace %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to update workspace",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, workspace.ToResponse(false))
}

// Delete handles DELETE /admin/workspaces/:id requests
func (h *WorkspaceHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	err := h.workspaces.Delete(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Workspace not found",
			"message": "No workspace exists with id: " + id,
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to delete workspace %s: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to delete workspace",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workspace deleted successfully",
	})
}
