package handlers

import (
	"errors"
	"net/http"

	"github.com/CourageAllien/studioportal/internal/intake"
	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/CourageAllien/studioportal/internal/services"
	"github.com/gin-gonic/gin"
)

// IntakeHandler handles the multi-step intake wizard
type IntakeHandler struct {
	store    *intake.Store
	requests *services.RequestService
}

// NewIntakeHandler creates a new intake handler
func NewIntakeHandler(store *intake.Store, requests *services.RequestService) *IntakeHandler {
	return &IntakeHandler{
		store:    store,
		requests: requests,
	}
}

// saveDraftRequest carries one wizard step's worth of data
type saveDraftRequest struct {
	Step    int                 `json:"step" binding:"required,min=1,max=3"`
	Contact *intake.ContactStep `json:"contact,omitempty"`
	Project *intake.ProjectStep `json:"project,omitempty"`
	Booking *intake.BookingStep `json:"booking,omitempty"`
}

// Start handles POST /intake requests
func (h *IntakeHandler) Start(c *gin.Context) {
	draft, err := h.store.Start(c.Request.Context())
	if err != nil {
		logger.Errorf("Failed to start intake session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to start intake session",
			"message": err.Error(),
		})
		return
	}

	logger.WithField("session_id", draft.SessionID).Info("Intake session started")
	c.JSON(http.StatusCreated, draft)
}

// Get handles GET /intake/:session_id requests
func (h *IntakeHandler) Get(c *gin.Context) {
	sessionID := c.Param("session_id")

	draft, err := h.store.Get(c.Request.Context(), sessionID)
	if errors.Is(err, intake.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Draft not found",
			"message": "No intake draft exists for this session",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get intake draft",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Save handles PUT /intake/:session_id requests. Each call merges one
// step's data into the draft; steps already saved are preserved.
func (h *IntakeHandler) Save(c *gin.Context) {
	sessionID := c.Param("session_id")

	var req saveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request body",
			"message": err.Error(),
		})
		return
	}

	draft, err := h.store.Get(c.Request.Context(), sessionID)
	if errors.Is(err, intake.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Draft not found",
			"message": "No intake draft exists for this session",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get intake draft",
			"message": err.Error(),
		})
		return
	}

	if req.Contact != nil {
		draft.Contact = req.Contact
	}
	if req.Project != nil {
		draft.Project = req.Project
	}
	if req.Booking != nil {
		draft.Booking = req.Booking
	}
	if req.Step > draft.Step {
		draft.Step = req.Step
	}

	if err := h.store.Save(c.Request.Context(), draft); err != nil {
		logger.Errorf("Failed to save intake draft %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to save intake draft",
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, draft)
}

// Submit handles POST /intake/:session_id/submit requests. The caller
// must be an authenticated workspace; the completed draft becomes a
// build request in that workspace.
func (h *IntakeHandler) Submit(c *gin.Context) {
	sessionID := c.Param("session_id")
	workspaceId := c.GetString("workspace_id")

	draft, err := h.store.Get(c.Request.Context(), sessionID)
	if errors.Is(err, intake.ErrDraftNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Draft not found",
			"message": "No intake draft exists for this session",
		})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to get intake draft",
			"message": err.Error(),
		})
		return
	}

	if !draft.Complete() {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Incomplete draft",
			"message": "Contact and project steps must be completed before submitting",
		})
		return
	}

	complexity := models.Complexity(draft.Project.Complexity)
	request, err := h.requests.Submit(
		c.Request.Context(),
		workspaceId,
		complexity,
		draft.Project.Description,
		draft.Project.Goals,
	)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{
			"error":   "Workspace not found",
			"message": "No workspace exists with id: " + workspaceId,
		})
		return
	}
	if err != nil {
		logger.Errorf("Failed to submit intake draft %s: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "Failed to submit request",
			"message": err.Error(),
		})
		return
	}

	// The draft has served its purpose; a failed cleanup is harmless
	// since the TTL reaps it anyway.
	if err := h.store.Delete(c.Request.Context(), sessionID); err != nil {
		logger.Warnf("Failed to delete submitted intake draft %s: %v", sessionID, err)
	}

	logger.WithFields(map[string]interface{}{
		"session_id":   sessionID,
		"request_id":   request.Id,
		"workspace_id": workspaceId,
	}).Info("Intake draft submitted")

	c.JSON(http.StatusCreated, request.ToResponse())
}
