package router

import (
	"github.com/CourageAllien/studioportal/internal/handlers"
	"github.com/CourageAllien/studioportal/internal/middleware"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/gin-gonic/gin"
)

// Setup configures and returns the application router
func Setup(
	healthHandler *handlers.HealthHandler,
	availabilityHandler *handlers.AvailabilityHandler,
	intakeHandler *handlers.IntakeHandler,
	portalHandler *handlers.PortalHandler,
	workspaceHandler *handlers.WorkspaceHandler,
	requestAdminHandler *handlers.RequestAdminHandler,
	workspaceRepo repository.WorkspaceRepository,
	adminJWTSecret string,
) *gin.Engine {

	// Create a new Gin router
	router := gin.Default()

	// Apply CORS middleware globally
	router.Use(middleware.CORS())

	// API v1 routes
	v1 := router.Group("/api/v1")

	// Health check
	v1.GET("/health", healthHandler.Health)

	// Public availability lookup for the booking widget
	v1.GET("/availability", availabilityHandler.Slots)

	// Intake wizard routes. Starting and editing a draft is public;
	// submitting requires a workspace access code.
	intake := v1.Group("/intake")
	{
		intake.POST("", intakeHandler.Start)
		intake.GET("/:session_id", intakeHandler.Get)
		intake.PUT("/:session_id", intakeHandler.Save)
		intake.POST("/:session_id/submit", middleware.AccessCode(workspaceRepo), intakeHandler.Submit)
	}

	// Client portal routes, authenticated by workspace access code
	portal := v1.Group("/portal")
	portal.Use(middleware.AccessCode(workspaceRepo))
	{
		portal.GET("/requests", portalHandler.ListRequests)
		portal.GET("/requests/:id", portalHandler.GetRequest)
		portal.POST("/requests/:id/review", portalHandler.SubmitReview)
	}

	// Admin routes, authenticated by JWT
	admin := v1.Group("/admin")
	admin.Use(middleware.AdminAuth(adminJWTSecret))
	{
		admin.POST("/workspaces", workspaceHandler.Create)
		admin.GET("/workspaces", workspaceHandler.List)
		admin.GET("/workspaces/:id", workspaceHandler.Get)
		admin.PUT("/workspaces/:id/active", workspaceHandler.SetActive)
		admin.DELETE("/workspaces/:id", workspaceHandler.Delete)

		admin.GET("/requests", requestAdminHandler.List)
		admin.GET("/requests/counts", requestAdminHandler.Counts)
		admin.GET("/requests/:id", requestAdminHandler.Get)
		admin.PUT("/requests/:id/status", requestAdminHandler.UpdateStatus)
		admin.POST("/requests/:id/updates", requestAdminHandler.AppendUpdate)
		admin.PUT("/requests/:id/progress", requestAdminHandler.UpdateProgress)
		admin.POST("/requests/:id/deliverables", requestAdminHandler.AddDeliverable)
		admin.DELETE("/requests/:id/deliverables/:deliverable_id", requestAdminHandler.RemoveDeliverable)
		admin.PUT("/requests/:id/preview", requestAdminHandler.SetPreview)
	}

	return router
}
