package middleware

import (
	"net/http"

	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/repository"
	"github.com/gin-gonic/gin"
)

// AccessCodeHeader carries the client's workspace access code
const AccessCodeHeader = "X-Access-Code"

// AccessCode middleware resolves the client's workspace from the access
// code header and stores its id in the gin context. Inactive workspaces
// are rejected.
func AccessCode(workspaces repository.WorkspaceRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		code := c.GetHeader(AccessCodeHeader)
		if code == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Missing access code",
			})
			return
		}

		workspace, err := workspaces.GetByAccessCode(c.Request.Context(), code)
		if err != nil {
			logger.WithField("path", c.Request.URL.Path).Warn("Portal auth failed: unknown access code")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error":   "unauthorized",
				"message": "Invalid access code",
			})
			return
		}

		if !workspace.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error":   "forbidden",
				"message": "This workspace has been deactivated",
			})
			return
		}

		c.Set("workspace_id", workspace.Id)
		c.Next()
	}
}
