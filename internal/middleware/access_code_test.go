package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
)

func setupAccessCodeRouter(t *testing.T) (*gin.Engine, *models.Workspace) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryWorkspaceRepository()
	now := time.Now()
	workspace := &models.Workspace{
		Id:          "ws-1",
		CompanyName: "Acme Corp",
		ClientName:  "Jordan",
		ClientEmail: "jordan@acme.test",
		AccessCode:  "ABCD2345",
		Active:      true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	require.NoError(t, repo.Create(context.Background(), workspace))

	router := gin.New()
	router.GET("/protected", AccessCode(repo), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"workspace_id": c.GetString("workspace_id")})
	})
	return router, workspace
}

func TestAccessCodeValid(t *testing.T) {
	router, workspace := setupAccessCodeRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AccessCodeHeader, workspace.AccessCode)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), workspace.Id)
}

func TestAccessCodeMissing(t *testing.T) {
	router, _ := setupAccessCodeRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessCodeUnknown(t *testing.T) {
	router, _ := setupAccessCodeRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AccessCodeHeader, "WRONG999")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAccessCodeInactiveWorkspace(t *testing.T) {
	gin.SetMode(gin.TestMode)

	repo := repository.NewMemoryWorkspaceRepository()
	now := time.Now()
	require.NoError(t, repo.Create(context.Background(), &models.Workspace{
		Id:         "ws-2",
		AccessCode: "WXYZ7890",
		Active:     false,
		CreatedAt:  now,
		UpdatedAt:  now,
	}))

	router := gin.New()
	router.GET("/protected", AccessCode(repo), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AccessCodeHeader, "WXYZ7890")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
