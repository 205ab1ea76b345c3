package repository

import (
	"context"

	"github.com/CourageAllien/studioportal/internal/database"
	"github.com/CourageAllien/studioportal/internal/models"
)

// Re-export errors from database package so callers need not import it
var (
	ErrNotFound      = database.ErrNotFound
	ErrAlreadyExists = database.ErrAlreadyExists
)

// WorkspaceRepository defines the interface for workspace operations
type WorkspaceRepository interface {
	Create(ctx context.Context, workspace *models.Workspace) error
	Get(ctx context.Context, id string) (*models.Workspace, error)
	GetByAccessCode(ctx context.Context, code string) (*models.Workspace, error)
	GetAll(ctx context.Context) ([]*models.Workspace, error)
	Update(ctx context.Context, workspace *models.Workspace) error
	Delete(ctx context.Context, id string) error
}

// dynamoWorkspaceRepository implements WorkspaceRepository using DynamoDB
type dynamoWorkspaceRepository struct {
	db *database.WorkspaceOperations
}

// NewWorkspaceRepository creates a new DynamoDB-backed workspace repository
func NewWorkspaceRepository(db *database.WorkspaceOperations) WorkspaceRepository {
	return &dynamoWorkspaceRepository{
		db: db,
	}
}

// Create creates a new workspace
func (r *dynamoWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	return r.db.CreateWorkspace(ctx, workspace)
}

// Get retrieves a workspace by ID
func (r *dynamoWorkspaceRepository) Get(ctx context.Context, id string) (*models.Workspace, error) {
	return r.db.GetWorkspace(ctx, id)
}

// GetByAccessCode retrieves a workspace by its client access code
func (r *dynamoWorkspaceRepository) GetByAccessCode(ctx context.Context, code string) (*models.Workspace, error) {
	return r.db.GetWorkspaceByAccessCode(ctx, code)
}

// GetAll retrieves all workspaces
func (r *dynamoWorkspaceRepository) GetAll(ctx context.Context) ([]*models.Workspace, error) {
	return r.db.GetAllWorkspaces(ctx)
}

// Update updates a workspace record
func (r *dynamoWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	return r.db.UpdateWorkspace(ctx, workspace)
}

// Delete deletes a workspace by ID
func (r *dynamoWorkspaceRepository) Delete(ctx context.Context, id string) error {
	return r.db.DeleteWorkspace(ctx, id)
}
