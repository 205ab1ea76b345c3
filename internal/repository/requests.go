package repository

import (
	"context"

	"github.com/CourageAllien/studioportal/internal/database"
	"github.com/CourageAllien/studioportal/internal/models"
)

// RequestRepository defines the interface for build request operations
type RequestRepository interface {
	Create(ctx context.Context, request *models.BuildRequest) error
	Get(ctx context.Context, id string) (*models.BuildRequest, error)
	GetByWorkspaceId(ctx context.Context, workspaceId string) ([]*models.BuildRequest, error)
	GetAll(ctx context.Context) ([]*models.BuildRequest, error)
	Update(ctx context.Context, request *models.BuildRequest) error
	Delete(ctx context.Context, id string) error
	DeleteByWorkspaceId(ctx context.Context, workspaceId string) error
}

// dynamoRequestRepository implements RequestRepository using DynamoDB
type dynamoRequestRepository struct {
	db *database.RequestOperations
}

// NewRequestRepository creates a new DynamoDB-backed request repository
func NewRequestRepository(db *database.RequestOperations) RequestRepository {
	return &dynamoRequestRepository{
		db: db,
	}
}

// Create creates a new build request
func (r *dynamoRequestRepository) Create(ctx context.Context, request *models.BuildRequest) error {
	return r.db.CreateRequest(ctx, request)
}

// Get retrieves a build request by ID
func (r *dynamoRequestRepository) Get(ctx context.Context, id string) (*models.BuildRequest, error) {
	return r.db.GetRequest(ctx, id)
}

// GetByWorkspaceId retrieves all build requests owned by a workspace
func (r *dynamoRequestRepository) GetByWorkspaceId(ctx context.Context, workspaceId string) ([]*models.BuildRequest, error) {
	return r.db.GetRequestsByWorkspaceId(ctx, workspaceId)
}

// GetAll retrieves all build requests
func (r *dynamoRequestRepository) GetAll(ctx context.Context) ([]*models.BuildRequest, error) {
	return r.db.GetAllRequests(ctx)
}

// Update updates a build request record with all fields
func (r *dynamoRequestRepository) Update(ctx context.Context, request *models.BuildRequest) error {
	return r.db.UpdateRequest(ctx, request)
}

// Delete deletes a build request by ID
func (r *dynamoRequestRepository) Delete(ctx context.Context, id string) error {
	return r.db.DeleteRequest(ctx, id)
}

// DeleteByWorkspaceId deletes all build requests owned by a workspace
func (r *dynamoRequestRepository) DeleteByWorkspaceId(ctx context.Context, workspaceId string) error {
	return r.db.DeleteRequestsByWorkspaceId(ctx, workspaceId)
}
