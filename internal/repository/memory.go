package repository

import (
	"context"
	"sync"

	"github.com/CourageAllien/studioportal/internal/models"
)

// MemoryWorkspaceRepository is an in-memory WorkspaceRepository used for
// local development and tests. Mutations are guarded by a mutex so
// concurrent admin edits cannot race on the maps.
type MemoryWorkspaceRepository struct {
	mu         sync.RWMutex
	workspaces map[string]*models.Workspace
}

// NewMemoryWorkspaceRepository creates an empty in-memory workspace repository
func NewMemoryWorkspaceRepository() *MemoryWorkspaceRepository {
	return &MemoryWorkspaceRepository{
		workspaces: make(map[string]*models.Workspace),
	}
}

// Create stores a new workspace
func (r *MemoryWorkspaceRepository) Create(ctx context.Context, workspace *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workspaces[workspace.Id]; exists {
		return ErrAlreadyExists
	}
	r.workspaces[workspace.Id] = workspace
	return nil
}

// Get retrieves a workspace by ID
func (r *MemoryWorkspaceRepository) Get(ctx context.Context, id string) (*models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workspace, exists := r.workspaces[id]
	if !exists {
		return nil, ErrNotFound
	}
	return workspace, nil
}

// GetByAccessCode retrieves a workspace by its client access code
func (r *MemoryWorkspaceRepository) GetByAccessCode(ctx context.Context, code string) (*models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, workspace := range r.workspaces {
		if workspace.AccessCode == code {
			return workspace, nil
		}
	}
	return nil, ErrNotFound
}

// GetAll retrieves all workspaces
func (r *MemoryWorkspaceRepository) GetAll(ctx context.Context) ([]*models.Workspace, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	workspaces := make([]*models.Workspace, 0, len(r.workspaces))
	for _, workspace := range r.workspaces {
		workspaces = append(workspaces, workspace)
	}
	return workspaces, nil
}

// Update replaces a stored workspace
func (r *MemoryWorkspaceRepository) Update(ctx context.Context, workspace *models.Workspace) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.workspaces[workspace.Id]; !exists {
		return ErrNotFound
	}
	r.workspaces[workspace.Id] = workspace
	return nil
}

// Delete removes a workspace by ID
func (r *MemoryWorkspaceRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.workspaces, id)
	return nil
}

// MemoryRequestRepository is an in-memory RequestRepository used for local
// development and tests.
type MemoryRequestRepository struct {
	mu       sync.RWMutex
	requests map[string]*models.BuildRequest
}

// NewMemoryRequestRepository creates an empty in-memory request repository
func NewMemoryRequestRepository() *MemoryRequestRepository {
	return &MemoryRequestRepository{
		requests: make(map[string]*models.BuildRequest),
	}
}

// Create stores a new build request
func (r *MemoryRequestRepository) Create(ctx context.Context, request *models.BuildRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[request.Id]; exists {
		return ErrAlreadyExists
	}
	r.requests[request.Id] = request
	return nil
}

// Get retrieves a build request by ID
func (r *MemoryRequestRepository) Get(ctx context.Context, id string) (*models.BuildRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	request, exists := r.requests[id]
	if !exists {
		return nil, ErrNotFound
	}
	return request, nil
}

// GetByWorkspaceId retrieves all build requests owned by a workspace
func (r *MemoryRequestRepository) GetByWorkspaceId(ctx context.Context, workspaceId string) ([]*models.BuildRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]*models.BuildRequest, 0)
	for _, request := range r.requests {
		if request.WorkspaceId == workspaceId {
			requests = append(requests, request)
		}
	}
	return requests, nil
}

// GetAll retrieves all build requests
func (r *MemoryRequestRepository) GetAll(ctx context.Context) ([]*models.BuildRequest, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	requests := make([]*models.BuildRequest, 0, len(r.requests))
	for _, request := range r.requests {
		requests = append(requests, request)
	}
	return requests, nil
}

// Update replaces a stored build request
func (r *MemoryRequestRepository) Update(ctx context.Context, request *models.BuildRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.requests[request.Id]; !exists {
		return ErrNotFound
	}
	r.requests[request.Id] = request
	return nil
}

// Delete removes a build request by ID
func (r *MemoryRequestRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.requests, id)
	return nil
}

// DeleteByWorkspaceId removes all build requests owned by a workspace.
// This is the cascade step of workspace deletion.
func (r *MemoryRequestRepository) DeleteByWorkspaceId(ctx context.Context, workspaceId string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, request := range r.requests {
		if request.WorkspaceId == workspaceId {
			delete(r.requests, id)
		}
	}
	return nil
}
