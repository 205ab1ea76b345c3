package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
)

const accessCodeLength = 8

// WorkspaceService manages client workspaces: the tenant boundary owning
// build requests.
type WorkspaceService struct {
	workspaces repository.WorkspaceRepository
	requests   repository.RequestRepository
	notifier   *Notifier
}

// NewWorkspaceService creates a new workspace service
func NewWorkspaceService(
	workspaces repository.WorkspaceRepository,
	requests repository.RequestRepository,
	notifier *Notifier,
) *WorkspaceService {
	return &WorkspaceService{
		workspaces: workspaces,
		requests:   requests,
		notifier:   notifier,
	}
}

// Create provisions a workspace with a generated id and access code and
// emails the code to the client. Creation succeeds even when the
// notification cannot be sent.
func (s *WorkspaceService) Create(ctx context.Context, req *models.CreateWorkspaceRequest) (*models.Workspace, error) {
	workspace := req.ToDomain()
	workspace.Id = uuid.New().String()
	workspace.AccessCode = NewAccessCode(accessCodeLength)

	if err := s.workspaces.Create(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to create workspace: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"workspace_id": workspace.Id,
		"company":      workspace.CompanyName,
	}).Info("Workspace created")

	s.notifier.WorkspaceCreated(workspace)

	return workspace, nil
}

// Get retrieves a workspace by id
func (s *WorkspaceService) Get(ctx context.Context, id string) (*models.Workspace, error) {
	return s.workspaces.Get(ctx, id)
}

// GetByAccessCode retrieves a workspace by its client access code
func (s *WorkspaceService) GetByAccessCode(ctx context.Context, code string) (*models.Workspace, error) {
	return s.workspaces.GetByAccessCode(ctx, code)
}

// List returns all workspaces, newest first
func (s *WorkspaceService) List(ctx context.Context) ([]*models.Workspace, error) {
	workspaces, err := s.workspaces.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(workspaces, func(i, j int) bool {
		return workspaces[i].CreatedAt.After(workspaces[j].CreatedAt)
	})
	return workspaces, nil
}

// SetActive toggles the workspace's active flag. An inactive workspace's
// access code stops working but its requests are kept.
func (s *WorkspaceService) SetActive(ctx context.Context, id string, active bool) (*models.Workspace, error) {
	workspace, err := s.workspaces.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	workspace.Active = active
	if err := s.workspaces.Update(ctx, workspace); err != nil {
		return nil, fmt.Errorf("failed to update workspace: %w", err)
	}
	return workspace, nil
}

// Delete removes a workspace and cascades to all of its build requests.
// The cascade runs first so a failed request cleanup never leaves
// orphaned requests behind a deleted workspace.
func (s *WorkspaceService) Delete(ctx context.Context, id string) error {
	if _, err := s.workspaces.Get(ctx, id); err != nil {
		return err
	}

	if err := s.requests.DeleteByWorkspaceId(ctx, id); err != nil {
		return fmt.Errorf("failed to cascade delete workspace requests: %w", err)
	}
	if err := s.workspaces.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	logger.WithField("workspace_id", id).Info("Workspace deleted with cascading requests")
	return nil
}
