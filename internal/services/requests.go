package services

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/CourageAllien/studioportal/internal/lifecycle"
	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/repository"
)

// RequestService wraps every lifecycle mutation with persistence and
// client notification. The lifecycle engine owns the state rules; this
// service owns loading, storing and the read surface.
type RequestService struct {
	requests   repository.RequestRepository
	workspaces repository.WorkspaceRepository
	engine     *lifecycle.Engine
	notifier   *Notifier
}

// NewRequestService creates a new request service
func NewRequestService(
	requests repository.RequestRepository,
	workspaces repository.WorkspaceRepository,
	engine *lifecycle.Engine,
	notifier *Notifier,
) *RequestService {
	return &RequestService{
		requests:   requests,
		workspaces: workspaces,
		engine:     engine,
		notifier:   notifier,
	}
}

// Submit creates a build request in a workspace from a completed intake.
func (s *RequestService) Submit(ctx context.Context, workspaceId string, complexity models.Complexity, description, goals string) (*models.BuildRequest, error) {
	if _, err := s.workspaces.Get(ctx, workspaceId); err != nil {
		return nil, err
	}

	request := s.engine.Create(workspaceId, complexity, description, goals)
	if err := s.requests.Create(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to store build request: %w", err)
	}

	logger.WithFields(map[string]interface{}{
		"request_id":   request.Id,
		"workspace_id": workspaceId,
		"complexity":   request.Complexity,
	}).Info("Build request submitted")

	return request, nil
}

// Get retrieves a build request by id
func (s *RequestService) Get(ctx context.Context, id string) (*models.BuildRequest, error) {
	return s.requests.Get(ctx, id)
}

// ListByWorkspace returns a workspace's requests, newest first
func (s *RequestService) ListByWorkspace(ctx context.Context, workspaceId string) ([]*models.BuildRequest, error) {
	requests, err := s.requests.GetByWorkspaceId(ctx, workspaceId)
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(requests)
	return requests, nil
}

// ListAll returns every request, newest first
func (s *RequestService) ListAll(ctx context.Context) ([]*models.BuildRequest, error) {
	requests, err := s.requests.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	sortByCreatedDesc(requests)
	return requests, nil
}

// Search scans all requests for a case-insensitive substring match across
// id, description and goals. Results come back newest first.
func (s *RequestService) Search(ctx context.Context, query string) ([]*models.BuildRequest, error) {
	all, err := s.requests.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		sortByCreatedDesc(all)
		return all, nil
	}

	matches := make([]*models.BuildRequest, 0)
	for _, request := range all {
		if strings.Contains(strings.ToLower(request.Id), needle) ||
			strings.Contains(strings.ToLower(request.Description), needle) ||
			strings.Contains(strings.ToLower(request.Goals), needle) {
			matches = append(matches, request)
		}
	}
	sortByCreatedDesc(matches)
	return matches, nil
}

// CountsByStatus returns the dashboard tally of requests per status
func (s *RequestService) CountsByStatus(ctx context.Context) (map[models.Status]int, int, error) {
	all, err := s.requests.GetAll(ctx)
	if err != nil {
		return nil, 0, err
	}

	counts := make(map[models.Status]int, len(models.AllStatuses))
	for _, status := range models.AllStatuses {
		counts[status] = 0
	}
	for _, request := range all {
		counts[request.Status]++
	}
	return counts, len(all), nil
}

// SetStatus applies an admin status change and notifies the client when
// the new status is a client-visible milestone.
func (s *RequestService) SetStatus(ctx context.Context, id string, status models.Status, message string) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.engine.SetStatus(request, status, message); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist status change: %w", err)
	}

	if isMilestoneStatus(status) {
		if workspace, err := s.workspaces.Get(ctx, request.WorkspaceId); err == nil {
			s.notifier.StatusChanged(workspace, request, message)
		}
	}

	return request, nil
}

// AppendUpdate posts an activity entry without changing status
func (s *RequestService) AppendUpdate(ctx context.Context, id, message string, category models.LogCategory) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.engine.AppendUpdate(request, message, category)
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist update: %w", err)
	}
	return request, nil
}

// SubmitReview records the client's review outcome and confirms it by email
func (s *RequestService) SubmitReview(ctx context.Context, id, feedback string, approved bool) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.engine.SubmitReview(request, feedback, approved); err != nil {
		return nil, err
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist review: %w", err)
	}

	if workspace, err := s.workspaces.Get(ctx, request.WorkspaceId); err == nil {
		s.notifier.ReviewReceived(workspace, request, approved)
	}

	return request, nil
}

// AddDeliverable attaches an artifact link with a generated id
func (s *RequestService) AddDeliverable(ctx context.Context, id string, name string, kind models.DeliverableKind, url string) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.engine.AddDeliverable(request, models.Deliverable{
		Id:   uuid.New().String(),
		Name: name,
		Kind: kind,
		URL:  url,
	})
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist deliverable: %w", err)
	}
	return request, nil
}

// RemoveDeliverable detaches an artifact link
func (s *RequestService) RemoveDeliverable(ctx context.Context, id, deliverableId string) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if !s.engine.RemoveDeliverable(request, deliverableId) {
		return nil, repository.ErrNotFound
	}
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist deliverable removal: %w", err)
	}
	return request, nil
}

// SetPreviewURL sets or clears the request's preview link
func (s *RequestService) SetPreviewURL(ctx context.Context, id, url string) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.engine.SetPreviewURL(request, url)
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist preview change: %w", err)
	}
	return request, nil
}

// SetProgress overwrites the progress percentage and phase label
func (s *RequestService) SetProgress(ctx context.Context, id string, percent int, phase string) (*models.BuildRequest, error) {
	request, err := s.requests.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	s.engine.SetProgress(request, percent, phase)
	if err := s.requests.Update(ctx, request); err != nil {
		return nil, fmt.Errorf("failed to persist progress change: %w", err)
	}
	return request, nil
}

func sortByCreatedDesc(requests []*models.BuildRequest) {
	sort.Slice(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
}

// isMilestoneStatus reports whether a status change is worth an email to
// the client; internal shuffles between queue states are not.
func isMilestoneStatus(status models.Status) bool {
	switch status {
	case models.StatusProcessing, models.StatusReview, models.StatusFinal, models.StatusCompleted:
		return true
	}
	return false
}
