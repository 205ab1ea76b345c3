package models

import "time"

// UpdateStatusRequest represents the request body for an admin status change
type UpdateStatusRequest struct {
	Status  string `json:"status" binding:"required"`
	Message string `json:"message"`
}

// UpdateProgressRequest represents the request body for an admin progress update
type UpdateProgressRequest struct {
	Percent int    `json:"percent"`
	Phase   string `json:"phase"`
}

// AppendUpdateRequest represents the request body for posting an activity update
type AppendUpdateRequest struct {
	Message  string `json:"message" binding:"required"`
	Category string `json:"category"`
}

// ReviewRequest represents the request body for a client review submission
type ReviewRequest struct {
	Approved *bool  `json:"approved" binding:"required"`
	Feedback string `json:"feedback"`
}

// AddDeliverableRequest represents the request body for attaching a deliverable
type AddDeliverableRequest struct {
	Name string `json:"name" binding:"required"`
	Kind string `json:"kind"`
	URL  string `json:"url" binding:"required"`
}

// SetPreviewRequest represents the request body for setting or clearing the preview URL
type SetPreviewRequest struct {
	URL string `json:"url"`
}

// BuildRequestResponse represents the response structure for a single build request
type BuildRequestResponse struct {
	Id                    string          `json:"id"`
	WorkspaceId           string          `json:"workspace_id"`
	Description           string          `json:"description"`
	Goals                 string          `json:"goals,omitempty"`
	Complexity            Complexity      `json:"complexity"`
	Status                Status          `json:"status"`
	PortalStatus          string          `json:"portal_status"`
	ProgressPercent       int             `json:"progress_percent"`
	CurrentPhase          string          `json:"current_phase,omitempty"`
	PreviewURL            string          `json:"preview_url,omitempty"`
	ActivityLog           []ActivityEntry `json:"activity_log,omitempty"`
	Deliverables          []Deliverable   `json:"deliverables,omitempty"`
	Revisions             []Revision      `json:"revisions,omitempty"`
	RevisionCount         int             `json:"revision_count"`
	CreatedAt             time.Time       `json:"created_at"`
	StartedAt             *time.Time      `json:"started_at,omitempty"`
	EstimatedCompletionAt *time.Time      `json:"estimated_completion_at,omitempty"`
	CompletedAt           *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt             time.Time       `json:"updated_at"`
}

// BuildRequestListResponse represents the response structure for listing build requests
type BuildRequestListResponse struct {
	Requests []BuildRequestResponse `json:"requests"`
	Total    int                    `json:"total"`
}

// StatusCountsResponse represents the dashboard counts-by-status structure
type StatusCountsResponse struct {
	Counts map[Status]int `json:"counts"`
	Total  int            `json:"total"`
}

// ToResponse converts a domain BuildRequest to a BuildRequestResponse DTO
func (r *BuildRequest) ToResponse() BuildRequestResponse {
	return BuildRequestResponse{
		Id:                    r.Id,
		WorkspaceId:           r.WorkspaceId,
		Description:           r.Description,
		Goals:                 r.Goals,
		Complexity:            r.Complexity,
		Status:                r.Status,
		PortalStatus:          r.Status.PortalName(),
		ProgressPercent:       r.ProgressPercent,
		CurrentPhase:          r.CurrentPhase,
		PreviewURL:            r.PreviewURL,
		ActivityLog:           r.ActivityLog,
		Deliverables:          r.Deliverables,
		Revisions:             r.Revisions,
		RevisionCount:         r.RevisionCount,
		CreatedAt:             r.CreatedAt,
		StartedAt:             r.StartedAt,
		EstimatedCompletionAt: r.EstimatedCompletionAt,
		CompletedAt:           r.CompletedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}
