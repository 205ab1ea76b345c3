package models

import "time"

// Complexity classifies how involved a build request is. It drives the
// estimated delivery window shown to the client.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// EstimateDays returns the estimated delivery range in days for the complexity.
func (c Complexity) EstimateDays() (min int, max int) {
	if c == ComplexityComplex {
		return 5, 7
	}
	return 1, 2
}

// IsValid reports whether the complexity is one of the known values.
func (c Complexity) IsValid() bool {
	return c == ComplexitySimple || c == ComplexityComplex
}

// Status is the canonical build request lifecycle status.
type Status string

const (
	StatusNew        Status = "new"
	StatusQueued     Status = "queued"
	StatusProcessing Status = "processing"
	StatusReview     Status = "review"
	StatusRevision   Status = "revision"
	StatusFinal      Status = "final"
	StatusCompleted  Status = "completed"
)

// AllStatuses lists every lifecycle status in order of normal progression.
var AllStatuses = []Status{
	StatusNew,
	StatusQueued,
	StatusProcessing,
	StatusReview,
	StatusRevision,
	StatusFinal,
	StatusCompleted,
}

// IsValid reports whether the status is one of the known values.
func (s Status) IsValid() bool {
	for _, known := range AllStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status ends the lifecycle.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted
}

// PortalName maps the canonical status onto the compressed five-value
// vocabulary used by the client portal surface.
func (s Status) PortalName() string {
	switch s {
	case StatusNew, StatusQueued:
		return "queued"
	case StatusProcessing:
		return "in-progress"
	case StatusReview, StatusFinal:
		return "ready-for-review"
	case StatusRevision:
		return "revisions-requested"
	case StatusCompleted:
		return "completed"
	}
	return string(s)
}

// LogCategory classifies an activity log entry.
type LogCategory string

const (
	LogInfo      LogCategory = "info"
	LogProgress  LogCategory = "progress"
	LogMilestone LogCategory = "milestone"
	LogAlert     LogCategory = "alert"
	LogCompleted LogCategory = "completed"
)

// ActivityEntry is a single entry in a request's append-only activity log.
type ActivityEntry struct {
	Timestamp time.Time   `json:"timestamp" dynamodbav:"Timestamp"`
	Message   string      `json:"message" dynamodbav:"Message"`
	Category  LogCategory `json:"category" dynamodbav:"Category"`
}

// DeliverableKind is the type of external artifact linked to a request.
type DeliverableKind string

const (
	DeliverableDocument DeliverableKind = "document"
	DeliverableLink     DeliverableKind = "link"
	DeliverablePreview  DeliverableKind = "preview"
	DeliverableVideo    DeliverableKind = "video"
	DeliverableFile     DeliverableKind = "file"
)

// Deliverable is a named external link attached to a request by an admin.
type Deliverable struct {
	Id      string          `json:"id" dynamodbav:"Id"`
	Name    string          `json:"name" dynamodbav:"Name"`
	Kind    DeliverableKind `json:"kind" dynamodbav:"Kind"`
	URL     string          `json:"url" dynamodbav:"URL"`
	AddedAt time.Time       `json:"added_at" dynamodbav:"AddedAt"`
}

// Revision is a client-submitted change request recorded during review.
type Revision struct {
	Description string    `json:"description" dynamodbav:"Description"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"CreatedAt"`
}

// BuildRequest represents the domain model for a client build request.
// This is a database-agnostic business entity.
type BuildRequest struct {
	Id          string
	WorkspaceId string
	Description string
	Goals       string
	Complexity  Complexity
	Status      Status

	// Progress fields are admin-settable and only conventionally tied to status
	ProgressPercent int
	CurrentPhase    string
	PreviewURL      string

	ActivityLog   []ActivityEntry
	Deliverables  []Deliverable
	Revisions     []Revision
	RevisionCount int

	CreatedAt             time.Time
	StartedAt             *time.Time
	EstimatedCompletionAt *time.Time
	CompletedAt           *time.Time
	UpdatedAt             time.Time
}
