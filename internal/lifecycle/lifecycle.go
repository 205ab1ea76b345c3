package lifecycle

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/CourageAllien/studioportal/internal/models"
)

var (
	// ErrInvalidStatus is returned when a status outside the known set is requested
	ErrInvalidStatus = errors.New("unknown status")
	// ErrInvalidTransition is returned in strict mode for a jump the state machine forbids
	ErrInvalidTransition = errors.New("status transition not allowed")
	// ErrNotReviewable is returned when review feedback targets a request not awaiting review
	ErrNotReviewable = errors.New("request is not awaiting review")
	// ErrEmptyFeedback is returned when changes are requested without any feedback text
	ErrEmptyFeedback = errors.New("requesting changes requires feedback")
)

// allowedNext encodes the linear-with-one-loop state machine enforced in
// strict mode: review either advances (final, completed) or loops back
// through revision into processing.
var allowedNext = map[models.Status][]models.Status{
	models.StatusNew:        {models.StatusQueued, models.StatusProcessing},
	models.StatusQueued:     {models.StatusProcessing},
	models.StatusProcessing: {models.StatusReview},
	models.StatusReview:     {models.StatusRevision, models.StatusFinal, models.StatusCompleted},
	models.StatusRevision:   {models.StatusProcessing},
	models.StatusFinal:      {models.StatusCompleted},
	models.StatusCompleted:  {},
}

// Clock supplies the current time to the engine. Injected so transitions
// are reproducible in tests.
type Clock func() time.Time

// Engine applies lifecycle transitions to a build request and keeps the
// derived fields and activity log consistent. It mutates the entity it is
// given and never touches a store itself.
type Engine struct {
	clock  Clock
	strict bool
}

// NewEngine creates a lifecycle engine. A nil clock means time.Now.
// When strict is true, SetStatus validates jumps against the transition
// table; otherwise any status can follow any status, matching the
// free-form behavior the admin portal relies on.
func NewEngine(clock Clock, strict bool) *Engine {
	if clock == nil {
		clock = time.Now
	}
	return &Engine{clock: clock, strict: strict}
}

// Create builds a new request in the initial state and logs the estimated
// delivery window derived from its complexity.
func (e *Engine) Create(workspaceId string, complexity models.Complexity, description, goals string) *models.BuildRequest {
	now := e.clock()
	if !complexity.IsValid() {
		complexity = models.ComplexitySimple
	}

	r := &models.BuildRequest{
		Id:          NewRequestID(now),
		WorkspaceId: workspaceId,
		Description: description,
		Goals:       goals,
		Complexity:  complexity,
		Status:      models.StatusNew,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	min, max := complexity.EstimateDays()
	e.log(r, fmt.Sprintf("Request received. Estimated delivery: %d-%d days.", min, max), models.LogInfo)
	return r
}

// SetStatus moves the request to a new status and maintains the derived
// timestamps: StartedAt and the estimated completion are stamped on the
// first entry into processing, CompletedAt on entry into the terminal
// state. Progress is raised to the status-conventional value unless an
// admin already set it higher. A non-empty message is appended to the
// activity log, categorized by the new status.
func (e *Engine) SetStatus(r *models.BuildRequest, status models.Status, message string) error {
	if !status.IsValid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, status)
	}
	if e.strict && !transitionAllowed(r.Status, status) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, r.Status, status)
	}

	now := e.clock()
	r.Status = status

	if status == models.StatusProcessing && r.StartedAt == nil {
		started := now
		r.StartedAt = &started
		_, maxDays := r.Complexity.EstimateDays()
		estimated := started.AddDate(0, 0, maxDays)
		r.EstimatedCompletionAt = &estimated
	}
	if status == models.StatusCompleted && r.CompletedAt == nil {
		completed := now
		r.CompletedAt = &completed
	}

	if conventional := conventionalProgress(status); conventional > r.ProgressPercent {
		r.ProgressPercent = conventional
	}

	if message != "" {
		e.log(r, message, categoryForStatus(status))
	}
	r.UpdatedAt = now
	return nil
}

// AppendUpdate adds an activity log entry without changing status.
// An unknown category falls back to info.
func (e *Engine) AppendUpdate(r *models.BuildRequest, message string, category models.LogCategory) {
	switch category {
	case models.LogInfo, models.LogProgress, models.LogMilestone, models.LogAlert, models.LogCompleted:
	default:
		category = models.LogInfo
	}
	e.log(r, message, category)
	r.UpdatedAt = e.clock()
}

// SubmitReview records the client's review outcome. Approval advances the
// request to final; requesting changes loops it back to revision, counts
// the revision and records the feedback verbatim. Rejecting without
// feedback is refused so the audit trail never carries an empty alert.
func (e *Engine) SubmitReview(r *models.BuildRequest, feedback string, approved bool) error {
	if r.Status != models.StatusReview {
		return fmt.Errorf("%w: status is %s", ErrNotReviewable, r.Status)
	}

	now := e.clock()
	if approved {
		r.Status = models.StatusFinal
		r.ProgressPercent = 95
		message := "Client approved the build"
		if strings.TrimSpace(feedback) != "" {
			message = fmt.Sprintf("Client approved the build: %s", feedback)
		}
		e.log(r, message, models.LogMilestone)
	} else {
		if strings.TrimSpace(feedback) == "" {
			return ErrEmptyFeedback
		}
		r.Status = models.StatusRevision
		r.RevisionCount++
		r.Revisions = append(r.Revisions, models.Revision{Description: feedback, CreatedAt: now})
		r.ProgressPercent = 70
		e.log(r, fmt.Sprintf("Changes requested: %s", feedback), models.LogAlert)
	}
	r.UpdatedAt = now
	return nil
}

// AddDeliverable attaches an external artifact link and logs the milestone.
func (e *Engine) AddDeliverable(r *models.BuildRequest, d models.Deliverable) {
	now := e.clock()
	if d.AddedAt.IsZero() {
		d.AddedAt = now
	}
	r.Deliverables = append(r.Deliverables, d)
	e.log(r, fmt.Sprintf("Deliverable ready: %s", d.Name), models.LogMilestone)
	r.UpdatedAt = now
}

// RemoveDeliverable detaches a deliverable by id. Returns false when no
// deliverable with that id exists. Removal is logged so the activity log
// stays a complete record of observable changes.
func (e *Engine) RemoveDeliverable(r *models.BuildRequest, id string) bool {
	for i, d := range r.Deliverables {
		if d.Id == id {
			r.Deliverables = append(r.Deliverables[:i], r.Deliverables[i+1:]...)
			e.log(r, fmt.Sprintf("Deliverable removed: %s", d.Name), models.LogInfo)
			r.UpdatedAt = e.clock()
			return true
		}
	}
	return false
}

// SetPreviewURL sets or clears the preview link. Both directions log an
// entry; the clear previously went unlogged in one portal surface and is
// normalized here.
func (e *Engine) SetPreviewURL(r *models.BuildRequest, url string) {
	r.PreviewURL = url
	if url == "" {
		e.log(r, "Preview link removed", models.LogInfo)
	} else {
		e.log(r, fmt.Sprintf("Preview ready: %s", url), models.LogMilestone)
	}
	r.UpdatedAt = e.clock()
}

// SetProgress overwrites the progress percentage, clamped to [0,100], and
// the current phase label.
func (e *Engine) SetProgress(r *models.BuildRequest, percent int, phase string) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	r.ProgressPercent = percent
	r.CurrentPhase = phase
	e.log(r, fmt.Sprintf("Progress updated to %d%%", percent), models.LogProgress)
	r.UpdatedAt = e.clock()
}

// log appends a timestamped entry to the request's activity log.
func (e *Engine) log(r *models.BuildRequest, message string, category models.LogCategory) {
	r.ActivityLog = append(r.ActivityLog, models.ActivityEntry{
		Timestamp: e.clock(),
		Message:   message,
		Category:  category,
	})
}

func transitionAllowed(from, to models.Status) bool {
	for _, next := range allowedNext[from] {
		if next == to {
			return true
		}
	}
	return false
}

func conventionalProgress(status models.Status) int {
	switch status {
	case models.StatusCompleted:
		return 100
	case models.StatusReview:
		return 90
	}
	return 0
}

func categoryForStatus(status models.Status) models.LogCategory {
	switch status {
	case models.StatusCompleted:
		return models.LogCompleted
	case models.StatusReview:
		return models.LogMilestone
	}
	return models.LogProgress
}
