package lifecycle

import (
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/CourageAllien/studioportal/internal/models"
)

// fixedClock returns a Clock pinned to t plus a function to advance it.
func fixedClock(t time.Time) (Clock, func(d time.Duration)) {
	current := t
	clock := func() time.Time { return current }
	advance := func(d time.Duration) { current = current.Add(d) }
	return clock, advance
}

var baseTime = time.Date(2026, time.March, 12, 10, 0, 0, 0, time.UTC)

func lastEntry(t *testing.T, r *models.BuildRequest) models.ActivityEntry {
	t.Helper()
	if len(r.ActivityLog) == 0 {
		t.Fatal("Expected at least one activity log entry")
	}
	return r.ActivityLog[len(r.ActivityLog)-1]
}

// TestCreate tests initial state and the estimated-window log entry
func TestCreate(t *testing.T) {
	tests := []struct {
		name       string
		complexity models.Complexity
		wantWindow string
	}{
		{
			name:       "Simple request estimates 1-2 days",
			complexity: models.ComplexitySimple,
			wantWindow: "1-2 days",
		},
		{
			name:       "Complex request estimates 5-7 days",
			complexity: models.ComplexityComplex,
			wantWindow: "5-7 days",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, _ := fixedClock(baseTime)
			engine := NewEngine(clock, false)

			r := engine.Create("ws-1", tt.complexity, "landing page", "more signups")

			if r.Status != models.StatusNew {
				t.Errorf("Expected status new, got %s", r.Status)
			}
			if !strings.HasPrefix(r.Id, "REQ-") {
				t.Errorf("Expected REQ- prefixed id, got %s", r.Id)
			}
			if r.CreatedAt != baseTime || r.UpdatedAt != baseTime {
				t.Error("Expected creation timestamps from the injected clock")
			}
			entry := lastEntry(t, r)
			if entry.Category != models.LogInfo {
				t.Errorf("Expected info entry, got %s", entry.Category)
			}
			if !strings.Contains(entry.Message, tt.wantWindow) {
				t.Errorf("Expected estimated window %q in %q", tt.wantWindow, entry.Message)
			}
		})
	}
}

// TestSetStatusProcessing tests that the first transition into processing
// stamps StartedAt and the complexity-derived estimated completion
func TestSetStatusProcessing(t *testing.T) {
	clock, advance := fixedClock(baseTime)
	engine := NewEngine(clock, false)

	r := engine.Create("ws-1", models.ComplexityComplex, "storefront", "")
	advance(2 * time.Hour)
	started := baseTime.Add(2 * time.Hour)

	if err := engine.SetStatus(r, models.StatusProcessing, "Started building"); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if r.StartedAt == nil || !r.StartedAt.Equal(started) {
		t.Fatalf("Expected StartedAt %v, got %v", started, r.StartedAt)
	}
	wantEstimate := started.AddDate(0, 0, 7) // max of the complex range
	if r.EstimatedCompletionAt == nil || !r.EstimatedCompletionAt.Equal(wantEstimate) {
		t.Errorf("Expected estimated completion %v, got %v", wantEstimate, r.EstimatedCompletionAt)
	}
	entry := lastEntry(t, r)
	if entry.Category != models.LogProgress || entry.Message != "Started building" {
		t.Errorf("Expected progress entry with message, got %+v", entry)
	}

	// a second pass through processing must not restamp StartedAt
	advance(24 * time.Hour)
	_ = engine.SetStatus(r, models.StatusReview, "")
	_ = engine.SetStatus(r, models.StatusRevision, "")
	_ = engine.SetStatus(r, models.StatusProcessing, "")
	if !r.StartedAt.Equal(started) {
		t.Errorf("StartedAt changed on re-entry: %v", r.StartedAt)
	}
}

// TestSetStatusDerivedFields tests terminal stamping, conventional progress
// and log categorization per status
func TestSetStatusDerivedFields(t *testing.T) {
	tests := []struct {
		name         string
		status       models.Status
		message      string
		wantProgress int
		wantCategory models.LogCategory
	}{
		{
			name:         "Review raises progress to 90 and logs a milestone",
			status:       models.StatusReview,
			message:      "Ready for your review",
			wantProgress: 90,
			wantCategory: models.LogMilestone,
		},
		{
			name:         "Completed raises progress to 100 and logs completed",
			status:       models.StatusCompleted,
			message:      "All done",
			wantProgress: 100,
			wantCategory: models.LogCompleted,
		},
		{
			name:         "Queued logs a plain progress entry",
			status:       models.StatusQueued,
			message:      "Back in the queue",
			wantProgress: 0,
			wantCategory: models.LogProgress,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, _ := fixedClock(baseTime)
			engine := NewEngine(clock, false)
			r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

			if err := engine.SetStatus(r, tt.status, tt.message); err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if r.ProgressPercent != tt.wantProgress {
				t.Errorf("Expected progress %d, got %d", tt.wantProgress, r.ProgressPercent)
			}
			entry := lastEntry(t, r)
			if entry.Category != tt.wantCategory {
				t.Errorf("Expected category %s, got %s", tt.wantCategory, entry.Category)
			}

			if tt.status == models.StatusCompleted {
				if r.CompletedAt == nil {
					t.Fatal("Expected CompletedAt to be stamped")
				}
			} else if r.CompletedAt != nil {
				t.Error("CompletedAt stamped for a non-terminal status")
			}
		})
	}
}

// TestSetStatusKeepsHigherProgress tests that an explicitly raised progress
// value is not lowered by a conventional one
func TestSetStatusKeepsHigherProgress(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	engine.SetProgress(r, 97, "final polish")
	if err := engine.SetStatus(r, models.StatusReview, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if r.ProgressPercent != 97 {
		t.Errorf("Expected explicitly set 97 to survive, got %d", r.ProgressPercent)
	}
}

// TestSetStatusNoMessageNoLog tests that an empty message appends nothing
func TestSetStatusNoMessageNoLog(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	before := len(r.ActivityLog)
	if err := engine.SetStatus(r, models.StatusQueued, ""); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(r.ActivityLog) != before {
		t.Errorf("Expected no log entry, log grew to %d entries", len(r.ActivityLog))
	}
}

// TestSetStatusInvalid tests rejection of unknown statuses
func TestSetStatusInvalid(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	err := engine.SetStatus(r, models.Status("archived"), "")
	if !errors.Is(err, ErrInvalidStatus) {
		t.Errorf("Expected ErrInvalidStatus, got %v", err)
	}
}

// TestStrictTransitions tests the optional transition table enforcement
func TestStrictTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    models.Status
		to      models.Status
		wantErr bool
	}{
		{name: "New to queued", from: models.StatusNew, to: models.StatusQueued, wantErr: false},
		{name: "Queued to processing", from: models.StatusQueued, to: models.StatusProcessing, wantErr: false},
		{name: "Processing to review", from: models.StatusProcessing, to: models.StatusReview, wantErr: false},
		{name: "Review loops back to revision", from: models.StatusReview, to: models.StatusRevision, wantErr: false},
		{name: "Revision funnels to processing", from: models.StatusRevision, to: models.StatusProcessing, wantErr: false},
		{name: "Final to completed", from: models.StatusFinal, to: models.StatusCompleted, wantErr: false},
		{name: "Queued cannot jump to completed", from: models.StatusQueued, to: models.StatusCompleted, wantErr: true},
		{name: "Completed is terminal", from: models.StatusCompleted, to: models.StatusProcessing, wantErr: true},
		{name: "Revision cannot skip back to review", from: models.StatusRevision, to: models.StatusReview, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, _ := fixedClock(baseTime)
			engine := NewEngine(clock, true)
			r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")
			r.Status = tt.from

			err := engine.SetStatus(r, tt.to, "")
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Errorf("Expected ErrInvalidTransition, got %v", err)
				}
				if r.Status != tt.from {
					t.Errorf("Status changed despite rejection: %s", r.Status)
				}
			} else if err != nil {
				t.Errorf("Unexpected error: %v", err)
			}
		})
	}
}

// TestFreeFormTransitions tests that non-strict mode allows arbitrary jumps
func TestFreeFormTransitions(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	_ = engine.SetStatus(r, models.StatusCompleted, "")
	// admin reset to queued must keep working in free-form mode
	if err := engine.SetStatus(r, models.StatusQueued, ""); err != nil {
		t.Fatalf("Expected free-form jump to succeed, got %v", err)
	}
	if r.Status != models.StatusQueued {
		t.Errorf("Expected queued, got %s", r.Status)
	}
}

// TestSubmitReviewRejected tests the changes-requested path
func TestSubmitReviewRejected(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")
	_ = engine.SetStatus(r, models.StatusReview, "")

	feedback := "needs a color change"
	if err := engine.SubmitReview(r, feedback, false); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if r.Status != models.StatusRevision {
		t.Errorf("Expected revision, got %s", r.Status)
	}
	if r.ProgressPercent != 70 {
		t.Errorf("Expected progress 70, got %d", r.ProgressPercent)
	}
	if r.RevisionCount != 1 {
		t.Errorf("Expected revision count 1, got %d", r.RevisionCount)
	}
	if len(r.Revisions) != 1 || r.Revisions[0].Description != feedback {
		t.Errorf("Expected recorded revision with feedback, got %+v", r.Revisions)
	}
	entry := lastEntry(t, r)
	if entry.Category != models.LogAlert {
		t.Errorf("Expected alert entry, got %s", entry.Category)
	}
	if !strings.Contains(entry.Message, feedback) {
		t.Errorf("Expected feedback verbatim in %q", entry.Message)
	}
}

// TestSubmitReviewApproved tests the approval path
func TestSubmitReviewApproved(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")
	_ = engine.SetStatus(r, models.StatusReview, "")

	if err := engine.SubmitReview(r, "looks great", true); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if r.Status != models.StatusFinal {
		t.Errorf("Expected final, got %s", r.Status)
	}
	if r.ProgressPercent != 95 {
		t.Errorf("Expected progress 95, got %d", r.ProgressPercent)
	}
	if r.RevisionCount != 0 {
		t.Errorf("Expected revision count unchanged, got %d", r.RevisionCount)
	}
	if entry := lastEntry(t, r); entry.Category != models.LogMilestone {
		t.Errorf("Expected milestone entry, got %s", entry.Category)
	}
}

// TestSubmitReviewGuards tests the review preconditions
func TestSubmitReviewGuards(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)

	t.Run("Rejection requires feedback", func(t *testing.T) {
		r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")
		_ = engine.SetStatus(r, models.StatusReview, "")

		err := engine.SubmitReview(r, "   ", false)
		if !errors.Is(err, ErrEmptyFeedback) {
			t.Errorf("Expected ErrEmptyFeedback, got %v", err)
		}
		if r.RevisionCount != 0 || r.Status != models.StatusReview {
			t.Error("Rejected review without feedback must leave the request untouched")
		}
	})

	t.Run("Only review status accepts feedback", func(t *testing.T) {
		r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

		err := engine.SubmitReview(r, "too early", false)
		if !errors.Is(err, ErrNotReviewable) {
			t.Errorf("Expected ErrNotReviewable, got %v", err)
		}
	})
}

// TestRevisionCounting tests that only rejections increment the counter,
// regardless of interleaving with approvals
func TestRevisionCounting(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexityComplex, "storefront", "")

	outcomes := []bool{false, false, true} // two rejections, then approval
	rejections := 0
	for _, approved := range outcomes {
		_ = engine.SetStatus(r, models.StatusReview, "")
		if err := engine.SubmitReview(r, "tweak it", approved); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !approved {
			rejections++
			_ = engine.SetStatus(r, models.StatusProcessing, "")
		}
	}

	if r.RevisionCount != rejections {
		t.Errorf("Expected revision count %d, got %d", rejections, r.RevisionCount)
	}
}

// TestMonotonicTimestamps tests StartedAt <= CompletedAt and terminal stamping
func TestMonotonicTimestamps(t *testing.T) {
	clock, advance := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	if r.CompletedAt != nil {
		t.Fatal("CompletedAt set before reaching the terminal state")
	}

	_ = engine.SetStatus(r, models.StatusProcessing, "")
	advance(48 * time.Hour)
	_ = engine.SetStatus(r, models.StatusCompleted, "")

	if r.StartedAt == nil || r.CompletedAt == nil {
		t.Fatal("Expected both timestamps to be stamped")
	}
	if r.CompletedAt.Before(*r.StartedAt) {
		t.Errorf("CompletedAt %v precedes StartedAt %v", r.CompletedAt, r.StartedAt)
	}
}

// TestSetProgressClamp tests clamping to [0,100]
func TestSetProgressClamp(t *testing.T) {
	tests := []struct {
		name  string
		input int
		want  int
	}{
		{name: "Above range clamps to 100", input: 150, want: 100},
		{name: "Below range clamps to 0", input: -5, want: 0},
		{name: "In range passes through", input: 42, want: 42},
		{name: "Boundary 0", input: 0, want: 0},
		{name: "Boundary 100", input: 100, want: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock, _ := fixedClock(baseTime)
			engine := NewEngine(clock, false)
			r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

			engine.SetProgress(r, tt.input, "building")
			if r.ProgressPercent != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, r.ProgressPercent)
			}
			if r.CurrentPhase != "building" {
				t.Errorf("Expected phase label to be overwritten, got %q", r.CurrentPhase)
			}
		})
	}
}

// TestDeliverables tests attach, detach and their log entries
func TestDeliverables(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	engine.AddDeliverable(r, models.Deliverable{
		Id:   "d-1",
		Name: "Brand guide",
		Kind: models.DeliverableDocument,
		URL:  "https://example.com/brand.pdf",
	})

	if len(r.Deliverables) != 1 {
		t.Fatalf("Expected 1 deliverable, got %d", len(r.Deliverables))
	}
	if r.Deliverables[0].AddedAt.IsZero() {
		t.Error("Expected AddedAt to be stamped")
	}
	if entry := lastEntry(t, r); entry.Category != models.LogMilestone {
		t.Errorf("Expected milestone on add, got %s", entry.Category)
	}

	if removed := engine.RemoveDeliverable(r, "d-404"); removed {
		t.Error("Expected removal of unknown id to report false")
	}
	if removed := engine.RemoveDeliverable(r, "d-1"); !removed {
		t.Fatal("Expected removal to succeed")
	}
	if len(r.Deliverables) != 0 {
		t.Errorf("Expected no deliverables, got %d", len(r.Deliverables))
	}
	if entry := lastEntry(t, r); entry.Category != models.LogInfo {
		t.Errorf("Expected info entry on removal, got %s", entry.Category)
	}
}

// TestSetPreviewURL tests that both set and clear log exactly one entry
func TestSetPreviewURL(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	before := len(r.ActivityLog)
	engine.SetPreviewURL(r, "https://preview.example.com/x")
	if r.PreviewURL == "" {
		t.Error("Expected preview URL to be set")
	}
	if len(r.ActivityLog) != before+1 {
		t.Errorf("Expected exactly one entry for set, log grew by %d", len(r.ActivityLog)-before)
	}

	engine.SetPreviewURL(r, "")
	if r.PreviewURL != "" {
		t.Error("Expected preview URL to be cleared")
	}
	if len(r.ActivityLog) != before+2 {
		t.Errorf("Expected exactly one entry for clear, log grew by %d", len(r.ActivityLog)-before-1)
	}
}

// TestAppendUpdate tests category fallback and that status is untouched
func TestAppendUpdate(t *testing.T) {
	clock, _ := fixedClock(baseTime)
	engine := NewEngine(clock, false)
	r := engine.Create("ws-1", models.ComplexitySimple, "logo", "")

	engine.AppendUpdate(r, "kickoff call done", models.LogCategory("chatter"))
	entry := lastEntry(t, r)
	if entry.Category != models.LogInfo {
		t.Errorf("Expected fallback to info, got %s", entry.Category)
	}
	if r.Status != models.StatusNew {
		t.Errorf("Expected status untouched, got %s", r.Status)
	}
}

// TestNewRequestID tests the id format
func TestNewRequestID(t *testing.T) {
	id := NewRequestID(baseTime)
	if !strings.HasPrefix(id, "REQ-") {
		t.Fatalf("Expected REQ- prefix, got %s", id)
	}
	stamp := strconv.FormatInt(baseTime.UnixMilli(), 36)
	if len(id) != len("REQ-")+len(stamp)+4 {
		t.Errorf("Unexpected id length: %s", id)
	}
	if !strings.HasPrefix(id[len("REQ-"):], stamp) {
		t.Errorf("Expected base-36 timestamp %s in %s", stamp, id)
	}
}
