package services

import (
	"fmt"

	"github.com/CourageAllien/studioportal/internal/logger"
	"github.com/CourageAllien/studioportal/internal/models"
	"github.com/CourageAllien/studioportal/internal/queue"
)

// Notifier turns portal events into notification jobs. Enqueue failures
// are logged and swallowed: notification is best-effort and must never
// fail the operation that triggered it.
type Notifier struct {
	queue *queue.JobQueue
}

// NewNotifier creates a new notifier feeding the given queue
func NewNotifier(q *queue.JobQueue) *Notifier {
	return &Notifier{queue: q}
}

// WorkspaceCreated sends the client their portal access code
func (n *Notifier) WorkspaceCreated(workspace *models.Workspace) {
	body := fmt.Sprintf(
		"Hi %s,\n\nYour %s client portal is ready. Sign in with access code %s to follow your build requests.\n",
		workspace.ClientName, workspace.CompanyName, workspace.AccessCode,
	)
	n.enqueue(&queue.EmailJob{
		To:          workspace.ClientEmail,
		Subject:     "Your client portal is ready",
		Body:        body,
		WorkspaceID: workspace.Id,
	})
}

// StatusChanged notifies the client about a request-status milestone
func (n *Notifier) StatusChanged(workspace *models.Workspace, request *models.BuildRequest, message string) {
	body := fmt.Sprintf(
		"Hi %s,\n\nRequest %s is now %s.\n",
		workspace.ClientName, request.Id, request.Status.PortalName(),
	)
	if message != "" {
		body += fmt.Sprintf("\n%s\n", message)
	}
	n.enqueue(&queue.EmailJob{
		To:          workspace.ClientEmail,
		Subject:     fmt.Sprintf("Update on request %s", request.Id),
		Body:        body,
		WorkspaceID: workspace.Id,
		RequestID:   request.Id,
	})
}

// ReviewReceived confirms a review submission back to the client
func (n *Notifier) ReviewReceived(workspace *models.Workspace, request *models.BuildRequest, approved bool) {
	outcome := "your requested changes are on their way to the team"
	if approved {
		outcome = "the team is preparing final delivery"
	}
	body := fmt.Sprintf(
		"Hi %s,\n\nThanks for reviewing request %s - %s.\n",
		workspace.ClientName, request.Id, outcome,
	)
	n.enqueue(&queue.EmailJob{
		To:          workspace.ClientEmail,
		Subject:     fmt.Sprintf("Review received for request %s", request.Id),
		Body:        body,
		WorkspaceID: workspace.Id,
		RequestID:   request.Id,
	})
}

func (n *Notifier) enqueue(job *queue.EmailJob) {
	if n == nil || n.queue == nil {
		return
	}
	if err := n.queue.Enqueue(job); err != nil {
		logger.WithFields(map[string]interface{}{
			"to":      job.To,
			"subject": job.Subject,
			"error":   err.Error(),
		}).Warn("Dropping notification: could not enqueue")
	}
}
