package queue

import (
	"sync"

	"github.com/CourageAllien/studioportal/internal/logger"
)

// EmailJob represents a pending notification email. The portal only
// supplies the structured fields; rendering and delivery happen in the
// worker's handler.
type EmailJob struct {
	To          string
	Subject     string
	Body        string
	WorkspaceID string
	RequestID   string
}

// JobQueue manages the notification queue with a channel-based system
type JobQueue struct {
	jobs chan *EmailJob
	done chan bool
	mu   sync.Mutex
}

// NewJobQueue creates a new job queue with the specified buffer size
func NewJobQueue(bufferSize int) *JobQueue {
	return &JobQueue{
		jobs: make(chan *EmailJob, bufferSize),
		done: make(chan bool),
	}
}

// Enqueue adds a job to the queue. It never blocks the caller: when the
// buffer is full the job is rejected with ErrQueueFull. The mutex keeps
// the send from racing Close.
func (jq *JobQueue) Enqueue(job *EmailJob) error {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	select {
	case <-jq.done:
		logger.WithFields(map[string]interface{}{
			"to":      job.To,
			"subject": job.Subject,
		}).Warn("Failed to enqueue notification: queue is closed")
		return ErrQueueClosed
	default:
	}

	select {
	case jq.jobs <- job:
		logger.WithFields(map[string]interface{}{
			"to":         job.To,
			"subject":    job.Subject,
			"request_id": job.RequestID,
		}).Debug("Notification job enqueued")
		return nil
	default:
		logger.WithFields(map[string]interface{}{
			"to":      job.To,
			"subject": job.Subject,
		}).Warn("Failed to enqueue notification: queue is full")
		return ErrQueueFull
	}
}

// Jobs returns the underlying channel for job consumption
func (jq *JobQueue) Jobs() <-chan *EmailJob {
	return jq.jobs
}

// Close closes the queue
func (jq *JobQueue) Close() {
	jq.mu.Lock()
	defer jq.mu.Unlock()

	select {
	case <-jq.done:
		return // Already closed
	default:
		close(jq.done)
		close(jq.jobs)
	}
}

// WorkerPool manages multiple workers delivering notification emails
type WorkerPool struct {
	workers int
	jobs    chan *EmailJob
	wg      sync.WaitGroup
	done    chan bool
}

// NewWorkerPool creates a new worker pool draining the given queue
func NewWorkerPool(queue *JobQueue, numWorkers int) *WorkerPool {
	return &WorkerPool{
		workers: numWorkers,
		jobs:    queue.jobs,
		done:    make(chan bool),
	}
}

// Start starts all workers
func (wp *WorkerPool) Start(handler func(*EmailJob) error) {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(handler)
	}
}

// worker delivers jobs from the queue. Delivery failures are logged and
// swallowed: notification is best-effort and the triggering operation has
// already succeeded.
func (wp *WorkerPool) worker(handler func(*EmailJob) error) {
	defer wp.wg.Done()

	for {
		select {
		case job, ok := <-wp.jobs:
			if !ok {
				logger.Debug("Notification worker exiting: jobs channel closed")
				return
			}
			if job == nil {
				continue
			}
			if err := handler(job); err != nil {
				logger.WithFields(map[string]interface{}{
					"to":      job.To,
					"subject": job.Subject,
					"error":   err.Error(),
				}).Error("Failed to deliver notification email")
			} else {
				logger.WithFields(map[string]interface{}{
					"to":      job.To,
					"subject": job.Subject,
				}).Info("Notification email delivered")
			}
		case <-wp.done:
			logger.Debug("Notification worker exiting: stop signal received")
			return
		}
	}
}

// Stop stops all workers
func (wp *WorkerPool) Stop() {
	close(wp.done)
	wp.wg.Wait()
}

// Wait waits for all workers to finish
func (wp *WorkerPool) Wait() {
	wp.wg.Wait()
}
