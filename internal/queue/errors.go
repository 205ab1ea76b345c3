package queue

import "errors"

// ErrQueueClosed is returned when trying to enqueue to a closed queue
var ErrQueueClosed = errors.New("queue is closed")

// ErrQueueFull is returned when the queue buffer has no room for the job
var ErrQueueFull = errors.New("queue is full")
