package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrQueueClosed is returned when publishing to a closed queue.
var ErrQueueClosed = errors.New("ingestion queue is closed")

// ParseJob is the unit of background work: one uploaded statement file
// awaiting parsing. The batch id is the only handle shared with the caller;
// all progress is reported through the store's status updates.
type ParseJob struct {
	BatchID  uuid.UUID
	UserID   uuid.UUID
	Path     string // temporary file holding the upload
	Filetype string
	Filename string
}

// JobHandler processes one parse job to a terminal batch state.
type JobHandler func(ctx context.Context, job ParseJob)

// Queue is an in-memory job queue backed by a channel and a fixed worker
// pool. It is safe for concurrent use and suitable for single-instance
// deployments; a broker-backed implementation can replace it without
// touching the pipeline.
type Queue struct {
	jobs      chan ParseJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

// NewQueue creates a queue; bufferSize bounds how many uploads can be
// pending before Publish blocks.
func NewQueue(bufferSize int) *Queue {
	return &Queue{
		jobs:      make(chan ParseJob, bufferSize),
		closeChan: make(chan struct{}),
	}
}

// Publish enqueues a parse job.
func (q *Queue) Publish(ctx context.Context, job ParseJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.jobs <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return ErrQueueClosed
	}
}

// Start launches workerCount workers consuming jobs until the queue closes
// or the context is canceled.
func (q *Queue) Start(ctx context.Context, workerCount int, handler JobHandler) {
	if workerCount < 1 {
		workerCount = 1
	}
	for i := 0; i < workerCount; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
}

func (q *Queue) worker(ctx context.Context, handler JobHandler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobs:
			handler(ctx, job)
		}
	}
}

// Close stops the workers and waits for in-flight jobs to finish.
func (q *Queue) Close() {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	q.wg.Wait()
}
