// Package jobs runs image-processing work (resizing, derivative versions)
// asynchronously. The engine enqueues a job reference after a file entity is
// persisted and never waits on completion.
package jobs

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/scrose/mle-api/pkg/nodes"
	"github.com/scrose/mle-api/pkg/schema"
)

// ImageJob references one stored file to process.
type ImageJob struct {
	ID     string      `json:"id"`
	NodeID int64       `json:"node_id"`
	Type   schema.Type `json:"type"`
	Key    string      `json:"key"`
}

// JobStatus tracks a job through the worker.
type JobStatus string

// Worker job states.
const (
	JobQueued    JobStatus = "queued"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// JobRecord is the observable state of an enqueued job.
type JobRecord struct {
	Job        ImageJob  `json:"job"`
	Status     JobStatus `json:"status"`
	Error      string    `json:"error,omitempty"`
	EnqueuedAt time.Time `json:"enqueued_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
}

// Enqueuer is the engine-facing queue surface.
type Enqueuer interface {
	Enqueue(ctx context.Context, job ImageJob) (ImageJob, error)
}

// Handler processes one job. Retries, if any, are the handler's policy;
// the worker itself never retries.
type Handler interface {
	Process(ctx context.Context, job ImageJob) error
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc func(ctx context.Context, job ImageJob) error

// Process implements Handler.
func (f HandlerFunc) Process(ctx context.Context, job ImageJob) error { return f(ctx, job) }

// Worker executes image jobs from a bounded queue on a single goroutine per
// Start call.
type Worker struct {
	handler Handler
	log     nodes.Logger

	queue chan ImageJob
	mu    sync.RWMutex
	jobs  map[string]*JobRecord

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWorker constructs a worker with the given queue capacity.
func NewWorker(handler Handler, capacity int, log nodes.Logger) *Worker {
	if capacity <= 0 {
		capacity = 64
	}
	if log == nil {
		log = nodes.NopLogger{}
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		handler: handler,
		log:     log,
		queue:   make(chan ImageJob, capacity),
		jobs:    make(map[string]*JobRecord),
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Start launches the processing loop.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop drains no further jobs and waits for the in-flight one to finish.
func (w *Worker) Stop() {
	w.cancel()
	w.wg.Wait()
}

// Enqueue assigns the job an id and queues it. It fails when the queue is
// full or the worker is stopped rather than blocking the caller's request.
func (w *Worker) Enqueue(ctx context.Context, job ImageJob) (ImageJob, error) {
	if err := w.ctx.Err(); err != nil {
		return ImageJob{}, fmt.Errorf("job queue stopped")
	}
	if err := ctx.Err(); err != nil {
		return ImageJob{}, err
	}
	if job.ID == "" {
		job.ID = newJobID()
	}
	rec := &JobRecord{Job: job, Status: JobQueued, EnqueuedAt: time.Now().UTC()}
	w.mu.Lock()
	w.jobs[job.ID] = rec
	w.mu.Unlock()

	select {
	case w.queue <- job:
		return job, nil
	default:
		w.setStatus(job.ID, JobFailed, "queue full")
		return ImageJob{}, fmt.Errorf("job queue full")
	}
}

// Get returns the record for a job id.
func (w *Worker) Get(id string) (JobRecord, bool) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	rec, ok := w.jobs[id]
	if !ok {
		return JobRecord{}, false
	}
	return *rec, true
}

func (w *Worker) loop() {
	defer w.wg.Done()
	for {
		select {
		case <-w.ctx.Done():
			return
		case job := <-w.queue:
			w.setStatus(job.ID, JobRunning, "")
			err := w.handler.Process(w.ctx, job)
			if err != nil {
				w.log.Warn("image job failed", "job", job.ID, "key", job.Key, "error", err)
				w.setStatus(job.ID, JobFailed, err.Error())
				continue
			}
			w.setStatus(job.ID, JobCompleted, "")
		}
	}
}

func (w *Worker) setStatus(id string, status JobStatus, errMsg string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	rec, ok := w.jobs[id]
	if !ok {
		return
	}
	rec.Status = status
	rec.Error = errMsg
	if status == JobCompleted || status == JobFailed {
		rec.FinishedAt = time.Now().UTC()
	}
}

func newJobID() string {
	buf := make([]byte, 8)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("job-%d", time.Now().UnixNano())
	}
	return hex.EncodeToString(buf)
}
