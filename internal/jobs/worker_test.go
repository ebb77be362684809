package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/scrose/mle-api/pkg/schema"
)

func waitForStatus(t *testing.T, w *Worker, id string, want JobStatus) JobRecord {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rec, ok := w.Get(id); ok && rec.Status == want {
			return rec
		}
		time.Sleep(5 * time.Millisecond)
	}
	rec, _ := w.Get(id)
	t.Fatalf("job %s never reached %s, last state %+v", id, want, rec)
	return JobRecord{}
}

func TestWorkerProcessesJobs(t *testing.T) {
	var mu sync.Mutex
	var processed []string
	handler := HandlerFunc(func(ctx context.Context, job ImageJob) error {
		mu.Lock()
		processed = append(processed, job.Key)
		mu.Unlock()
		return nil
	})
	w := NewWorker(handler, 4, nil)
	w.Start()
	defer w.Stop()

	job, err := w.Enqueue(context.Background(), ImageJob{NodeID: 1, Type: schema.TypeCaptureImages, Key: "versions/img.tif"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	if job.ID == "" {
		t.Fatalf("enqueue did not assign an id")
	}
	rec := waitForStatus(t, w, job.ID, JobCompleted)
	if rec.FinishedAt.IsZero() {
		t.Fatalf("completed job has no finish time")
	}
	mu.Lock()
	defer mu.Unlock()
	if len(processed) != 1 || processed[0] != "versions/img.tif" {
		t.Fatalf("processed = %v", processed)
	}
}

func TestWorkerRecordsFailure(t *testing.T) {
	handler := HandlerFunc(func(ctx context.Context, job ImageJob) error {
		return errors.New("resize failed")
	})
	w := NewWorker(handler, 4, nil)
	w.Start()
	defer w.Stop()

	job, err := w.Enqueue(context.Background(), ImageJob{NodeID: 2, Key: "versions/bad.tif"})
	if err != nil {
		t.Fatalf("enqueue: %v", err)
	}
	rec := waitForStatus(t, w, job.ID, JobFailed)
	if rec.Error != "resize failed" {
		t.Fatalf("failure message = %q", rec.Error)
	}
}

func TestEnqueueNeverBlocks(t *testing.T) {
	// No Start call: nothing drains the queue.
	w := NewWorker(HandlerFunc(func(context.Context, ImageJob) error { return nil }), 1, nil)
	if _, err := w.Enqueue(context.Background(), ImageJob{Key: "a"}); err != nil {
		t.Fatalf("first enqueue: %v", err)
	}
	if _, err := w.Enqueue(context.Background(), ImageJob{Key: "b"}); err == nil {
		t.Fatalf("expected queue-full error")
	}
}

func TestEnqueueAfterStop(t *testing.T) {
	w := NewWorker(HandlerFunc(func(context.Context, ImageJob) error { return nil }), 1, nil)
	w.Start()
	w.Stop()
	if _, err := w.Enqueue(context.Background(), ImageJob{Key: "late"}); err == nil {
		t.Fatalf("expected error after stop")
	}
}

func TestGetUnknownJob(t *testing.T) {
	w := NewWorker(HandlerFunc(func(context.Context, ImageJob) error { return nil }), 1, nil)
	if _, ok := w.Get("missing"); ok {
		t.Fatalf("unknown job reported as present")
	}
}
