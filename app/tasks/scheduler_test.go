package tasks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

type failingTask struct {
	Task
	executions int32
}

func (t *failingTask) Execute(ctx context.Context) error {
	atomic.AddInt32(&t.executions, 1)
	return errors.New("boom")
}

func newTestScheduler(workers int) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		workerCount: workers,
		ctx:         ctx,
		cancel:      cancel,
		taskQueue:   make(chan TaskInterface, 10),
	}
}

func TestScheduler_StopDuringRetryWait(t *testing.T) {
	s := newTestScheduler(1)
	s.Start()

	task := &failingTask{Task: NewTask(TaskTypeScrapeHandle, "twitter", "acme")}
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	// Let the first execution fail and the retry backoff begin
	time.Sleep(100 * time.Millisecond)

	// Stop must wait out the pending re-enqueue and return promptly, not
	// race it against closing the queue
	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return while a retry was pending")
	}

	if n := atomic.LoadInt32(&task.executions); n != 1 {
		t.Errorf("Expected exactly 1 execution before stop, got %d", n)
	}
}

func TestScheduler_RetriesFailedTask(t *testing.T) {
	s := newTestScheduler(1)
	s.Start()
	defer s.Stop()

	task := &failingTask{Task: NewTask(TaskTypeScrapeHandle, "twitter", "acme")}
	if err := s.EnqueueTask(task); err != nil {
		t.Fatalf("EnqueueTask failed: %v", err)
	}

	// First retry is re-enqueued after a 1s backoff
	time.Sleep(1500 * time.Millisecond)

	if n := atomic.LoadInt32(&task.executions); n < 2 {
		t.Errorf("Expected the task to be retried, got %d executions", n)
	}
}

func TestScheduler_EnqueueAfterStop(t *testing.T) {
	s := newTestScheduler(1)
	s.Start()
	s.Stop()

	task := &failingTask{Task: NewTask(TaskTypeScrapeHandle, "twitter", "acme")}
	if err := s.EnqueueTask(task); err == nil {
		t.Error("Expected an error when enqueueing after stop")
	}
}
