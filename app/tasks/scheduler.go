package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/social-comb/app/cfg"
	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/scraper"
	"github.com/lysyi3m/social-comb/app/settings"
)

var _ TaskSchedulerInterface = (*Scheduler)(nil)

// Scheduled scrapes look back this far from the moment they are enqueued.
// Incremental merge makes the overlap with prior runs cheap.
const scrapeLookback = 7 * 24 * time.Hour

// Per-task ceiling; a handle with many uncovered posts can block on the
// fetch service for a long time.
const taskTimeout = 30 * time.Minute

type Scheduler struct {
	registry      *platform.Registry
	settingsStore *settings.Store
	orchestrator  *scraper.Orchestrator
	interval      time.Duration
	workerCount   int
	defaultOpts   scraper.Options
	ctx           context.Context
	cancel        context.CancelFunc
	wg            sync.WaitGroup
	taskQueue     chan TaskInterface
}

func NewScheduler(registry *platform.Registry, settingsStore *settings.Store,
	orchestrator *scraper.Orchestrator) TaskSchedulerInterface {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := cfg.Get()

	return &Scheduler{
		registry:      registry,
		settingsStore: settingsStore,
		orchestrator:  orchestrator,
		interval:      time.Duration(cfg.ScrapeInterval) * time.Second,
		workerCount:   cfg.WorkerCount,
		defaultOpts: scraper.Options{
			PostLimit:      cfg.PostLimit,
			CommentLimit:   cfg.CommentLimit,
			ScrapeComments: !cfg.SkipComments,
			Concurrency:    cfg.Concurrency,
		},
		ctx:       ctx,
		cancel:    cancel,
		taskQueue: make(chan TaskInterface, 300),
	}
}

func (s *Scheduler) Start() {
	for i := 0; i < s.workerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	if s.interval <= 0 {
		slog.Info("Periodic scraping disabled (scrape interval not set)")
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.enqueueTasks()
			}
		}
	}()
}

// Stop cancels the scheduler and waits for workers and pending retry
// re-enqueues to finish. The queue is left open; workers exit via ctx and
// EnqueueTask rejects once the context is canceled.
func (s *Scheduler) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) EnqueueTask(task TaskInterface) error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	select {
	case s.taskQueue <- task:
		return nil
	default:
		return fmt.Errorf("task queue is full")
	}
}

func (s *Scheduler) enqueueTasks() {
	now := time.Now()
	opts := s.defaultOpts
	opts.Start = now.Add(-scrapeLookback)
	opts.End = now

	for _, pcfg := range s.registry.GetEnabled() {
		handles, err := s.settingsStore.Handles(pcfg.Name)
		if err != nil {
			slog.Warn("Failed to list handles, skipping platform", "platform", pcfg.Name, "error", err)
			continue
		}
		if len(handles) == 0 {
			slog.Debug("No handles registered", "platform", pcfg.Name)
			continue
		}

		for _, handle := range handles {
			task := NewScrapeHandleTask(pcfg, handle, opts, s.orchestrator)
			if err := s.EnqueueTask(task); err != nil {
				slog.Warn("Failed to enqueue ScrapeHandleTask", "platform", pcfg.Name, "handle", handle, "error", err)
			}
		}
	}
}

func (s *Scheduler) worker(id int) {
	defer s.wg.Done()

	for {
		select {
		case task := <-s.taskQueue:
			s.executeTask(id, task)

		case <-s.ctx.Done():
			return
		}
	}
}

func (s *Scheduler) executeTask(workerID int, task TaskInterface) {
	task.Start()

	taskCtx, cancel := context.WithTimeout(s.ctx, taskTimeout)
	defer cancel()

	err := task.Execute(taskCtx)

	if err != nil {
		slog.Error("Worker task execution failed", "worker_id", workerID, "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", err)

		if task.CanRetry() {
			task.IncrementRetryCount()
			retryDelay := time.Duration(1<<uint(task.GetRetryCount()-1)) * time.Second
			if retryDelay > 30*time.Second {
				retryDelay = 30 * time.Second
			}

			slog.Warn("Task retry scheduled", "type", string(task.GetType()), "platform", task.GetPlatform(), "handle", task.GetHandle(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "delay", retryDelay.String())

			// Tracked in the WaitGroup so Stop does not close the queue
			// while a re-enqueue is pending.
			s.wg.Add(1)
			go func() {
				defer s.wg.Done()

				select {
				case <-s.ctx.Done():
					slog.Debug("Scheduler stopped, skipping task retry", "type", string(task.GetType()), "id", task.GetID())
					return
				case <-time.After(retryDelay):
				}

				if retryErr := s.EnqueueTask(task); retryErr != nil {
					slog.Error("Failed to re-enqueue task for retry", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "error", retryErr)
				}
			}()
		} else {
			slog.Error("Task failed after maximum retries", "type", string(task.GetType()), "id", task.GetID(), "retry_count", task.GetRetryCount(), "max_retries", task.GetMaxRetries(), "last_error", err)
		}
	}
}
