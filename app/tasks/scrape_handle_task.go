package tasks

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/scraper"
)

type ScrapeHandleTask struct {
	Task
	PlatformConfig *platform.Config
	Options        scraper.Options
	orchestrator   *scraper.Orchestrator
}

func NewScrapeHandleTask(pcfg *platform.Config, handle string, opts scraper.Options, orchestrator *scraper.Orchestrator) *ScrapeHandleTask {
	return &ScrapeHandleTask{
		Task:           NewTask(TaskTypeScrapeHandle, pcfg.Name, handle),
		PlatformConfig: pcfg,
		Options:        opts,
		orchestrator:   orchestrator,
	}
}

func (t *ScrapeHandleTask) Execute(ctx context.Context) error {

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	res := t.orchestrator.ScrapeHandle(ctx, t.PlatformConfig, t.Handle, t.Options)
	if res.Status == scraper.StatusFailed {
		return fmt.Errorf("failed to scrape handle: %w", res.Err)
	}

	slog.Info("Task completed",
		"type", "ScrapeHandle",
		"platform", t.Platform,
		"handle", t.Handle,
		"duration", t.GetDuration(),
		"status", string(res.Status),
		"posts", res.Posts.Len(),
		"comments", res.Comments.Len(),
		"failed_posts", len(res.CommentFailures))

	return nil
}
