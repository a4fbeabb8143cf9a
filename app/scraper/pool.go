package scraper

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/lysyi3m/social-comb/app/dataset"
	"github.com/lysyi3m/social-comb/app/platform"
)

// fetchCommentBatches runs comment fetches for the given post refs under a
// bounded worker pool: at most concurrency fetches are in flight at any
// time, backfilled as each completes. Result order is not guaranteed.
//
// Each successful batch is tagged with its originating post ref and id,
// because the underlying fetch has no memory of which post it was
// answering. A failed fetch is terminal for that post within this run and
// isolated from the rest of the batch.
//
// When ctx is canceled no new fetches are dispatched; in-flight fetches are
// allowed to finish.
func fetchCommentBatches(ctx context.Context, fetcher Fetcher, pcfg *platform.Config, start time.Time, refs []PostRef, limit, concurrency int) ([]CommentBatch, []CommentFailure) {
	if len(refs) == 0 {
		return nil, nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(refs) {
		concurrency = len(refs)
	}

	type outcome struct {
		batch   *CommentBatch
		failure *CommentFailure
	}

	jobs := make(chan PostRef)
	results := make(chan outcome)

	var wg sync.WaitGroup
	for i := 0; i < concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ref := range jobs {
				items, err := fetcher.FetchComments(ctx, pcfg, ref.Ref, start, limit)
				if err != nil {
					slog.Warn("Comment fetch failed", "platform", pcfg.Name, "post", ref.ID, "error", err)
					results <- outcome{failure: &CommentFailure{Post: ref, Err: err}}
					continue
				}

				ds := dataset.New()
				for _, item := range items {
					ds.AppendRaw(item)
				}
				ds.SetConstant(pcfg.CommentRefColumn, ref.Ref)
				ds.SetConstant(PostIDColumn, ref.ID)

				results <- outcome{batch: &CommentBatch{Post: ref, Records: ds}}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, ref := range refs {
			select {
			case jobs <- ref:
			case <-ctx.Done():
				slog.Debug("Comment dispatch aborted", "platform", pcfg.Name, "remaining", len(refs))
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var batches []CommentBatch
	var failures []CommentFailure
	for out := range results {
		if out.batch != nil {
			batches = append(batches, *out.batch)
		} else {
			failures = append(failures, *out.failure)
		}
	}

	return batches, failures
}
