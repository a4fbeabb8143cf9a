package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/lysyi3m/social-comb/app/dataset"
	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/store"
)

// Orchestrator drives the incremental fetch-merge-dedup cycle: load
// history, fetch fresh posts, fetch comments only for posts not already
// covered, reconcile against history and persist. Handles are processed
// sequentially; concurrency lives inside the comment phase.
type Orchestrator struct {
	fetcher  Fetcher
	store    RecordStore
	registry *platform.Registry
}

func NewOrchestrator(fetcher Fetcher, recordStore RecordStore, registry *platform.Registry) *Orchestrator {
	return &Orchestrator{
		fetcher:  fetcher,
		store:    recordStore,
		registry: registry,
	}
}

// Scrape processes every handle for one platform and returns the
// per-handle results plus cumulative posts/comments collections
// deduplicated across handles. A failed handle is reported in its result
// and excluded from the cumulative collections; it never aborts the run.
func (o *Orchestrator) Scrape(ctx context.Context, platformName string, handles []string, opts Options) (*PlatformResult, error) {
	pcfg, err := o.registry.Get(platformName)
	if err != nil {
		return nil, err
	}

	result := &PlatformResult{
		Platform: platformName,
		Posts:    dataset.New(),
		Comments: dataset.New(),
	}

	for _, handle := range handles {
		hr := o.ScrapeHandle(ctx, pcfg, handle, opts)
		result.Handles = append(result.Handles, hr)

		if hr.Status == StatusFailed {
			continue
		}
		result.Posts.Concat(hr.Posts)
		result.Comments.Concat(hr.Comments)
	}

	// Handles can surface the same records (shares, cross-posts), so the
	// cumulative collections are deduplicated once more.
	if removed, applied := result.Posts.Dedupe(pcfg.PostIDColumn); applied && removed > 0 {
		slog.Debug("Cross-handle post duplicates removed", "platform", platformName, "removed", removed)
	}
	if removed, applied := result.Comments.Dedupe(pcfg.CommentIDColumn); applied && removed > 0 {
		slog.Debug("Cross-handle comment duplicates removed", "platform", platformName, "removed", removed)
	}

	return result, nil
}

// ScrapeHandle runs the full cycle for one (platform, handle) pair.
func (o *Orchestrator) ScrapeHandle(ctx context.Context, pcfg *platform.Config, handle string, opts Options) HandleResult {
	res := HandleResult{
		Platform: pcfg.Name,
		Handle:   handle,
		Posts:    dataset.New(),
		Comments: dataset.New(),
	}

	commentHistory := o.store.LoadHistory(pcfg.Name, handle, store.KindComments)
	covered := commentHistory.IDSet(PostIDColumn)

	items, err := o.fetcher.FetchPosts(ctx, pcfg, handle, opts.Start, opts.End, opts.PostLimit)
	if err != nil {
		// Fatal for this handle only; the caller continues with the rest.
		slog.Error("Post fetch failed", "platform", pcfg.Name, "handle", handle, "error", err)
		res.Status = StatusFailed
		res.Err = err
		return res
	}

	fresh := dataset.New()
	for _, item := range items {
		fresh.AppendRaw(item)
	}
	fresh.SetConstant(HandleColumn, handle)

	// Posts are persisted before the comment phase starts, so a crash or
	// failure during comment scraping still leaves the fetched posts
	// durable and the next run resumable.
	posts := o.store.LoadHistory(pcfg.Name, handle, store.KindPosts)
	posts.Concat(fresh)
	removed, applied := posts.Dedupe(pcfg.PostIDColumn)
	if !applied {
		res.Warnings = append(res.Warnings, fmt.Sprintf("post id column '%s' missing, deduplication skipped", pcfg.PostIDColumn))
		slog.Warn("Post id column missing, deduplication skipped", "platform", pcfg.Name, "handle", handle, "column", pcfg.PostIDColumn)
	}
	res.Posts = posts
	res.PostDupes = removed

	if err := o.store.Persist(pcfg.Name, handle, store.KindPosts, posts); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("post persistence failed: %v", err))
		slog.Error("Post persistence failed", "platform", pcfg.Name, "handle", handle, "error", err)
	}

	if fresh.Len() == 0 {
		res.Status = StatusEmpty
		res.Comments = commentHistory
		slog.Info("Handle scrape completed", "platform", pcfg.Name, "handle", handle, "status", res.Status,
			"posts", posts.Len(), "comments", commentHistory.Len())
		return res
	}
	res.Status = StatusSuccess

	if !opts.ScrapeComments {
		slog.Info("Handle scrape completed", "platform", pcfg.Name, "handle", handle, "status", res.Status,
			"posts", posts.Len(), "new_posts", fresh.Len()-removed, "comments", "skipped")
		return res
	}

	refs := o.needsComments(pcfg, fresh, covered)

	batches, failures := fetchCommentBatches(ctx, o.fetcher, pcfg, opts.Start, refs, opts.CommentLimit, opts.Concurrency)
	res.CommentFailures = failures

	byID := postIndex(pcfg, fresh)
	comments := commentHistory
	for _, batch := range batches {
		tagBatch(pcfg, batch, byID, handle)
		comments.Concat(batch.Records)
	}

	removed, applied = comments.Dedupe(pcfg.CommentIDColumn)
	if !applied {
		res.Warnings = append(res.Warnings, fmt.Sprintf("comment id column '%s' missing, deduplication skipped", pcfg.CommentIDColumn))
		slog.Warn("Comment id column missing, deduplication skipped", "platform", pcfg.Name, "handle", handle, "column", pcfg.CommentIDColumn)
	}
	res.Comments = comments
	res.CommentDupes = removed

	if err := o.store.Persist(pcfg.Name, handle, store.KindComments, comments); err != nil {
		res.Warnings = append(res.Warnings, fmt.Sprintf("comment persistence failed: %v", err))
		slog.Error("Comment persistence failed", "platform", pcfg.Name, "handle", handle, "error", err)
	}

	slog.Info("Handle scrape completed", "platform", pcfg.Name, "handle", handle, "status", res.Status,
		"posts", posts.Len(), "comments", comments.Len(),
		"scheduled", len(refs), "failed_posts", len(failures),
		"post_dupes", res.PostDupes, "comment_dupes", res.CommentDupes)

	return res
}

// needsComments computes the fetch-need set: freshly fetched posts whose
// identifiers are not yet covered by the comment history. Posts covered in
// any prior run are skipped, which is what makes re-runs cheap.
func (o *Orchestrator) needsComments(pcfg *platform.Config, fresh *dataset.Dataset, covered map[string]struct{}) []PostRef {
	var refs []PostRef
	seen := make(map[string]struct{})

	for _, row := range fresh.Rows() {
		id := row[pcfg.PostIDColumn]
		if id == "" {
			continue
		}
		if _, ok := covered[id]; ok {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		if pcfg.ReplyCountFilter && pcfg.ReplyCountColumn != "" {
			// Skip only posts explicitly reporting zero replies; an absent
			// or unparseable count is treated as unknown.
			if n, err := strconv.Atoi(row[pcfg.ReplyCountColumn]); err == nil && n == 0 {
				continue
			}
		}

		seen[id] = struct{}{}
		refs = append(refs, PostRef{ID: id, Ref: row[pcfg.PostRefColumn]})
	}

	return refs
}

func postIndex(pcfg *platform.Config, posts *dataset.Dataset) map[string]dataset.Record {
	byID := make(map[string]dataset.Record, posts.Len())
	for _, row := range posts.Rows() {
		if id := row[pcfg.PostIDColumn]; id != "" {
			if _, ok := byID[id]; !ok {
				byID[id] = row
			}
		}
	}
	return byID
}

// tagBatch joins the parent post's context onto a comment batch. When the
// originating post is not in the current in-memory set the batch is kept
// with empty context, not dropped.
func tagBatch(pcfg *platform.Config, batch CommentBatch, byID map[string]dataset.Record, handle string) {
	var text, author string
	if post, ok := byID[batch.Post.ID]; ok {
		if pcfg.PostTextColumn != "" {
			text = post[pcfg.PostTextColumn]
		}
		if pcfg.PostAuthorColumn != "" {
			author = post[pcfg.PostAuthorColumn]
		}
	}

	batch.Records.SetConstant(PostTextColumn, text)
	batch.Records.SetConstant(PostAuthorColumn, author)
	batch.Records.SetConstant(HandleColumn, handle)
}
