package scraper

import (
	"context"
	"time"

	"github.com/lysyi3m/social-comb/app/apify"
	"github.com/lysyi3m/social-comb/app/dataset"
	"github.com/lysyi3m/social-comb/app/platform"
)

// Columns the engine stamps onto records regardless of platform schema.
const (
	HandleColumn     = "handle"
	PostIDColumn     = "post_id"
	PostTextColumn   = "post_text"
	PostAuthorColumn = "post_author"
)

// Fetcher is the capability the engine needs from the fetch service. Each
// call blocks until the remote run finishes and must not retry internally.
type Fetcher interface {
	FetchPosts(ctx context.Context, pcfg *platform.Config, handle string, start, end time.Time, limit int) ([]apify.Item, error)
	FetchComments(ctx context.Context, pcfg *platform.Config, postRef string, start time.Time, limit int) ([]apify.Item, error)
}

// RecordStore loads and persists the on-disk dataset history.
type RecordStore interface {
	LoadHistory(platformName, handle, kind string) *dataset.Dataset
	Persist(platformName, handle, kind string, ds *dataset.Dataset) error
}

// Options are the per-run scrape parameters.
type Options struct {
	Start          time.Time
	End            time.Time
	PostLimit      int
	CommentLimit   int
	ScrapeComments bool
	Concurrency    int
}

// Status discriminates a failed handle from one that legitimately matched
// nothing. Callers must not treat a failure as zero results.
type Status string

const (
	StatusSuccess Status = "success"
	StatusEmpty   Status = "empty"
	StatusFailed  Status = "failed"
)

// PostRef addresses one post for a comment fetch: the stable identifier
// plus the reference the fetch service answers to.
type PostRef struct {
	ID  string
	Ref string
}

// CommentBatch is the tagged result of one successful comment fetch.
type CommentBatch struct {
	Post    PostRef
	Records *dataset.Dataset
}

// CommentFailure records one isolated per-post comment fetch failure.
type CommentFailure struct {
	Post PostRef
	Err  error
}

// HandleResult is the reconciled outcome for one (platform, handle) pair.
// On persistence failure the in-memory datasets are still populated so no
// fetched work is silently lost; the failure is surfaced via Warnings.
type HandleResult struct {
	Platform string
	Handle   string
	Status   Status
	Err      error

	Posts    *dataset.Dataset
	Comments *dataset.Dataset

	PostDupes    int
	CommentDupes int

	CommentFailures []CommentFailure
	Warnings        []string
}

// PlatformResult aggregates every handle processed for one platform in a
// run, with the cumulative collections deduplicated across handles.
type PlatformResult struct {
	Platform string
	Posts    *dataset.Dataset
	Comments *dataset.Dataset
	Handles  []HandleResult
}
