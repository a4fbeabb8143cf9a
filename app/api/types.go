package api

import (
	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/scraper"
	"github.com/lysyi3m/social-comb/app/settings"
)

type Handler struct {
	registry      *platform.Registry
	settingsStore *settings.Store
	orchestrator  *scraper.Orchestrator
}

// ScrapeRequest is the invocation surface exposed to callers. Omitted
// limits fall back to the configured defaults; omitted handles fall back to
// the platform's registered handles.
type ScrapeRequest struct {
	Platform       string   `json:"platform" binding:"required"`
	Handles        []string `json:"handles"`
	Start          string   `json:"start"`
	End            string   `json:"end"`
	PostLimit      int      `json:"post_limit"`
	CommentLimit   int      `json:"comment_limit"`
	ScrapeComments *bool    `json:"scrape_comments"`
	Concurrency    int      `json:"concurrency"`
}

type HandleRequest struct {
	Platform string `json:"platform" binding:"required"`
	Handle   string `json:"handle" binding:"required"`
}

// SettingRequest updates one settings key, e.g. the fetch service token. An
// empty value clears the key.
type SettingRequest struct {
	Key   string `json:"key" binding:"required"`
	Value string `json:"value"`
}
