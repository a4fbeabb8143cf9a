package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lysyi3m/social-comb/app/cfg"
	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/scraper"
	"github.com/lysyi3m/social-comb/app/settings"
)

const dateLayout = "2006-01-02"

func NewHandler(registry *platform.Registry, settingsStore *settings.Store,
	orchestrator *scraper.Orchestrator) *Handler {
	return &Handler{
		registry:      registry,
		settingsStore: settingsStore,
		orchestrator:  orchestrator,
	}
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
		"platforms": h.registry.Count(),
	}

	if handles, err := h.settingsStore.AllHandles(); err == nil {
		total := 0
		for _, hs := range handles {
			total += len(hs)
		}
		health["registered_handles"] = total
	}

	c.JSON(http.StatusOK, health)
}

func (h *Handler) GetStats(c *gin.Context) {
	stats := map[string]interface{}{
		"version":   cfg.Get().Version,
		"platforms": h.registry.Names(),
	}

	if handles, err := h.settingsStore.AllHandles(); err == nil {
		perPlatform := make(map[string]int, len(handles))
		for name, hs := range handles {
			perPlatform[name] = len(hs)
		}
		stats["handles"] = perPlatform
	}

	c.JSON(http.StatusOK, stats)
}

// APIScrape runs a scrape synchronously and returns the per-handle
// reconciliation summary. A failed handle is reported as failed, which is
// distinct from an empty result.
func (h *Handler) APIScrape(c *gin.Context) {
	var req ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if _, err := h.registry.Get(req.Platform); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown platform", "message": err.Error()})
		return
	}

	opts, err := h.scrapeOptions(req)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date range", "message": err.Error()})
		return
	}

	handles := req.Handles
	if len(handles) == 0 {
		registered, err := h.settingsStore.Handles(req.Platform)
		if err != nil {
			slog.Error("Failed to list handles", "platform", req.Platform, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list registered handles"})
			return
		}
		handles = registered
	}
	if len(handles) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No handles to scrape", "message": "Provide handles in the request or register them first"})
		return
	}

	result, err := h.orchestrator.Scrape(c.Request.Context(), req.Platform, handles, opts)
	if err != nil {
		slog.Error("Scrape failed", "platform", req.Platform, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Scrape failed", "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, scrapeResponse(result))
}

func (h *Handler) scrapeOptions(req ScrapeRequest) (scraper.Options, error) {
	appCfg := cfg.Get()

	opts := scraper.Options{
		PostLimit:      req.PostLimit,
		CommentLimit:   req.CommentLimit,
		ScrapeComments: !appCfg.SkipComments,
		Concurrency:    req.Concurrency,
	}
	if opts.PostLimit <= 0 {
		opts.PostLimit = appCfg.PostLimit
	}
	if opts.CommentLimit <= 0 {
		opts.CommentLimit = appCfg.CommentLimit
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = appCfg.Concurrency
	}
	if req.ScrapeComments != nil {
		opts.ScrapeComments = *req.ScrapeComments
	}

	opts.End = time.Now()
	opts.Start = opts.End.AddDate(0, 0, -7)
	if req.End != "" {
		end, err := time.Parse(dateLayout, req.End)
		if err != nil {
			return opts, err
		}
		opts.End = end
	}
	if req.Start != "" {
		start, err := time.Parse(dateLayout, req.Start)
		if err != nil {
			return opts, err
		}
		opts.Start = start
	}

	return opts, nil
}

func scrapeResponse(result *scraper.PlatformResult) map[string]interface{} {
	handleResults := make([]map[string]interface{}, 0, len(result.Handles))
	for _, hr := range result.Handles {
		entry := map[string]interface{}{
			"handle":   hr.Handle,
			"status":   string(hr.Status),
			"posts":    hr.Posts.Len(),
			"comments": hr.Comments.Len(),
		}
		if hr.Err != nil {
			entry["error"] = hr.Err.Error()
		}
		if len(hr.Warnings) > 0 {
			entry["warnings"] = hr.Warnings
		}
		if len(hr.CommentFailures) > 0 {
			failed := make([]map[string]string, 0, len(hr.CommentFailures))
			for _, f := range hr.CommentFailures {
				failed = append(failed, map[string]string{
					"post_id": f.Post.ID,
					"error":   f.Err.Error(),
				})
			}
			entry["failed_comment_fetches"] = failed
		}
		handleResults = append(handleResults, entry)
	}

	return map[string]interface{}{
		"platform":       result.Platform,
		"total_posts":    result.Posts.Len(),
		"total_comments": result.Comments.Len(),
		"handles":        handleResults,
	}
}

func (h *Handler) APIListPlatforms(c *gin.Context) {
	platforms := make([]map[string]interface{}, 0)
	for _, name := range h.registry.Names() {
		pcfg, err := h.registry.Get(name)
		if err != nil {
			continue
		}
		platforms = append(platforms, map[string]interface{}{
			"name":               pcfg.Name,
			"enabled":            pcfg.Enabled,
			"post_id_column":     pcfg.PostIDColumn,
			"comment_id_column":  pcfg.CommentIDColumn,
			"reply_count_filter": pcfg.ReplyCountFilter,
		})
	}

	c.JSON(http.StatusOK, map[string]interface{}{
		"platforms": platforms,
		"total":     len(platforms),
	})
}

func (h *Handler) APIListHandles(c *gin.Context) {
	if name := c.Query("platform"); name != "" {
		handles, err := h.settingsStore.Handles(name)
		if err != nil {
			slog.Error("Failed to list handles", "platform", name, "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list handles"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"platform": name, "handles": handles, "total": len(handles)})
		return
	}

	handles, err := h.settingsStore.AllHandles()
	if err != nil {
		slog.Error("Failed to list handles", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list handles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"handles": handles})
}

func (h *Handler) APIAddHandle(c *gin.Context) {
	var req HandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if _, err := h.registry.Get(req.Platform); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown platform", "message": err.Error()})
		return
	}

	added, err := h.settingsStore.AddHandle(req.Platform, req.Handle)
	if err != nil {
		slog.Error("Failed to add handle", "platform", req.Platform, "handle", req.Handle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add handle"})
		return
	}
	if !added {
		c.JSON(http.StatusConflict, gin.H{"error": "Handle already registered"})
		return
	}

	slog.Info("Handle registered", "platform", req.Platform, "handle", req.Handle)
	c.JSON(http.StatusCreated, gin.H{"platform": req.Platform, "handle": req.Handle})
}

// APISetSetting stores a settings value, most notably the fetch service
// token under the "apify_token" key. Values are never echoed back.
func (h *Handler) APISetSetting(c *gin.Context) {
	var req SettingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	if err := h.settingsStore.Set(req.Key, req.Value); err != nil {
		slog.Error("Failed to store setting", "key", req.Key, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store setting"})
		return
	}

	slog.Info("Setting updated", "key", req.Key)
	c.JSON(http.StatusOK, gin.H{"key": req.Key})
}

func (h *Handler) APIRemoveHandle(c *gin.Context) {
	var req HandleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "message": err.Error()})
		return
	}

	removed, err := h.settingsStore.RemoveHandle(req.Platform, req.Handle)
	if err != nil {
		slog.Error("Failed to remove handle", "platform", req.Platform, "handle", req.Handle, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove handle"})
		return
	}
	if !removed {
		c.JSON(http.StatusNotFound, gin.H{"error": "Handle not registered"})
		return
	}

	slog.Info("Handle removed", "platform", req.Platform, "handle", req.Handle)
	c.JSON(http.StatusOK, gin.H{"platform": req.Platform, "handle": req.Handle})
}
