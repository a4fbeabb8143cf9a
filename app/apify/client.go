package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/lysyi3m/social-comb/app/platform"
)

// Client talks to the Apify-style scraping backend: it submits an actor
// run, polls the run until it reaches a terminal state, then pages through
// the run's dataset items. Each fetch is a blocking remote operation with
// unbounded latency; the caller bounds it via ctx. The client never retries
// on its own (retry policy belongs to the caller).
type Client struct {
	baseURL    string
	token      string
	userAgent  string
	httpClient *http.Client
	limiter    *rate.Limiter
	opts       clientOptions
}

func NewClient(baseURL, token, userAgent string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 60 * time.Second}
	}
	opts := clientOptions{
		pollInterval: 5 * time.Second,
		pageSize:     500,
		requestRate:  2,
	}
	return &Client{
		baseURL:    baseURL,
		token:      token,
		userAgent:  userAgent,
		httpClient: httpClient,
		limiter:    rate.NewLimiter(rate.Limit(opts.requestRate), 1),
		opts:       opts,
	}
}

// FetchPosts runs the platform's posts actor for one handle and returns the
// collected records.
func (c *Client) FetchPosts(ctx context.Context, pcfg *platform.Config, handle string, start, end time.Time, limit int) ([]Item, error) {
	input := pcfg.PostsInput(handle, start, end, limit)
	return c.runActor(ctx, pcfg.PostsActor, input, limit)
}

// FetchComments runs the platform's comments actor for one post reference
// and returns the collected records.
func (c *Client) FetchComments(ctx context.Context, pcfg *platform.Config, postRef string, start time.Time, limit int) ([]Item, error) {
	input := pcfg.CommentsInput(postRef, start, limit)
	return c.runActor(ctx, pcfg.CommentsActor, input, limit)
}

func (c *Client) runActor(ctx context.Context, actorID string, input map[string]any, limit int) ([]Item, error) {
	run, err := c.startRun(ctx, actorID, input)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to start actor %s: %v", ErrServiceUnavailable, actorID, err)
	}

	datasetID, err := c.waitForRun(ctx, run)
	if err != nil {
		return nil, fmt.Errorf("%w: actor %s run %s: %v", ErrServiceUnavailable, actorID, run, err)
	}

	items, err := c.datasetItems(ctx, datasetID, limit)
	if err != nil {
		return nil, fmt.Errorf("%w: actor %s dataset %s: %v", ErrServiceUnavailable, actorID, datasetID, err)
	}

	return items, nil
}

func (c *Client) startRun(ctx context.Context, actorID string, input map[string]any) (string, error) {
	body, err := json.Marshal(input)
	if err != nil {
		return "", fmt.Errorf("failed to encode actor input: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v2/acts/%s/runs", c.baseURL, url.PathEscape(actorID))
	data, err := c.request(ctx, http.MethodPost, endpoint, nil, body)
	if err != nil {
		return "", err
	}

	var resp runResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", fmt.Errorf("failed to decode run response: %w", err)
	}
	if resp.Data.ID == "" {
		return "", fmt.Errorf("run response carries no run id")
	}

	slog.Debug("Actor run started", "actor", actorID, "run", resp.Data.ID)
	return resp.Data.ID, nil
}

func (c *Client) waitForRun(ctx context.Context, runID string) (string, error) {
	endpoint := fmt.Sprintf("%s/v2/actor-runs/%s", c.baseURL, url.PathEscape(runID))

	ticker := time.NewTicker(c.opts.pollInterval)
	defer ticker.Stop()

	for {
		data, err := c.request(ctx, http.MethodGet, endpoint, nil, nil)
		if err != nil {
			return "", err
		}

		var resp runResponse
		if err := json.Unmarshal(data, &resp); err != nil {
			return "", fmt.Errorf("failed to decode run status: %w", err)
		}

		switch resp.Data.Status {
		case runStatusSucceeded:
			if resp.Data.DefaultDatasetID == "" {
				return "", fmt.Errorf("run finished without a dataset")
			}
			return resp.Data.DefaultDatasetID, nil
		case runStatusFailed, runStatusAborted, runStatusTimedOut:
			return "", fmt.Errorf("run ended with status %s", resp.Data.Status)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-ticker.C:
		}
	}
}

func (c *Client) datasetItems(ctx context.Context, datasetID string, limit int) ([]Item, error) {
	endpoint := fmt.Sprintf("%s/v2/datasets/%s/items", c.baseURL, url.PathEscape(datasetID))

	var items []Item
	offset := 0
	for {
		pageSize := c.opts.pageSize
		if limit > 0 && limit-len(items) < pageSize {
			pageSize = limit - len(items)
		}
		if pageSize <= 0 {
			break
		}

		query := url.Values{
			"format": {"json"},
			"clean":  {"true"},
			"offset": {strconv.Itoa(offset)},
			"limit":  {strconv.Itoa(pageSize)},
		}
		data, err := c.request(ctx, http.MethodGet, endpoint, query, nil)
		if err != nil {
			return nil, err
		}

		var page []Item
		if err := json.Unmarshal(data, &page); err != nil {
			return nil, fmt.Errorf("failed to decode dataset page: %w", err)
		}

		items = append(items, page...)
		if len(page) < pageSize {
			break
		}
		offset += len(page)
	}

	return items, nil
}

func (c *Client) request(ctx context.Context, method, endpoint string, query url.Values, body []byte) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	if query == nil {
		query = url.Values{}
	}
	query.Set("token", c.token)

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint+"?"+query.Encode(), reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}
