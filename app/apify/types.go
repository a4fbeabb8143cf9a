package apify

import (
	"errors"
	"time"
)

// Item is one loosely typed record returned by an actor run's dataset. The
// schema varies by platform and is not validated here; only the identifier
// columns matter downstream.
type Item map[string]any

// ErrServiceUnavailable marks a failed fetch service call. Callers decide
// the blast radius: fatal to a handle for a posts fetch, fatal to a single
// post for a comments fetch. Never fatal to the run.
var ErrServiceUnavailable = errors.New("fetch service unavailable")

// Run state reported by the fetch service.
const (
	runStatusSucceeded = "SUCCEEDED"
	runStatusFailed    = "FAILED"
	runStatusAborted   = "ABORTED"
	runStatusTimedOut  = "TIMED-OUT"
)

type runResponse struct {
	Data struct {
		ID               string `json:"id"`
		Status           string `json:"status"`
		DefaultDatasetID string `json:"defaultDatasetId"`
	} `json:"data"`
}

type clientOptions struct {
	pollInterval time.Duration
	pageSize     int
	requestRate  float64
}
