package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DataDir      string `long:"data-dir" env:"DATA_DIR" default:"./scraped_data" description:"Directory for persisted post and comment datasets"`
	PlatformsDir string `long:"platforms-dir" env:"PLATFORMS_DIR" default:"./platforms" description:"Directory containing platform override configuration files"`
	SettingsDB   string `long:"settings-db" env:"SETTINGS_DB" default:"./settings.db" description:"Path to the settings database file"`

	// Fetch service configuration
	ApifyToken   string `long:"apify-token" env:"APIFY_TOKEN" description:"Apify API token (falls back to the settings store when empty)"`
	ApifyBaseURL string `long:"apify-base-url" env:"APIFY_BASE_URL" default:"https://api.apify.com" description:"Base URL of the Apify API"`

	// Scrape defaults
	PostLimit    int  `long:"post-limit" env:"POST_LIMIT" default:"200" description:"Default maximum posts to fetch per handle"`
	CommentLimit int  `long:"comment-limit" env:"COMMENT_LIMIT" default:"200" description:"Default maximum comments to fetch per post"`
	Concurrency  int  `long:"concurrency" env:"CONCURRENCY" default:"4" description:"Default number of concurrent comment fetches per handle"`
	SkipComments bool `long:"skip-comments" env:"SKIP_COMMENTS" description:"Skip comment scraping by default"`

	// Application configuration
	Port           string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount    int    `long:"worker-count" env:"WORKER_COUNT" default:"2" description:"Number of background workers for scheduled scrape tasks"`
	ScrapeInterval int    `long:"scrape-interval" env:"SCRAPE_INTERVAL" default:"0" description:"Interval in seconds between scheduled scrapes of registered handles (0 disables scheduling)"`
	APIAccessKey   string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for authentication (optional)"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Social Comb/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"UTC" description:"Timezone for timestamps (e.g., UTC, America/New_York)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DataDir:        raw.DataDir,
		PlatformsDir:   raw.PlatformsDir,
		SettingsDB:     raw.SettingsDB,
		ApifyToken:     raw.ApifyToken,
		ApifyBaseURL:   raw.ApifyBaseURL,
		PostLimit:      raw.PostLimit,
		CommentLimit:   raw.CommentLimit,
		Concurrency:    raw.Concurrency,
		SkipComments:   raw.SkipComments,
		Port:           raw.Port,
		WorkerCount:    raw.WorkerCount,
		ScrapeInterval: raw.ScrapeInterval,
		APIAccessKey:   raw.APIAccessKey,
		UserAgent:      raw.UserAgent,
		Timezone:       raw.Timezone,
		Debug:          raw.Debug,
		Version:        GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
			fmt.Printf("Timezone configured: %s\n", timezone)
		}
	}
	return nil
}
