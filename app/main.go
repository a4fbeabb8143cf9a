package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/lysyi3m/social-comb/app/api"
	"github.com/lysyi3m/social-comb/app/apify"
	"github.com/lysyi3m/social-comb/app/cfg"
	"github.com/lysyi3m/social-comb/app/platform"
	"github.com/lysyi3m/social-comb/app/scraper"
	"github.com/lysyi3m/social-comb/app/settings"
	"github.com/lysyi3m/social-comb/app/store"
	"github.com/lysyi3m/social-comb/app/tasks"
)

func main() {
	godotenv.Load()

	appCfg, err := cfg.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if appCfg == nil {
		// Help was shown, exit gracefully
		return
	}

	logLevel := slog.LevelInfo
	if appCfg.Debug {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))

	slog.Info("Starting Social Comb server", "version", appCfg.Version)

	// Settings database
	db, err := settings.Open(appCfg.SettingsDB)
	if err != nil {
		slog.Error("Failed to open settings database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	version, dirty, err := settings.RunMigrations(db)
	if err != nil {
		slog.Error("Failed to run migrations", "error", err)
		os.Exit(1)
	}
	slog.Info("Settings database ready", "migration_version", version, "dirty", dirty)

	settingsStore := settings.NewStore(db)

	// Platform registry
	registry := platform.NewRegistry(appCfg.PlatformsDir)
	if err := registry.Run(); err != nil {
		slog.Error("Failed to load platform configurations", "error", err)
		os.Exit(1)
	}
	slog.Info("Platform registry loaded", "platforms", registry.Names())

	// Fetch service client
	token := appCfg.ApifyToken
	if token == "" {
		stored, err := settingsStore.Get(settings.KeyApifyToken)
		if err != nil {
			slog.Error("Failed to read fetch service token", "error", err)
			os.Exit(1)
		}
		token = stored
	}
	if token == "" {
		slog.Warn("No fetch service token configured, scrapes will fail until one is set")
	}
	fetcher := apify.NewClient(appCfg.ApifyBaseURL, token, appCfg.UserAgent, nil)

	// Core components
	recordStore := store.New(appCfg.DataDir)
	orchestrator := scraper.NewOrchestrator(fetcher, recordStore, registry)

	// Background scheduler
	scheduler := tasks.NewScheduler(registry, settingsStore, orchestrator)
	scheduler.Start()
	defer scheduler.Stop()

	// HTTP server
	handler := api.NewHandler(registry, settingsStore, orchestrator)
	server := api.NewServer(handler, appCfg.APIAccessKey)

	httpServer := &http.Server{
		Addr:        ":" + appCfg.Port,
		Handler:     server,
		ReadTimeout: 30 * time.Second,
		// Synchronous scrape requests block for the duration of a run, so
		// no write timeout here; the fetch client bounds its own requests.
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	serverErrChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", appCfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErrChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	slog.Info("Social Comb server started successfully")

	select {
	case sig := <-sigChan:
		slog.Info("Received signal", "signal", sig.String())
	case err := <-serverErrChan:
		slog.Error("Server error", "error", err)
	}

	slog.Info("Shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}

	// Scheduler is stopped via defer
	slog.Info("Social Comb server shutdown complete")
}
