package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/ganesh070723/job-change-detector/internal/config"
	"github.com/ganesh070723/job-change-detector/internal/extract"
	"github.com/ganesh070723/job-change-detector/internal/notify"
	"github.com/ganesh070723/job-change-detector/internal/snapshot"
	"github.com/ganesh070723/job-change-detector/internal/watch"
	"github.com/ganesh070723/job-change-detector/pkg/httpclient"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Configuration validation failed: %v", err)
	}

	logger := cfg.NewLogger()
	logger.Info("job change detector starting", "config", cfg.String())

	// Initialize components
	client := httpclient.NewHttpClient(cfg.RequestTimeout)
	extractor := extract.New(cfg.RegionMarker, extract.KeyStrategy(cfg.KeyStrategy))
	store := snapshot.NewFileStore(cfg.StateFile)
	mailer := notify.NewMailer(logger)

	watcher := watch.New(watch.Config{
		URL:      cfg.JobsURL,
		Region:   cfg.RegionMarker,
		Interval: cfg.CheckInterval,
	}, client, extractor, store, mailer, logger)

	// Run until an interrupt signal arrives
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	watcher.Run(ctx)

	logger.Info("shutdown complete")
}
