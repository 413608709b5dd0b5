// Package watch runs the fetch-extract-diff-notify cycle on a fixed
// interval until the context is cancelled.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/ganesh070723/job-change-detector/internal/diff"
	"github.com/ganesh070723/job-change-detector/internal/models"
	"github.com/ganesh070723/job-change-detector/internal/notify"
	"github.com/ganesh070723/job-change-detector/internal/snapshot"
)

// Fetcher retrieves the raw page body.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Extractor turns a page body into the region's job mapping.
type Extractor interface {
	Extract(body []byte, pageURL string) (models.Jobs, error)
}

// Notifier delivers a change summary. Implementations swallow their
// own failures; the loop never sees them.
type Notifier interface {
	Notify(subject, body string)
}

// Config holds the watcher's fixed parameters.
type Config struct {
	URL      string
	Region   string
	Interval time.Duration
}

// Watcher orchestrates one monitoring loop. It is strictly sequential:
// one cycle at a time, no overlap.
type Watcher struct {
	cfg       Config
	fetcher   Fetcher
	extractor Extractor
	store     snapshot.Store
	notifier  Notifier
	logger    *slog.Logger
}

// New creates a Watcher from its collaborators.
func New(cfg Config, fetcher Fetcher, extractor Extractor, store snapshot.Store, notifier Notifier, logger *slog.Logger) *Watcher {
	return &Watcher{
		cfg:       cfg,
		fetcher:   fetcher,
		extractor: extractor,
		store:     store,
		notifier:  notifier,
		logger:    logger,
	}
}

// Run checks once immediately, then on every tick until ctx is done.
// Cancellation is observed between cycles only, so a snapshot write is
// never interrupted.
func (w *Watcher) Run(ctx context.Context) {
	w.logger.Info("starting monitor",
		"url", w.cfg.URL,
		"region", w.cfg.Region,
		"interval", w.cfg.Interval,
	)

	if ctx.Err() != nil {
		return
	}
	w.CheckOnce(ctx)

	ticker := time.NewTicker(w.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("monitor stopped")
			return
		case <-ticker.C:
			w.CheckOnce(ctx)
		}
	}
}

// CheckOnce performs a single cycle: reload the snapshot from disk,
// fetch and extract the current mapping, diff, and on change notify
// and persist. The on-disk file is the source of truth; no mapping is
// cached across cycles.
func (w *Watcher) CheckOnce(ctx context.Context) {
	previous, err := w.store.Load()
	if err != nil {
		w.logger.Warn("failed to load snapshot, assuming no prior state", "error", err)
	}

	current := w.fetchJobs(ctx)
	changes := diff.Diff(previous, current)
	if changes.Empty() {
		w.logger.Debug("no change detected")
		return
	}

	w.logger.Info("change detected",
		"added", len(changes.Added),
		"removed", len(changes.Removed),
	)

	body := notify.RenderReport(changes, previous, current)
	w.notifier.Notify(notify.Subject(w.cfg.Region), body)

	if err := w.store.Save(current); err != nil {
		w.logger.Warn("failed to save snapshot", "error", err)
	}
}

// fetchJobs degrades every fetch or extraction failure to an empty
// mapping with a log entry. Nothing escalates past the cycle.
func (w *Watcher) fetchJobs(ctx context.Context) models.Jobs {
	body, err := w.fetcher.Get(ctx, w.cfg.URL)
	if err != nil {
		w.logger.Error("fetch failed", "url", w.cfg.URL, "error", err)
		return models.Jobs{}
	}

	jobs, err := w.extractor.Extract(body, w.cfg.URL)
	if err != nil {
		w.logger.Warn("extraction incomplete", "error", err)
	}
	return jobs
}
