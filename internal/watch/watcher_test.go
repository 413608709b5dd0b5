package watch

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ganesh070723/job-change-detector/internal/models"
)

type fakeFetcher struct {
	body  []byte
	err   error
	calls atomic.Int32
}

func (f *fakeFetcher) Get(context.Context, string) ([]byte, error) {
	f.calls.Add(1)
	return f.body, f.err
}

type fakeExtractor struct {
	jobs models.Jobs
	err  error
}

func (f *fakeExtractor) Extract([]byte, string) (models.Jobs, error) {
	return f.jobs, f.err
}

type fakeStore struct {
	loaded  models.Jobs
	loadErr error
	saved   models.Jobs
	saves   int
}

func (f *fakeStore) Load() (models.Jobs, error) {
	if f.loaded == nil {
		return models.Jobs{}, f.loadErr
	}
	return f.loaded, f.loadErr
}

func (f *fakeStore) Save(jobs models.Jobs) error {
	f.saved = jobs
	f.saves++
	return nil
}

type fakeNotifier struct {
	subjects []string
	bodies   []string
}

func (f *fakeNotifier) Notify(subject, body string) {
	f.subjects = append(f.subjects, subject)
	f.bodies = append(f.bodies, body)
}

func newTestWatcher(fetcher *fakeFetcher, extractor *fakeExtractor, store *fakeStore, notifier *fakeNotifier) *Watcher {
	cfg := Config{
		URL:      "https://jobs.example.com/teams/germany",
		Region:   "Rheinland",
		Interval: 5 * time.Millisecond,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return New(cfg, fetcher, extractor, store, notifier, logger)
}

func TestCheckOnce_AdditionNotifiesAndPersists(t *testing.T) {
	store := &fakeStore{loaded: models.Jobs{"A": "url1"}}
	extractor := &fakeExtractor{jobs: models.Jobs{"A": "url1", "B": "url2"}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{body: []byte("<html></html>")}, extractor, store, notifier)

	w.CheckOnce(context.Background())

	require.Len(t, notifier.bodies, 1)
	assert.Equal(t, "[Job Watch] Rheinland update", notifier.subjects[0])
	assert.Contains(t, notifier.bodies[0], "New:")
	assert.Contains(t, notifier.bodies[0], "• B (url2)")
	assert.Equal(t, models.Jobs{"A": "url1", "B": "url2"}, store.saved)
}

func TestCheckOnce_NoChangeIsSilent(t *testing.T) {
	store := &fakeStore{loaded: models.Jobs{"A": "url1"}}
	extractor := &fakeExtractor{jobs: models.Jobs{"A": "url1"}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{body: []byte("<html></html>")}, extractor, store, notifier)

	w.CheckOnce(context.Background())

	assert.Empty(t, notifier.bodies)
	assert.Zero(t, store.saves)
}

func TestCheckOnce_MissingRegionReportsAllRemoved(t *testing.T) {
	store := &fakeStore{loaded: models.Jobs{"A": "url1", "B": "url2"}}
	extractor := &fakeExtractor{jobs: models.Jobs{}, err: errors.New("extract: region heading not found")}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{body: []byte("<html></html>")}, extractor, store, notifier)

	w.CheckOnce(context.Background())

	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "Removed:")
	assert.Contains(t, notifier.bodies[0], "• A (url1)")
	assert.Contains(t, notifier.bodies[0], "• B (url2)")
	assert.NotContains(t, notifier.bodies[0], "New:")
	assert.Empty(t, store.saved)
	assert.Equal(t, 1, store.saves)
}

func TestCheckOnce_FetchFailureWithEmptySnapshotIsSilent(t *testing.T) {
	store := &fakeStore{}
	notifier := &fakeNotifier{}
	fetcher := &fakeFetcher{err: errors.New("connection refused")}
	w := newTestWatcher(fetcher, &fakeExtractor{}, store, notifier)

	w.CheckOnce(context.Background())

	assert.Empty(t, notifier.bodies)
	assert.Zero(t, store.saves)
}

func TestCheckOnce_CorruptSnapshotTreatedAsNoPriorState(t *testing.T) {
	store := &fakeStore{loadErr: errors.New("snapshot: decode previous_jobs.json: unexpected end of JSON input")}
	extractor := &fakeExtractor{jobs: models.Jobs{"A": "url1"}}
	notifier := &fakeNotifier{}
	w := newTestWatcher(&fakeFetcher{body: []byte("<html></html>")}, extractor, store, notifier)

	w.CheckOnce(context.Background())

	require.Len(t, notifier.bodies, 1)
	assert.Contains(t, notifier.bodies[0], "• A (url1)")
	assert.Equal(t, models.Jobs{"A": "url1"}, store.saved)
}

func TestRun_StopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte("<html></html>")}
	w := newTestWatcher(fetcher, &fakeExtractor{jobs: models.Jobs{}}, &fakeStore{}, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		w.Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("watcher did not stop after cancellation")
	}

	// initial check plus at least one tick
	assert.GreaterOrEqual(t, fetcher.calls.Load(), int32(2))
}

func TestRun_AlreadyCancelledDoesNoWork(t *testing.T) {
	fetcher := &fakeFetcher{body: []byte("<html></html>")}
	w := newTestWatcher(fetcher, &fakeExtractor{jobs: models.Jobs{}}, &fakeStore{}, &fakeNotifier{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	w.Run(ctx)
	assert.Zero(t, fetcher.calls.Load())
}
