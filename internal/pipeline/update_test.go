package pipeline_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

// --- mocks ---

type mockStore struct {
	latest        []domain.Event
	savedSnapshot []domain.Event
	savedLatest   []domain.Event
	latestSaved   bool
	loadErr       error
}

func (m *mockStore) SaveSnapshot(events []domain.Event) error {
	m.savedSnapshot = events
	return nil
}

func (m *mockStore) LoadLatest() ([]domain.Event, error) {
	return m.latest, m.loadErr
}

func (m *mockStore) SaveLatest(events []domain.Event) error {
	m.savedLatest = events
	m.latestSaved = true
	return nil
}

type mockNotifier struct {
	fresh   []domain.Event
	changed []domain.ChangedEvent
	called  bool
	err     error
}

func (m *mockNotifier) PublishChanges(_ context.Context, fresh []domain.Event, changed []domain.ChangedEvent) error {
	m.called = true
	m.fresh = fresh
	m.changed = changed
	return m.err
}

func newUpdater(fetcher pipeline.WindowFetcher, store *mockStore, notifier pipeline.Notifier, clock clockwork.Clock) *pipeline.Updater {
	start := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)
	return pipeline.NewUpdater(newDownloader(fetcher, 100), store, notifier, clock, slog.Default(), newTestMetrics(), start)
}

func fakeClockAt(day int) clockwork.Clock {
	return clockwork.NewFakeClockAt(time.Date(2024, time.July, day, 14, 30, 0, 0, time.UTC))
}

// --- tests ---

func TestUpdater_RunOnce_Bootstrap(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("1", "Philippines"), rawFeature("2", "Chile")},
	}}
	store := &mockStore{}
	notifier := &mockNotifier{}

	u := newUpdater(fetcher, store, notifier, fakeClockAt(15))

	report, err := u.RunOnce(context.Background())
	require.NoError(t, err)

	assert.True(t, report.Bootstrap)
	assert.Len(t, report.New, 2)
	assert.Empty(t, report.Changed)
	assert.Len(t, store.savedSnapshot, 2)
	assert.True(t, store.latestSaved)
	// Bootstrap establishes the baseline quietly.
	assert.False(t, notifier.called)
	assert.NoError(t, u.CheckReadiness(context.Background()))
}

func TestUpdater_RunOnce_ChangesDetected(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("1", "Philippines"), rawFeature("3", "Indonesia")},
	}}

	prev, err := domain.NewNormalizer(domain.GeoModeDeclared, nil, nil, nil).Normalize(rawFeature("1", "Philippines"))
	require.NoError(t, err)
	prev.ToDate = "2024-06-30T00:00:00"

	store := &mockStore{latest: []domain.Event{prev}}
	notifier := &mockNotifier{}

	u := newUpdater(fetcher, store, notifier, fakeClockAt(15))

	report, err := u.RunOnce(context.Background())
	require.NoError(t, err)

	assert.False(t, report.Bootstrap)
	require.Len(t, report.New, 1)
	assert.Equal(t, "FL-3", report.New[0].GDACSID)
	require.Len(t, report.Changed, 1)
	assert.Equal(t, "FL-1", report.Changed[0].GDACSID)
	assert.Equal(t, []string{"todate"}, report.Changed[0].ChangedFields)

	assert.True(t, store.latestSaved)
	assert.True(t, notifier.called)
	assert.Len(t, notifier.fresh, 1)
	assert.Len(t, notifier.changed, 1)
}

func TestUpdater_RunOnce_NoChanges(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("1", "Philippines")},
	}}

	prev, err := domain.NewNormalizer(domain.GeoModeDeclared, nil, nil, nil).Normalize(rawFeature("1", "Philippines"))
	require.NoError(t, err)

	store := &mockStore{latest: []domain.Event{prev}}
	notifier := &mockNotifier{}

	u := newUpdater(fetcher, store, notifier, fakeClockAt(15))

	report, err := u.RunOnce(context.Background())
	require.NoError(t, err)

	assert.False(t, report.HasChanges())
	// The working snapshot is refreshed but the baseline stays untouched.
	assert.Len(t, store.savedSnapshot, 1)
	assert.False(t, store.latestSaved)
	assert.False(t, notifier.called)
}

func TestUpdater_RunOnce_NotificationFailureIsNotFatal(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("9", "Brazil")},
	}}
	store := &mockStore{latest: []domain.Event{{GDACSID: "FL-1"}}}
	notifier := &mockNotifier{err: errors.New("broker down")}

	u := newUpdater(fetcher, store, notifier, fakeClockAt(15))

	_, err := u.RunOnce(context.Background())
	require.NoError(t, err)
	assert.True(t, store.latestSaved)
}

func TestUpdater_RunOnce_NilNotifier(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("9", "Brazil")},
	}}
	store := &mockStore{latest: []domain.Event{{GDACSID: "FL-1"}}}

	u := newUpdater(fetcher, store, nil, fakeClockAt(15))

	_, err := u.RunOnce(context.Background())
	assert.NoError(t, err)
}

func TestUpdater_RunOnce_LoadLatestError(t *testing.T) {
	fetcher := &mockFetcher{batches: [][]domain.RawFeature{
		{rawFeature("1", "Philippines")},
	}}
	store := &mockStore{loadErr: errors.New("disk unhappy")}

	u := newUpdater(fetcher, store, nil, fakeClockAt(15))

	_, err := u.RunOnce(context.Background())
	require.Error(t, err)
	assert.Error(t, u.CheckReadiness(context.Background()))
}

func TestUpdater_RunOnce_WindowEndIsTruncatedToday(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{}

	u := newUpdater(fetcher, store, nil, fakeClockAt(15))

	_, err := u.RunOnce(context.Background())
	require.NoError(t, err)

	require.NotEmpty(t, fetcher.windows)
	last := fetcher.windows[len(fetcher.windows)-1]
	assert.Equal(t, time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC), last.End)
}

func TestUpdateReport_Summary(t *testing.T) {
	report := pipeline.UpdateReport{
		New: []domain.Event{
			{GDACSID: "FL-3", Country: "Indonesia", FromDate: "2024-07-01T00:00:00", ToDate: "2024-07-02T00:00:00", AlertLevel: "Green"},
		},
		Changed: []domain.ChangedEvent{
			{
				Event:         domain.Event{GDACSID: "FL-1"},
				ChangedFields: []string{"todate"},
				Details: map[string]domain.FieldChange{
					"todate": {Old: "2024-06-30T00:00:00", New: "2024-07-02T00:00:00"},
				},
			},
		},
	}

	summary := report.Summary()
	assert.Contains(t, summary, "new events: 1")
	assert.Contains(t, summary, "FL-3 Indonesia")
	assert.Contains(t, summary, "changed events: 1")
	assert.Contains(t, summary, "FL-1 changed todate")
	assert.Contains(t, summary, `"2024-06-30T00:00:00" → "2024-07-02T00:00:00"`)
}

func TestUpdateReport_SummaryCapsListing(t *testing.T) {
	report := pipeline.UpdateReport{}
	for i := 0; i < 15; i++ {
		report.New = append(report.New, domain.Event{GDACSID: "FL-" + strings.Repeat("x", i+1)})
	}

	summary := report.Summary()
	assert.Contains(t, summary, "new events: 15")
	assert.Contains(t, summary, "... and 5 more")
}

func TestUpdater_Run_StopsOnContextCancel(t *testing.T) {
	fetcher := &mockFetcher{}
	store := &mockStore{}

	u := newUpdater(fetcher, store, nil, clockwork.NewFakeClockAt(time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC)))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- u.Run(ctx, time.Hour)
	}()

	// Give the initial cycle a moment, then stop the loop.
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("updater did not stop after cancellation")
	}
}
