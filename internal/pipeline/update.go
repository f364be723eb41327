package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
)

// summaryRows caps how many events a human-readable summary lists.
const summaryRows = 10

// SnapshotStore persists the current and "latest known" snapshots.
type SnapshotStore interface {
	SaveSnapshot(events []domain.Event) error
	LoadLatest() ([]domain.Event, error)
	SaveLatest(events []domain.Event) error
}

// Notifier publishes detected changes to an external channel. Implementations
// must tolerate being called with empty slices.
type Notifier interface {
	PublishChanges(ctx context.Context, fresh []domain.Event, changed []domain.ChangedEvent) error
}

// UpdateReport is the outcome of one update cycle.
type UpdateReport struct {
	Bootstrap bool
	New       []domain.Event
	Changed   []domain.ChangedEvent
}

// HasChanges reports whether the cycle found anything new or changed.
func (r UpdateReport) HasChanges() bool {
	return len(r.New) > 0 || len(r.Changed) > 0
}

// Summary renders the report for logs: counts plus a capped per-event listing
// with the changed fields and their old/new values.
func (r UpdateReport) Summary() string {
	var b strings.Builder

	fmt.Fprintf(&b, "new events: %d", len(r.New))
	for i, e := range r.New {
		if i == summaryRows {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.New)-summaryRows)
			break
		}
		fmt.Fprintf(&b, "\n  %s %s %s → %s [%s]", e.GDACSID, e.Country, e.FromDate, e.ToDate, e.AlertLevel)
	}

	fmt.Fprintf(&b, "\nchanged events: %d", len(r.Changed))
	for i, c := range r.Changed {
		if i == summaryRows {
			fmt.Fprintf(&b, "\n  ... and %d more", len(r.Changed)-summaryRows)
			break
		}
		fmt.Fprintf(&b, "\n  %s changed %s", c.GDACSID, strings.Join(c.ChangedFields, ","))
		for _, field := range c.ChangedFields {
			detail := c.Details[field]
			fmt.Fprintf(&b, "\n    %s: %q → %q", field, detail.Old, detail.New)
		}
	}

	return b.String()
}

// Updater re-downloads the database, compares it with the latest persisted
// snapshot, and persists plus announces any difference. The previous and new
// snapshots are independent; neither is mutated.
type Updater struct {
	downloader *Downloader
	store      SnapshotStore
	notifier   Notifier
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
	start      time.Time
	ready      atomic.Bool
}

// NewUpdater creates an Updater. notifier may be nil to disable change
// notifications. start is the beginning of the full download range; the end
// is taken from the clock at each cycle.
func NewUpdater(downloader *Downloader, store SnapshotStore, notifier Notifier, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics, start time.Time) *Updater {
	return &Updater{
		downloader: downloader,
		store:      store,
		notifier:   notifier,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
		start:      start,
	}
}

// CheckReadiness returns nil once at least one update cycle has completed.
func (u *Updater) CheckReadiness(_ context.Context) error {
	if !u.ready.Load() {
		return errors.New("no update cycle has completed yet")
	}
	return nil
}

// RunOnce executes one full update cycle: download, persist the new
// snapshot, diff against the latest, and persist/notify when something
// changed. When no latest snapshot exists the cycle bootstraps it and
// reports every event as new. When nothing changed the latest snapshot is
// left untouched.
func (u *Updater) RunOnce(ctx context.Context) (UpdateReport, error) {
	u.metrics.UpdaterRunning.Set(1)
	defer u.metrics.UpdaterRunning.Set(0)

	end := u.clock.Now().UTC().Truncate(24 * time.Hour)

	fresh, _, err := u.downloader.Run(ctx, u.start, end)
	if err != nil {
		return UpdateReport{}, fmt.Errorf("download: %w", err)
	}

	if err := u.store.SaveSnapshot(fresh); err != nil {
		return UpdateReport{}, fmt.Errorf("save snapshot: %w", err)
	}

	previous, err := u.store.LoadLatest()
	if err != nil {
		return UpdateReport{}, fmt.Errorf("load latest snapshot: %w", err)
	}

	report := UpdateReport{
		Bootstrap: len(previous) == 0,
		New:       domain.NewEvents(previous, fresh),
		Changed:   domain.DetectChanges(previous, fresh),
	}

	u.metrics.NewEvents.Add(float64(len(report.New)))
	u.metrics.ChangedEvents.Add(float64(len(report.Changed)))

	switch {
	case report.Bootstrap:
		u.logger.Info("no previous snapshot, initializing baseline", "events", len(fresh))
		if err := u.store.SaveLatest(fresh); err != nil {
			return report, fmt.Errorf("initialize latest snapshot: %w", err)
		}
	case report.HasChanges():
		u.logger.Info("changes detected", "new", len(report.New), "changed", len(report.Changed))
		u.logger.Info("update summary:\n" + report.Summary())
		if err := u.store.SaveLatest(fresh); err != nil {
			return report, fmt.Errorf("update latest snapshot: %w", err)
		}
		if err := u.notify(ctx, report); err != nil {
			// The snapshot is already persisted; a notification failure
			// must not roll the cycle back.
			u.logger.Error("change notification failed", "error", err)
		}
	default:
		u.logger.Info("no changes detected, latest snapshot left untouched")
	}

	u.metrics.LastUpdateUnix.Set(float64(u.clock.Now().Unix()))
	u.ready.Store(true)
	return report, nil
}

// Run executes update cycles on a fixed interval until the context is
// cancelled. A failing cycle is logged and retried at the next tick.
func (u *Updater) Run(ctx context.Context, interval time.Duration) error {
	u.logger.Info("updater started", "interval", interval)

	if _, err := u.RunOnce(ctx); err != nil && ctx.Err() == nil {
		u.logger.Error("update cycle failed", "error", err)
	}

	ticker := u.clock.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			u.logger.Info("updater stopping", "reason", ctx.Err())
			return nil
		case <-ticker.Chan():
			if _, err := u.RunOnce(ctx); err != nil && ctx.Err() == nil {
				u.logger.Error("update cycle failed", "error", err)
			}
		}
	}
}

func (u *Updater) notify(ctx context.Context, report UpdateReport) error {
	if u.notifier == nil {
		return nil
	}
	return u.notifier.PublishChanges(ctx, report.New, report.Changed)
}
