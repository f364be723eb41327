// Package pipeline orchestrates the batch stages of the flood database:
// windowed download, snapshot comparison and update, validation review, and
// override correction. Stages are independent transforms over the same
// snapshot schema and can run in any order after ingestion.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
)

// WindowFetcher retrieves the raw features for one date window. A persistent
// upstream failure surfaces as an empty result, not an error.
type WindowFetcher interface {
	FetchWindow(ctx context.Context, w domain.Window) ([]domain.RawFeature, error)
}

// Downloader runs the fetch-normalize-dedupe loop over monthly windows and
// produces one duplicate-free snapshot.
type Downloader struct {
	fetcher       WindowFetcher
	normalizer    *domain.Normalizer
	logger        *slog.Logger
	metrics       *observability.Metrics
	pageThreshold int
}

// NewDownloader creates a Downloader. pageThreshold is the per-window result
// count at which truncation is suspected.
func NewDownloader(fetcher WindowFetcher, normalizer *domain.Normalizer, logger *slog.Logger, metrics *observability.Metrics, pageThreshold int) *Downloader {
	return &Downloader{
		fetcher:       fetcher,
		normalizer:    normalizer,
		logger:        logger,
		metrics:       metrics,
		pageThreshold: pageThreshold,
	}
}

// DownloadStats summarizes one download run.
type DownloadStats struct {
	Windows    int
	Fetched    int
	Unusable   int
	Duplicates int
	Unique     int
}

// Run downloads all flood events in [start, end), normalizes and deduplicates
// them, and returns the snapshot in feed arrival order. Unusable records are
// skipped and counted, never fatal. Stopping early via ctx yields a valid
// partial snapshot covering a prefix of the range.
func (d *Downloader) Run(ctx context.Context, start, end time.Time) ([]domain.Event, DownloadStats, error) {
	var (
		stats  DownloadStats
		events []domain.Event
		dedupe = domain.NewDeduplicator()
	)

	for w := range domain.MonthWindows(start, end) {
		if err := ctx.Err(); err != nil {
			return events, stats, err
		}

		fetchStart := time.Now()
		features, err := d.fetcher.FetchWindow(ctx, w)
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return events, stats, err
			}
			d.logger.Warn("window fetch failed, treating as empty",
				"from", w.Start.Format("2006-01-02"),
				"to", w.End.Format("2006-01-02"),
				"error", err,
			)
			features = nil
		}
		d.metrics.FetchDuration.Observe(time.Since(fetchStart).Seconds())
		d.metrics.WindowsFetched.Inc()
		d.metrics.EventsFetched.Add(float64(len(features)))
		d.metrics.WindowEventCount.Observe(float64(len(features)))

		stats.Windows++
		stats.Fetched += len(features)

		if len(features) >= d.pageThreshold {
			// A saturated page means the server may have truncated the
			// window's results.
			d.metrics.TruncatedWindows.Inc()
			d.logger.Warn("window returned a saturated page, results may be truncated",
				"from", w.Start.Format("2006-01-02"),
				"to", w.End.Format("2006-01-02"),
				"count", len(features),
				"threshold", d.pageThreshold,
			)
		}

		for _, f := range features {
			e, err := d.normalizer.Normalize(f)
			if err != nil {
				stats.Unusable++
				d.metrics.MalformedRecords.Inc()
				d.logger.Warn("skipping unusable feature", "error", err)
				continue
			}
			if !dedupe.Observe(e.GDACSID) {
				stats.Duplicates++
				d.metrics.DuplicatesDropped.Inc()
				continue
			}
			events = append(events, e)
			d.metrics.EventsNormalized.Inc()
		}

		d.logger.Info("window processed",
			"from", w.Start.Format("2006-01-02"),
			"to", w.End.Format("2006-01-02"),
			"events", len(features),
		)
	}

	stats.Unique = len(events)
	d.logger.Info("download finished",
		"windows", stats.Windows,
		"fetched", stats.Fetched,
		"unique", stats.Unique,
		"duplicates", stats.Duplicates,
		"unusable", stats.Unusable,
	)
	return events, stats, nil
}
