package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// GeometryFetcher downloads the AOI geometry document behind a geometry URL.
type GeometryFetcher interface {
	FetchGeometry(ctx context.Context, geometryURL string) (json.RawMessage, error)
}

// AOIDownloader fetches each event's area-of-interest geometry into one JSON
// file per GDACS_ID, skipping files that already exist so re-runs only fill
// the gaps.
type AOIDownloader struct {
	fetcher GeometryFetcher
	dir     string
	delay   time.Duration
	clock   clockwork.Clock
	logger  *slog.Logger
}

// NewAOIDownloader creates an AOIDownloader writing into dir, pausing delay
// between requests to stay polite to the feed.
func NewAOIDownloader(fetcher GeometryFetcher, dir string, delay time.Duration, clock clockwork.Clock, logger *slog.Logger) *AOIDownloader {
	return &AOIDownloader{
		fetcher: fetcher,
		dir:     dir,
		delay:   delay,
		clock:   clock,
		logger:  logger,
	}
}

// AOIStats summarizes one AOI download run.
type AOIStats struct {
	Total      int
	Downloaded int
	Skipped    int
	Failed     int
}

// Run downloads the AOI geometry for every event carrying a geometry URL.
// Individual failures are logged and counted; only context cancellation
// aborts the run.
func (a *AOIDownloader) Run(ctx context.Context, events []domain.Event) (AOIStats, error) {
	if err := os.MkdirAll(a.dir, 0o755); err != nil {
		return AOIStats{}, fmt.Errorf("create aoi dir: %w", err)
	}

	stats := AOIStats{Total: len(events)}

	for _, e := range events {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		if e.GDACSID == "" || e.GeometryURL == "" {
			stats.Failed++
			continue
		}

		path := filepath.Join(a.dir, e.GDACSID+".json")
		if _, err := os.Stat(path); err == nil {
			stats.Skipped++
			continue
		}

		data, err := a.fetcher.FetchGeometry(ctx, e.GeometryURL)
		if err != nil {
			stats.Failed++
			a.logger.Warn("aoi download failed", "gdacs_id", e.GDACSID, "error", err)
			continue
		}

		if err := os.WriteFile(path, data, 0o644); err != nil {
			stats.Failed++
			a.logger.Warn("aoi write failed", "gdacs_id", e.GDACSID, "error", err)
			continue
		}

		stats.Downloaded++
		a.clock.Sleep(a.delay)
	}

	a.logger.Info("aoi download finished",
		"total", stats.Total,
		"downloaded", stats.Downloaded,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
	)
	return stats, nil
}
