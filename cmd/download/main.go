// Command download builds the full historical flood database: it queries the
// GDACS feed in monthly windows from the configured start date until today,
// normalizes and deduplicates the results, and writes the snapshot CSV.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/gdacs-flood-db/internal/adapter/gdacs"
	"github.com/floodwatch/gdacs-flood-db/internal/adapter/snapshot"
	"github.com/floodwatch/gdacs-flood-db/internal/config"
	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/geo"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func main() {
	startFlag := flag.String("start", "", "start date (YYYY-MM-DD), overrides DOWNLOAD_START_DATE")
	endFlag := flag.String("end", "", "end date exclusive (YYYY-MM-DD), defaults to today")
	outFlag := flag.String("out", "", "output snapshot path, defaults to <DATA_DIR>/"+snapshot.SnapshotFile)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	start := cfg.StartDate
	if *startFlag != "" {
		if start, err = parseDate(*startFlag); err != nil {
			logger.Error("invalid -start", "error", err)
			os.Exit(1)
		}
	}

	end := clock.Now().UTC().Truncate(24 * time.Hour)
	if *endFlag != "" {
		if end, err = parseDate(*endFlag); err != nil {
			logger.Error("invalid -end", "error", err)
			os.Exit(1)
		}
	}

	out := *outFlag
	if out == "" {
		out = snapshot.FileStore{Dir: cfg.DataDir}.SnapshotPath()
	}

	mode := domain.GeoMode(cfg.GeoMode)
	countries, continents, tiles, err := geo.BuildLocators(mode, cfg.CountriesPath, cfg.GridDir)
	if err != nil {
		logger.Error("failed to load reference layers", "error", err)
		os.Exit(1)
	}

	normalizer := domain.NewNormalizer(mode, countries, continents, tiles)
	client := gdacs.NewClient(cfg.BaseURL, cfg.FetchTimeout, cfg.FetchRetries, logger)
	downloader := pipeline.NewDownloader(client, normalizer, logger, metrics, cfg.PageSizeThreshold)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	events, stats, err := downloader.Run(ctx, start, end)
	if err != nil {
		// A cancelled run still holds a valid partial snapshot; persist it.
		logger.Warn("download interrupted, persisting partial snapshot", "error", err)
	}

	if err := snapshot.WriteSnapshot(out, events); err != nil {
		logger.Error("failed to write snapshot", "error", err)
		os.Exit(1)
	}

	logger.Info("snapshot written",
		"path", out,
		"events", len(events),
		"windows", stats.Windows,
	)
}

func parseDate(s string) (time.Time, error) {
	return time.Parse("2006-01-02", s)
}
