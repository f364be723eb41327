// Command aoi downloads the area-of-interest geometry for every event in a
// snapshot into one GeoJSON file per GDACS_ID. Files already on disk are
// skipped, so interrupted runs can be resumed.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/gdacs-flood-db/internal/adapter/gdacs"
	"github.com/floodwatch/gdacs-flood-db/internal/adapter/snapshot"
	"github.com/floodwatch/gdacs-flood-db/internal/config"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func main() {
	inFlag := flag.String("in", "", "snapshot to read, defaults to the corrected snapshot when present")
	dirFlag := flag.String("dir", "", "directory for AOI files, defaults to AOI_DIR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	clock := clockwork.NewRealClock()
	store := snapshot.FileStore{Dir: cfg.DataDir}

	in := *inFlag
	if in == "" {
		// Prefer the corrected snapshot so reviewed fixes flow into the AOIs.
		in = store.CorrectedPath()
		if _, err := os.Stat(in); err != nil {
			in = store.SnapshotPath()
		}
	}
	dir := *dirFlag
	if dir == "" {
		dir = cfg.AOIDir
	}

	events, err := snapshot.LoadSnapshot(in)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}
	if len(events) == 0 {
		logger.Info("snapshot empty, nothing to download", "path", in)
		return
	}

	client := gdacs.NewClient(cfg.BaseURL, cfg.FetchTimeout, cfg.FetchRetries, logger)
	downloader := pipeline.NewAOIDownloader(client, dir, cfg.AOIDelay, clock, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := downloader.Run(ctx, events)
	if err != nil {
		logger.Warn("aoi download interrupted", "error", err, "downloaded", stats.Downloaded)
		os.Exit(1)
	}
}
