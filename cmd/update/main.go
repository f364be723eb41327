// Command update runs the daily maintenance cycle: re-download the flood
// database, diff it against the latest persisted snapshot, persist and
// announce any difference. With UPDATE_INTERVAL set it runs as a daemon with
// health and metrics endpoints; otherwise it runs one cycle and exits.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/floodwatch/gdacs-flood-db/internal/adapter/gdacs"
	"github.com/floodwatch/gdacs-flood-db/internal/adapter/httpadapter"
	kafkaadapter "github.com/floodwatch/gdacs-flood-db/internal/adapter/kafka"
	"github.com/floodwatch/gdacs-flood-db/internal/adapter/snapshot"
	"github.com/floodwatch/gdacs-flood-db/internal/config"
	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/geo"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	mode := domain.GeoMode(cfg.GeoMode)
	countries, continents, tiles, err := geo.BuildLocators(mode, cfg.CountriesPath, cfg.GridDir)
	if err != nil {
		logger.Error("failed to load reference layers", "error", err)
		os.Exit(1)
	}

	normalizer := domain.NewNormalizer(mode, countries, continents, tiles)
	client := gdacs.NewClient(cfg.BaseURL, cfg.FetchTimeout, cfg.FetchRetries, logger)
	downloader := pipeline.NewDownloader(client, normalizer, logger, metrics, cfg.PageSizeThreshold)
	store := snapshot.FileStore{Dir: cfg.DataDir}

	// Change notification is feature-flagged like any other optional sink.
	var notifier pipeline.Notifier
	if cfg.KafkaNotify {
		kn := kafkaadapter.NewNotifier(cfg.KafkaBrokers, cfg.KafkaChangeTopic, clock, logger)
		defer kn.Close()
		notifier = kn
		logger.Info("kafka change notification enabled", "topic", cfg.KafkaChangeTopic)
	} else {
		logger.Info("kafka change notification disabled")
	}

	updater := pipeline.NewUpdater(downloader, store, notifier, clock, logger, metrics, cfg.StartDate)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.UpdateInterval <= 0 {
		if _, err := updater.RunOnce(ctx); err != nil {
			logger.Error("update failed", "error", err)
			os.Exit(1)
		}
		return
	}

	srv := httpadapter.NewServer(cfg.HTTPAddr, updater, logger)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	go func() {
		if err := updater.Run(ctx, cfg.UpdateInterval); err != nil {
			logger.Error("updater error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
