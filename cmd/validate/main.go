// Command validate runs the rule-based validation pass over a snapshot and
// writes the review outputs: a full-fidelity needs-review file, a narrow
// reviewer worksheet, and a blank correction template when anything needs
// review.
package main

import (
	"flag"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/floodwatch/gdacs-flood-db/internal/adapter/snapshot"
	"github.com/floodwatch/gdacs-flood-db/internal/config"
	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func main() {
	inFlag := flag.String("in", "", "snapshot to validate, defaults to <DATA_DIR>/"+snapshot.SnapshotFile)
	outDirFlag := flag.String("out-dir", "", "directory for review outputs, defaults to DATA_DIR")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	in := *inFlag
	if in == "" {
		in = snapshot.FileStore{Dir: cfg.DataDir}.SnapshotPath()
	}
	outDir := *outDirFlag
	if outDir == "" {
		outDir = cfg.DataDir
	}

	events, err := snapshot.LoadSnapshot(in)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	validator := domain.NewValidator(domain.GeoMode(cfg.GeoMode))
	result := pipeline.RunValidation(events, validator, logger, metrics)

	if len(result.Review) == 0 {
		logger.Info("no events need review")
		return
	}

	if err := snapshot.WriteReview(filepath.Join(outDir, snapshot.ReviewFile), result.Review); err != nil {
		logger.Error("failed to write review file", "error", err)
		os.Exit(1)
	}
	if err := snapshot.WriteWorksheet(filepath.Join(outDir, snapshot.WorksheetFile), result.Review); err != nil {
		logger.Error("failed to write review worksheet", "error", err)
		os.Exit(1)
	}
	if err := snapshot.WriteTemplate(filepath.Join(outDir, snapshot.TemplateFile), result.Review); err != nil {
		logger.Error("failed to write correction template", "error", err)
		os.Exit(1)
	}

	logger.Info("review outputs written", "dir", outDir, "needs_review", len(result.Review))
}
