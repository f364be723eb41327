// Command correct merges a human-edited override table into a snapshot and
// writes the corrected snapshot alongside it. The machine-derived input is
// never modified.
package main

import (
	"flag"
	"log/slog"
	"os"

	"github.com/floodwatch/gdacs-flood-db/internal/adapter/snapshot"
	"github.com/floodwatch/gdacs-flood-db/internal/config"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func main() {
	inFlag := flag.String("in", "", "snapshot to correct, defaults to <DATA_DIR>/"+snapshot.SnapshotFile)
	overridesFlag := flag.String("overrides", "", "override CSV, defaults to <DATA_DIR>/"+snapshot.TemplateFile)
	outFlag := flag.String("out", "", "corrected snapshot path, defaults to <DATA_DIR>/"+snapshot.CorrectedFile)
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	store := snapshot.FileStore{Dir: cfg.DataDir}

	in := *inFlag
	if in == "" {
		in = store.SnapshotPath()
	}
	overridesPath := *overridesFlag
	if overridesPath == "" {
		overridesPath = store.TemplatePath()
	}
	out := *outFlag
	if out == "" {
		out = store.CorrectedPath()
	}

	events, err := snapshot.LoadSnapshot(in)
	if err != nil {
		logger.Error("failed to load snapshot", "error", err)
		os.Exit(1)
	}

	overrides, err := snapshot.LoadOverrides(overridesPath)
	if err != nil {
		logger.Error("failed to load overrides", "error", err)
		os.Exit(1)
	}

	corrected := pipeline.RunCorrection(events, overrides, logger)

	if err := snapshot.WriteSnapshot(out, corrected); err != nil {
		logger.Error("failed to write corrected snapshot", "error", err)
		os.Exit(1)
	}

	logger.Info("corrected snapshot written", "path", out, "events", len(corrected))
}
