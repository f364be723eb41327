package pipeline

import (
	"log/slog"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
)

// RunCorrection merges a human-edited override table into a snapshot and
// returns the corrected snapshot. The machine-derived input is left intact.
func RunCorrection(events []domain.Event, overrides []domain.Override, logger *slog.Logger) []domain.Event {
	applied := 0
	for _, o := range overrides {
		if !o.IsEmpty() {
			applied++
		}
	}

	corrected := domain.ApplyOverrides(events, overrides)

	logger.Info("override reconciliation finished",
		"total", len(corrected),
		"override_rows", len(overrides),
		"corrections_applied", applied,
	)
	return corrected
}
