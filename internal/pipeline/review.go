package pipeline

import (
	"log/slog"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/observability"
)

// ReviewResult partitions a snapshot into valid events and records needing
// manual review.
type ReviewResult struct {
	Valid  []domain.Event
	Review []domain.ReviewRecord
}

// RunValidation applies the validator to every row of a snapshot. All rules
// are evaluated per row; a row lands in the review subset when it violates at
// least one.
func RunValidation(events []domain.Event, validator *domain.Validator, logger *slog.Logger, metrics *observability.Metrics) ReviewResult {
	result := ReviewResult{Valid: make([]domain.Event, 0, len(events))}

	for _, e := range events {
		violations := validator.Validate(e)
		if len(violations) == 0 {
			result.Valid = append(result.Valid, e)
			continue
		}
		for _, rule := range violations {
			metrics.ValidationFailures.WithLabelValues(string(rule)).Inc()
		}
		result.Review = append(result.Review, domain.ReviewRecord{Event: e, Errors: violations})
	}

	metrics.EventsUnderReview.Set(float64(len(result.Review)))
	logger.Info("validation pass finished",
		"total", len(events),
		"valid", len(result.Valid),
		"needs_review", len(result.Review),
	)
	return result
}
