package pipeline_test

import (
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/floodwatch/gdacs-flood-db/internal/domain"
	"github.com/floodwatch/gdacs-flood-db/internal/pipeline"
)

func validEvent(id string) domain.Event {
	return domain.Event{
		GDACSID:         id,
		Country:         "Philippines",
		Continent:       "Asia",
		CountryLonLat:   "Philippines",
		ContinentLonLat: "Asia",
		FromDate:        "2024-07-20T00:00:00",
		ToDate:          "2024-07-24T23:59:59",
		GeometryURL:     "https://www.gdacs.org/getgeometry?eventtype=FL&eventid=1&episodeid=1",
	}
}

func TestRunValidation(t *testing.T) {
	validator := domain.NewValidator(domain.GeoModeDual)

	t.Run("partitions valid and review", func(t *testing.T) {
		broken := validEvent("FL-2")
		broken.ContinentLonLat = ""
		broken.FromDate = "2024-07-20"

		metrics := newTestMetrics()
		result := pipeline.RunValidation(
			[]domain.Event{validEvent("FL-1"), broken},
			validator, slog.Default(), metrics,
		)

		require.Len(t, result.Valid, 1)
		assert.Equal(t, "FL-1", result.Valid[0].GDACSID)

		require.Len(t, result.Review, 1)
		assert.Equal(t, "FL-2", result.Review[0].GDACSID)
		assert.Equal(t, []domain.RuleID{
			domain.RuleMissingContinentLonLat,
			domain.RuleInvalidFromDate,
		}, result.Review[0].Errors)

		assert.Equal(t, float64(1), testutil.ToFloat64(
			metrics.ValidationFailures.WithLabelValues(string(domain.RuleInvalidFromDate))))
		assert.Equal(t, float64(1), testutil.ToFloat64(metrics.EventsUnderReview))
	})

	t.Run("all valid", func(t *testing.T) {
		result := pipeline.RunValidation(
			[]domain.Event{validEvent("FL-1")},
			validator, slog.Default(), newTestMetrics(),
		)
		assert.Len(t, result.Valid, 1)
		assert.Empty(t, result.Review)
	})

	t.Run("empty snapshot", func(t *testing.T) {
		result := pipeline.RunValidation(nil, validator, slog.Default(), newTestMetrics())
		assert.Empty(t, result.Valid)
		assert.Empty(t, result.Review)
	})
}

func TestRunCorrection(t *testing.T) {
	events := []domain.Event{
		{GDACSID: "FL-1", Country: "Philipines", Continent: "Asia"},
		{GDACSID: "FL-2", Country: "Chile"},
	}

	t.Run("applies non-empty overrides", func(t *testing.T) {
		corrected := pipeline.RunCorrection(events, []domain.Override{
			{GDACSID: "FL-1", Country: "Philippines"},
			{GDACSID: "FL-2"},
		}, slog.Default())

		require.Len(t, corrected, 2)
		assert.Equal(t, "Philippines", corrected[0].Country)
		assert.Equal(t, "Chile", corrected[1].Country)
	})

	t.Run("no overrides passes through", func(t *testing.T) {
		corrected := pipeline.RunCorrection(events, nil, slog.Default())
		assert.Equal(t, events, corrected)
	})
}
