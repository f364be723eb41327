package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "https://www.gdacs.org/gdacsapi/api/events/geteventlist/SEARCH", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 3, cfg.FetchRetries)
	assert.Equal(t, 100, cfg.PageSizeThreshold)
	assert.Equal(t, time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, "dual", cfg.GeoMode)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, time.Duration(0), cfg.UpdateInterval)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "flood-db-changes", cfg.KafkaChangeTopic)
	assert.False(t, cfg.KafkaNotify)
	assert.Equal(t, "data/aois", cfg.AOIDir)
	assert.Equal(t, 500*time.Millisecond, cfg.AOIDelay)
}

func TestLoad_CustomValues(t *testing.T) {
	t.Setenv("DATA_DIR", "/var/lib/floods")
	t.Setenv("GDACS_BASE_URL", "http://localhost:9999/feed")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("FETCH_RETRIES", "1")
	t.Setenv("PAGE_SIZE_THRESHOLD", "250")
	t.Setenv("DOWNLOAD_START_DATE", "2020-06-15")
	t.Setenv("GEO_MODE", "grid")
	t.Setenv("EQUI7_GRID_DIR", "/opt/equi7")
	t.Setenv("UPDATE_INTERVAL", "24h")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("KAFKA_NOTIFY_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092")
	t.Setenv("KAFKA_CHANGE_TOPIC", "changes")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/floods", cfg.DataDir)
	assert.Equal(t, "http://localhost:9999/feed", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1, cfg.FetchRetries)
	assert.Equal(t, 250, cfg.PageSizeThreshold)
	assert.Equal(t, time.Date(2020, time.June, 15, 0, 0, 0, 0, time.UTC), cfg.StartDate)
	assert.Equal(t, "grid", cfg.GeoMode)
	assert.Equal(t, "/opt/equi7", cfg.GridDir)
	assert.Equal(t, 24*time.Hour, cfg.UpdateInterval)
	assert.True(t, cfg.KafkaNotify)
	assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)

	// Derived defaults follow the custom data dir.
	assert.Equal(t, "/var/lib/floods/aois", cfg.AOIDir)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"bad fetch timeout", "FETCH_TIMEOUT", "soon"},
		{"negative fetch timeout", "FETCH_TIMEOUT", "-5s"},
		{"bad retries", "FETCH_RETRIES", "many"},
		{"zero retries", "FETCH_RETRIES", "0"},
		{"negative threshold", "PAGE_SIZE_THRESHOLD", "-1"},
		{"bad start date", "DOWNLOAD_START_DATE", "01/01/2015"},
		{"unknown geo mode", "GEO_MODE", "fancy"},
		{"bad update interval", "UPDATE_INTERVAL", "daily"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaNotifyRequiresBrokers(t *testing.T) {
	t.Setenv("KAFKA_NOTIFY_ENABLED", "true")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "KAFKA_BROKERS")
}
