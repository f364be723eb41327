package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DataDir string

	// Feed fetch settings.
	BaseURL           string
	FetchTimeout      time.Duration
	FetchRetries      int
	PageSizeThreshold int
	StartDate         time.Time

	// Geospatial stage.
	GeoMode       string
	CountriesPath string
	GridDir       string

	// Updater daemon settings.
	HTTPAddr        string
	UpdateInterval  time.Duration
	ShutdownTimeout time.Duration

	LogLevel  string
	LogFormat string

	// Kafka change notification (feature-flagged via KAFKA_NOTIFY_ENABLED).
	KafkaBrokers     []string
	KafkaChangeTopic string
	KafkaNotify      bool

	// AOI download settings.
	AOIDir   string
	AOIDelay time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDuration("FETCH_TIMEOUT", "30s")
	if err != nil {
		return nil, err
	}

	updateInterval, err := parseDuration("UPDATE_INTERVAL", "0s")
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	aoiDelay, err := parseDuration("AOI_DELAY", "500ms")
	if err != nil {
		return nil, err
	}

	startDate, err := parseDate("DOWNLOAD_START_DATE", "2015-01-01")
	if err != nil {
		return nil, err
	}

	fetchRetries, err := parsePositiveInt("FETCH_RETRIES", 3)
	if err != nil {
		return nil, err
	}

	pageThreshold, err := parsePositiveInt("PAGE_SIZE_THRESHOLD", 100)
	if err != nil {
		return nil, err
	}

	dataDir := envOrDefault("DATA_DIR", "data")

	cfg := &Config{
		DataDir:           dataDir,
		BaseURL:           envOrDefault("GDACS_BASE_URL", "https://www.gdacs.org/gdacsapi/api/events/geteventlist/SEARCH"),
		FetchTimeout:      fetchTimeout,
		FetchRetries:      fetchRetries,
		PageSizeThreshold: pageThreshold,
		StartDate:         startDate,

		GeoMode:       envOrDefault("GEO_MODE", "dual"),
		CountriesPath: envOrDefault("COUNTRIES_GEOJSON", dataDir+"/reference/ne_110m_admin_0_countries.geojson"),
		GridDir:       envOrDefault("EQUI7_GRID_DIR", dataDir+"/reference/equi7"),

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		UpdateInterval:  updateInterval,
		ShutdownTimeout: shutdownTimeout,

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers:     parseBrokers(envOrDefault("KAFKA_BROKERS", "")),
		KafkaChangeTopic: envOrDefault("KAFKA_CHANGE_TOPIC", "flood-db-changes"),
		KafkaNotify:      os.Getenv("KAFKA_NOTIFY_ENABLED") == "true",

		AOIDir:   envOrDefault("AOI_DIR", dataDir+"/aois"),
		AOIDelay: aoiDelay,
	}

	switch cfg.GeoMode {
	case "declared", "dual", "grid":
	default:
		return nil, fmt.Errorf("invalid GEO_MODE %q (expected declared, dual, or grid)", cfg.GeoMode)
	}

	if cfg.BaseURL == "" {
		return nil, errors.New("GDACS_BASE_URL is required")
	}
	if cfg.KafkaNotify && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_NOTIFY_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaNotify && cfg.KafkaChangeTopic == "" {
		return nil, errors.New("KAFKA_NOTIFY_ENABLED is true but KAFKA_CHANGE_TOPIC is empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key, fallback string) (time.Duration, error) {
	raw := envOrDefault(key, fallback)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return d, nil
}

func parseDate(key, fallback string) (time.Time, error) {
	raw := envOrDefault(key, fallback)
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s %q (expected YYYY-MM-DD)", key, raw)
	}
	return t.UTC(), nil
}

func parsePositiveInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func parseBrokers(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
