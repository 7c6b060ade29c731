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
	ManifestPath string
	WorkingDir   string
	OutputPath   string

	// Source identifier extraction. The defaults match the GES DISC OPeNDAP
	// URL layout, where the YYYYMMDD file date sits at bytes 108..116.
	SourceIDOffset int
	SourceIDLength int
	SourceIDSuffix string

	// FetchTimeout of zero leaves the HTTP transport defaults in place.
	FetchTimeout time.Duration

	LogLevel        string
	LogFormat       string
	MetricsAddr     string
	ShutdownTimeout time.Duration

	// Kafka publish configuration (optional downstream of the CSV sink).
	KafkaEnabled bool
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	fetchTimeout, err := parseDurationEnv("FETCH_TIMEOUT", 0)
	if err != nil {
		return nil, err
	}

	shutdownTimeout, err := parseDurationEnv("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	offset, err := parseIntEnv("SOURCE_ID_OFFSET", 108)
	if err != nil {
		return nil, err
	}
	length, err := parseIntEnv("SOURCE_ID_LENGTH", 8)
	if err != nil {
		return nil, err
	}

	kafkaBrokers := parseBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092"))
	kafkaEnabled := false
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		ManifestPath: os.Getenv("MANIFEST_PATH"),
		WorkingDir:   envOrDefault("WORKING_DIR", os.TempDir()),
		OutputPath:   envOrDefault("OUTPUT_PATH", "merra2_site.csv"),

		SourceIDOffset: offset,
		SourceIDLength: length,
		SourceIDSuffix: envOrDefault("SOURCE_ID_SUFFIX", "-site.nc4"),

		FetchTimeout: fetchTimeout,

		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		ShutdownTimeout: shutdownTimeout,

		KafkaEnabled: kafkaEnabled,
		KafkaBrokers: kafkaBrokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "merra2-wind-rows"),
	}

	if cfg.ManifestPath == "" {
		return nil, errors.New("MANIFEST_PATH is required")
	}
	if cfg.OutputPath == "" {
		return nil, errors.New("OUTPUT_PATH is required")
	}
	if cfg.SourceIDOffset < 0 {
		return nil, errors.New("SOURCE_ID_OFFSET must be non-negative")
	}
	if cfg.SourceIDLength <= 0 {
		return nil, errors.New("SOURCE_ID_LENGTH must be positive")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseIntEnv(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func parseDurationEnv(key string, def time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}

func parseBrokers(s string) []string {
	parts := strings.Split(s, ",")
	brokers := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			brokers = append(brokers, p)
		}
	}
	return brokers
}
