package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MANIFEST_PATH", "testdata/manifest.txt")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "testdata/manifest.txt", cfg.ManifestPath)
	assert.NotEmpty(t, cfg.WorkingDir)
	assert.Equal(t, "merra2_site.csv", cfg.OutputPath)
	assert.Equal(t, 108, cfg.SourceIDOffset)
	assert.Equal(t, 8, cfg.SourceIDLength)
	assert.Equal(t, "-site.nc4", cfg.SourceIDSuffix)
	assert.Equal(t, time.Duration(0), cfg.FetchTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.MetricsAddr)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "merra2-wind-rows", cfg.KafkaTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("MANIFEST_PATH", "/data/MERRA2_20yrs.txt")
	t.Setenv("WORKING_DIR", "/scratch/netfiles")
	t.Setenv("OUTPUT_PATH", "/data/MERRA2_20yrs.csv")
	t.Setenv("SOURCE_ID_OFFSET", "96")
	t.Setenv("SOURCE_ID_LENGTH", "10")
	t.Setenv("SOURCE_ID_SUFFIX", ".nc4")
	t.Setenv("FETCH_TIMEOUT", "90s")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("METRICS_ADDR", ":9102")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092, broker2:9092")
	t.Setenv("KAFKA_TOPIC", "wind-rows")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/scratch/netfiles", cfg.WorkingDir)
	assert.Equal(t, "/data/MERRA2_20yrs.csv", cfg.OutputPath)
	assert.Equal(t, 96, cfg.SourceIDOffset)
	assert.Equal(t, 10, cfg.SourceIDLength)
	assert.Equal(t, ".nc4", cfg.SourceIDSuffix)
	assert.Equal(t, 90*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, ":9102", cfg.MetricsAddr)
	assert.True(t, cfg.KafkaEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "wind-rows", cfg.KafkaTopic)
}

func TestLoad_MissingManifestPath(t *testing.T) {
	t.Setenv("MANIFEST_PATH", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidValues(t *testing.T) {
	cases := []struct {
		name  string
		key   string
		value string
	}{
		{"bad fetch timeout", "FETCH_TIMEOUT", "ninety seconds"},
		{"negative fetch timeout", "FETCH_TIMEOUT", "-1s"},
		{"bad offset", "SOURCE_ID_OFFSET", "abc"},
		{"negative offset", "SOURCE_ID_OFFSET", "-1"},
		{"zero length", "SOURCE_ID_LENGTH", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("MANIFEST_PATH", "testdata/manifest.txt")
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoad_KafkaEnabledRequiresTopic(t *testing.T) {
	t.Setenv("MANIFEST_PATH", "testdata/manifest.txt")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_TOPIC", "")

	// Topic falls back to its default, so this succeeds.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "merra2-wind-rows", cfg.KafkaTopic)

	t.Setenv("KAFKA_BROKERS", " , ")
	_, err = Load()
	assert.Error(t, err)
}
