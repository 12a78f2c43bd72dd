package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	defaultBroker  = "localhost:9092"
	testDatasetURL = "http://datasets.internal:8080"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.DatasetAPIURL)
	assert.Equal(t, "http://localhost:8080", cfg.GeocodeAPIURL)
	assert.Equal(t, ":8081", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 10*time.Second, cfg.APITimeout)
	assert.Equal(t, 5*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 2, cfg.APIMaxRetries)
	assert.False(t, cfg.ExportEnabled)
	assert.Equal(t, []string{defaultBroker}, cfg.KafkaBrokers)
	assert.Equal(t, "geodata-results", cfg.KafkaExportTopic)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("DATASET_API_URL", testDatasetURL+"/")
	t.Setenv("GEOCODE_API_URL", "http://geo.internal:9000")
	t.Setenv("HTTP_ADDR", ":9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("LOG_FORMAT", "text")
	t.Setenv("SHUTDOWN_TIMEOUT", "30s")
	t.Setenv("API_TIMEOUT", "3s")
	t.Setenv("GEOCODE_TIMEOUT", "1s")
	t.Setenv("API_MAX_RETRIES", "4")
	t.Setenv("EXPORT_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "broker1:9092,broker2:9092")
	t.Setenv("KAFKA_EXPORT_TOPIC", "custom-results")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testDatasetURL, cfg.DatasetAPIURL, "trailing slash is trimmed")
	assert.Equal(t, "http://geo.internal:9000", cfg.GeocodeAPIURL)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
	assert.Equal(t, 3*time.Second, cfg.APITimeout)
	assert.Equal(t, 1*time.Second, cfg.GeocodeTimeout)
	assert.Equal(t, 4, cfg.APIMaxRetries)
	assert.True(t, cfg.ExportEnabled)
	assert.Equal(t, []string{"broker1:9092", "broker2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "custom-results", cfg.KafkaExportTopic)
}

func TestLoad_GeocodeURLFollowsDatasetURL(t *testing.T) {
	t.Setenv("DATASET_API_URL", testDatasetURL)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, testDatasetURL, cfg.GeocodeAPIURL)
}

func TestLoad_InvalidShutdownTimeout(t *testing.T) {
	t.Setenv("SHUTDOWN_TIMEOUT", "not-a-duration")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SHUTDOWN_TIMEOUT")
}

func TestLoad_InvalidAPITimeout(t *testing.T) {
	t.Setenv("API_TIMEOUT", "bad")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_TIMEOUT")
}

func TestLoad_NegativeGeocodeTimeout(t *testing.T) {
	t.Setenv("GEOCODE_TIMEOUT", "-1s")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GEOCODE_TIMEOUT")
}

func TestLoad_InvalidMaxRetries(t *testing.T) {
	t.Setenv("API_MAX_RETRIES", "many")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "API_MAX_RETRIES")
}

func TestLoad_MaxRetriesOutOfRange(t *testing.T) {
	t.Setenv("API_MAX_RETRIES", "50")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "APIMaxRetries")
}

func TestLoad_InvalidDatasetURL(t *testing.T) {
	t.Setenv("DATASET_API_URL", "not a url")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DatasetAPIURL")
}

func TestLoad_InvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "LogFormat")
}
