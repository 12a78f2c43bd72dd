package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds all client settings, populated from environment variables.
type Config struct {
	DatasetAPIURL string `validate:"required,url"`
	GeocodeAPIURL string `validate:"required,url"`
	HTTPAddr      string `validate:"required"`
	LogLevel      string `validate:"oneof=debug info warn error"`
	LogFormat     string `validate:"oneof=json text"`

	ShutdownTimeout time.Duration

	// Outbound API behaviour.
	APITimeout     time.Duration
	GeocodeTimeout time.Duration
	APIMaxRetries  int `validate:"gte=0,lte=10"`

	// Optional Kafka export of normalized result sets.
	ExportEnabled    bool
	KafkaBrokers     []string
	KafkaExportTopic string
}

// Load reads configuration from the environment, applying defaults where unset.
// A .env file in the working directory is honoured when present.
func Load() (*Config, error) {
	// A missing .env is the normal case outside local development.
	_ = godotenv.Load()

	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	apiTimeout, err := parsePositiveDuration("API_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	geocodeTimeout, err := parsePositiveDuration("GEOCODE_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}

	maxRetries, err := strconv.Atoi(sharedcfg.EnvOrDefault("API_MAX_RETRIES", "2"))
	if err != nil {
		return nil, errors.New("invalid API_MAX_RETRIES")
	}

	datasetURL := strings.TrimRight(sharedcfg.EnvOrDefault("DATASET_API_URL", "http://localhost:8080"), "/")
	geocodeURL := strings.TrimRight(sharedcfg.EnvOrDefault("GEOCODE_API_URL", datasetURL), "/")

	cfg := &Config{
		DatasetAPIURL:   datasetURL,
		GeocodeAPIURL:   geocodeURL,
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8081"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		APITimeout:     apiTimeout,
		GeocodeTimeout: geocodeTimeout,
		APIMaxRetries:  maxRetries,

		ExportEnabled:    os.Getenv("EXPORT_ENABLED") == "true",
		KafkaBrokers:     sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExportTopic: sharedcfg.EnvOrDefault("KAFKA_EXPORT_TOPIC", "geodata-results"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if cfg.ExportEnabled {
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("EXPORT_ENABLED is true but KAFKA_BROKERS is empty")
		}
		if cfg.KafkaExportTopic == "" {
			return nil, errors.New("EXPORT_ENABLED is true but KAFKA_EXPORT_TOPIC is empty")
		}
	}

	return cfg, nil
}

func parsePositiveDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(sharedcfg.EnvOrDefault(key, def))
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return d, nil
}
