package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/geodata-client/internal/adapter/datasetapi"
	"github.com/couchcryptid/geodata-client/internal/adapter/geocode"
	"github.com/couchcryptid/geodata-client/internal/adapter/httpadapter"
	kafkaadapter "github.com/couchcryptid/geodata-client/internal/adapter/kafka"
	"github.com/couchcryptid/geodata-client/internal/config"
	"github.com/couchcryptid/geodata-client/internal/observability"
	"github.com/couchcryptid/geodata-client/internal/session"
	"github.com/jonboulle/clockwork"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()
	clock := clockwork.NewRealClock()

	source := datasetapi.NewClient(datasetapi.Options{
		BaseURL: cfg.DatasetAPIURL,
		Timeout: cfg.APITimeout,
		Backoff: datasetapi.BackoffConfig{
			MaxRetries:  cfg.APIMaxRetries,
			MaxInterval: 2 * cfg.APITimeout,
		},
		Clock: clock,
	}, logger)

	lookup := geocode.NewClient(cfg.GeocodeAPIURL, cfg.GeocodeTimeout, metrics, logger)
	resolver := geocode.NewResolver(lookup, geocode.NewSessionCache(), metrics, logger)

	opts := []session.Option{session.WithClock(clock)}
	var writer *kafkaadapter.Writer
	if cfg.ExportEnabled {
		writer = kafkaadapter.NewWriter(cfg, clock, logger)
		opts = append(opts, session.WithExporter(writer))
		logger.Info("kafka export enabled", "topic", cfg.KafkaExportTopic, "brokers", cfg.KafkaBrokers)
	} else {
		logger.Info("kafka export disabled")
	}

	sess := session.New(source, resolver, logger, metrics, opts...)
	srv := httpadapter.NewServer(cfg.HTTPAddr, sess, sess, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
			stop()
		}
	}()

	logger.Info("geoscope started",
		"dataset_api", cfg.DatasetAPIURL,
		"geocode_api", cfg.GeocodeAPIURL,
	)

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
