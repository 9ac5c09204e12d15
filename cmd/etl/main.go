package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/freightprint/carbon-etl/internal/adapter/http"
	kafkaadapter "github.com/freightprint/carbon-etl/internal/adapter/kafka"
	"github.com/freightprint/carbon-etl/internal/adapter/openweather"
	"github.com/freightprint/carbon-etl/internal/config"
	"github.com/freightprint/carbon-etl/internal/domain"
	"github.com/freightprint/carbon-etl/internal/emissions"
	"github.com/freightprint/carbon-etl/internal/observability"
	"github.com/freightprint/carbon-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	// Weather enrichment is feature-flagged via WEATHER_ENABLED / OPENWEATHER_API_KEY.
	var weather domain.WeatherProvider
	if cfg.WeatherEnabled {
		client := openweather.NewClient(cfg.WeatherAPIKey, cfg.WeatherTimeout, metrics, logger)
		weather = openweather.NewCachedProvider(client, cfg.WeatherCacheSize, metrics)
		metrics.WeatherEnabled.Set(1)
		logger.Info("weather enrichment enabled", "cache_size", cfg.WeatherCacheSize, "timeout", cfg.WeatherTimeout)
	} else {
		metrics.WeatherEnabled.Set(0)
		logger.Info("weather enrichment disabled")
	}

	calc := emissions.NewCalculator(emissions.DefaultFactors(), logger)

	reader := kafkaadapter.NewReader(cfg, logger)
	writer := kafkaadapter.NewWriter(cfg, logger)
	transformer := pipeline.NewTransformer(calc, weather, metrics, logger)

	p := pipeline.New(reader, transformer, writer, logger, metrics, cfg.BatchSize)

	srv := httpadapter.NewServer(cfg.HTTPAddr, p, httpadapter.Status{
		Service:        "carbon-etl",
		SourceTopic:    cfg.KafkaSourceTopic,
		SinkTopic:      cfg.KafkaSinkTopic,
		WeatherEnabled: cfg.WeatherEnabled,
		BatchSize:      cfg.BatchSize,
	}, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server.
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	// Start ETL pipeline.
	go func() {
		if err := p.Run(ctx); err != nil {
			logger.Error("pipeline error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if err := reader.Close(); err != nil {
		logger.Error("kafka reader close error", "error", err)
	}
	if err := writer.Close(); err != nil {
		logger.Error("kafka writer close error", "error", err)
	}

	logger.Info("shutdown complete")
}
