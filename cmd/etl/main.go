package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merra2-wind-etl/internal/adapter/archive"
	"merra2-wind-etl/internal/adapter/csvfile"
	httpadapter "merra2-wind-etl/internal/adapter/http"
	kafkaadapter "merra2-wind-etl/internal/adapter/kafka"
	"merra2-wind-etl/internal/adapter/merra2"
	"merra2-wind-etl/internal/config"
	"merra2-wind-etl/internal/manifest"
	"merra2-wind-etl/internal/observability"
	"merra2-wind-etl/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	fetcher := archive.NewClient(cfg.FetchTimeout, logger)
	decoder := merra2.NewDecoder(logger)
	sink := csvfile.NewWriter(cfg.OutputPath, logger)

	// Downstream publish is feature-flagged via KAFKA_ENABLED.
	var publisher pipeline.Publisher
	var kafkaPub *kafkaadapter.Publisher
	if cfg.KafkaEnabled {
		kafkaPub = kafkaadapter.NewPublisher(cfg, logger)
		publisher = kafkaPub
		logger.Info("kafka publish enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	} else {
		logger.Info("kafka publish disabled")
	}

	p := pipeline.New(fetcher, decoder, sink, publisher, cfg.WorkingDir, logger, metrics)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// The metrics server is optional; a batch run on a workstation has no use
	// for it, a scheduled run in a cluster does.
	var srv *httpadapter.Server
	if cfg.MetricsAddr != "" {
		srv = httpadapter.NewServer(cfg.MetricsAddr, p, logger)
		go func() {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("http server error", "error", err)
			}
		}()
	}

	code := run(ctx, cfg, logger, p)

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("http server shutdown error", "error", err)
		}
		cancel()
	}
	if kafkaPub != nil {
		if err := kafkaPub.Close(); err != nil {
			logger.Error("kafka publisher close error", "error", err)
		}
	}

	os.Exit(code)
}

func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, p *pipeline.Pipeline) int {
	extractor := manifest.IDExtractor{
		Offset: cfg.SourceIDOffset,
		Length: cfg.SourceIDLength,
		Suffix: cfg.SourceIDSuffix,
	}
	sources, err := manifest.Load(cfg.ManifestPath, extractor)
	if err != nil {
		logger.Error("failed to load manifest", "path", cfg.ManifestPath, "error", err)
		return 1
	}

	started := time.Now()
	result, err := p.Run(ctx, sources)
	if err != nil {
		logger.Error("pipeline error", "error", err)
		return 1
	}

	logger.Info("run complete",
		"rows", len(result.Table.Rows),
		"sources", result.Sources,
		"failed_sources", result.FailedSources,
		"output", result.OutputPath,
		"duration", time.Since(started),
		"generated_at", result.Table.GeneratedAt,
	)
	return 0
}
