// Package main runs the lending circulation service: the loan coordinator behind a REST API,
// the notification dispatcher and the periodic due-date reminder.
package main

import (
	"context"
	"errors"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/config"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/oteladapters"
)

const (
	serviceName    = "lending-circulation"
	serviceVersion = "0.1.0"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Fatalf("loading .env file: %v", err)
	}

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("reading configuration: %v", err)
	}

	logger, err := config.NewZapLogger(cfg.Log, serviceName)
	if err != nil {
		log.Fatalf("creating logger: %v", err)
	}

	err = run(cfg, logger)
	_ = logger.Sync()

	if err != nil {
		os.Exit(1)
	}
}

func run(cfg config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var metrics shell.MetricsCollector
	if cfg.MetricsEnabled() {
		provider, err := config.NewMeterProvider(ctx, cfg.Telemetry, serviceVersion)
		if err != nil {
			logger.Error("setting up telemetry failed", zap.Error(err))
			return err
		}
		defer shutdownTelemetry(logger, provider.Shutdown)

		metrics = oteladapters.NewMetricsCollector(otel.Meter(serviceName))
	}

	application, err := newApp(ctx, cfg, logger, metrics)
	if err != nil {
		logger.Error("starting service failed", zap.Error(err))
		return err
	}

	logger.Info("service started",
		zap.String("storage", cfg.Storage.Backend),
		zap.String("fine_policy", cfg.Circulation.FinePolicy),
		zap.Bool("kafka", cfg.KafkaEnabled()),
		zap.Bool("metrics", cfg.MetricsEnabled()),
	)

	if err = application.run(ctx); err != nil {
		logger.Error("service stopped with error", zap.Error(err))
		return err
	}

	logger.Info("service stopped")

	return nil
}
