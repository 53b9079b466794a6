package config

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
)

// ErrTelemetrySetupFailed is returned when the OpenTelemetry exporter or resource can not be created.
var ErrTelemetrySetupFailed = errors.New("telemetry setup failed")

// NewMeterProvider creates the OpenTelemetry meter provider and registers it globally.
// Without an OTLP endpoint the provider has no reader and measurements are dropped.
func NewMeterProvider(ctx context.Context, cfg Telemetry, serviceVersion string) (*sdkmetric.MeterProvider, error) {
	res, err := resource.New(ctx,
		resource.WithAttributes(
			semconv.ServiceNameKey.String(cfg.ServiceName),
			semconv.ServiceVersionKey.String(serviceVersion),
		),
	)
	if err != nil {
		return nil, errors.Join(ErrTelemetrySetupFailed, err)
	}

	providerOptions := []sdkmetric.Option{sdkmetric.WithResource(res)}

	if cfg.OTLPEndpoint != "" {
		exporterOptions := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTLPEndpoint)}
		if cfg.Insecure {
			exporterOptions = append(exporterOptions, otlpmetricgrpc.WithInsecure())
		}

		exporter, exporterErr := otlpmetricgrpc.New(ctx, exporterOptions...)
		if exporterErr != nil {
			return nil, errors.Join(ErrTelemetrySetupFailed, exporterErr)
		}

		providerOptions = append(providerOptions, sdkmetric.WithReader(
			sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.ExportInterval)),
		))
	}

	provider := sdkmetric.NewMeterProvider(providerOptions...)
	otel.SetMeterProvider(provider)

	return provider, nil
}
