// Package oteladapters bridges the circulation observability interfaces to OpenTelemetry.
//
// Usage:
//
//	reader := sdkmetric.NewPeriodicReader(exporter)
//	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
//	collector := oteladapters.NewMetricsCollector(provider.Meter("circulation"))
//	c, err := coordinator.NewCoordinator(catalog, borrowers, loans, sink, ledger, fines,
//		coordinator.WithMetrics(collector))
package oteladapters
