package oteladapters

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
)

var (
	_ shell.MetricsCollector           = (*MetricsCollector)(nil)
	_ shell.ContextualMetricsCollector = (*MetricsCollector)(nil)
)

// MetricsCollector implements shell.ContextualMetricsCollector using the OpenTelemetry metrics API.
// It maps the circulation metrics interface to OpenTelemetry instruments:
//   - RecordDuration -> Histogram (operation and statement durations)
//   - IncrementCounter -> Counter (operations, deliveries, reminders, errors)
//   - RecordValue -> Gauge (queue depth, tracked items)
//
// Instruments are created on first use and cached. A MetricsCollector is safe for concurrent use.
type MetricsCollector struct {
	meter        metric.Meter
	descriptions map[string]string

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
	gauges     map[string]metric.Float64Gauge
}

// NewMetricsCollector creates a new OpenTelemetry metrics collector.
// The meter should be created from your OpenTelemetry MeterProvider.
func NewMetricsCollector(meter metric.Meter) *MetricsCollector {
	return &MetricsCollector{
		meter:        meter,
		descriptions: defaultDescriptions(),
		histograms:   make(map[string]metric.Float64Histogram),
		counters:     make(map[string]metric.Int64Counter),
		gauges:       make(map[string]metric.Float64Gauge),
	}
}

// RecordDuration records a duration in seconds using an OpenTelemetry histogram.
func (m *MetricsCollector) RecordDuration(metricName string, duration time.Duration, labels map[string]string) {
	m.RecordDurationContext(context.TODO(), metricName, duration, labels)
}

// RecordDurationContext records a duration in seconds with context for exemplar and trace correlation.
func (m *MetricsCollector) RecordDurationContext(
	ctx context.Context,
	metricName string,
	duration time.Duration,
	labels map[string]string,
) {
	histogram := m.getOrCreateHistogram(metricName)
	if histogram == nil {
		return
	}

	histogram.Record(ctx, duration.Seconds(), metric.WithAttributes(toAttributes(labels)...))
}

// IncrementCounter increments a monotonic OpenTelemetry counter by one.
func (m *MetricsCollector) IncrementCounter(metricName string, labels map[string]string) {
	m.IncrementCounterContext(context.TODO(), metricName, labels)
}

// IncrementCounterContext increments a counter with context.
func (m *MetricsCollector) IncrementCounterContext(ctx context.Context, metricName string, labels map[string]string) {
	counter := m.getOrCreateCounter(metricName)
	if counter == nil {
		return
	}

	counter.Add(ctx, 1, metric.WithAttributes(toAttributes(labels)...))
}

// RecordValue records the current value of a gauge.
func (m *MetricsCollector) RecordValue(metricName string, value float64, labels map[string]string) {
	m.RecordValueContext(context.TODO(), metricName, value, labels)
}

// RecordValueContext records the current value of a gauge with context.
func (m *MetricsCollector) RecordValueContext(
	ctx context.Context,
	metricName string,
	value float64,
	labels map[string]string,
) {
	gauge := m.getOrCreateGauge(metricName)
	if gauge == nil {
		return
	}

	gauge.Record(ctx, value, metric.WithAttributes(toAttributes(labels)...))
}

// getOrCreateHistogram returns nil if the meter refuses to create the instrument.
func (m *MetricsCollector) getOrCreateHistogram(name string) metric.Float64Histogram {
	m.mu.Lock()
	defer m.mu.Unlock()

	if histogram, exists := m.histograms[name]; exists {
		return histogram
	}

	histogram, err := m.meter.Float64Histogram(
		name,
		metric.WithDescription(m.describe(name, "Duration of circulation operations")),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil
	}

	m.histograms[name] = histogram

	return histogram
}

func (m *MetricsCollector) getOrCreateCounter(name string) metric.Int64Counter {
	m.mu.Lock()
	defer m.mu.Unlock()

	if counter, exists := m.counters[name]; exists {
		return counter
	}

	counter, err := m.meter.Int64Counter(
		name,
		metric.WithDescription(m.describe(name, "Count of circulation events")),
	)
	if err != nil {
		return nil
	}

	m.counters[name] = counter

	return counter
}

func (m *MetricsCollector) getOrCreateGauge(name string) metric.Float64Gauge {
	m.mu.Lock()
	defer m.mu.Unlock()

	if gauge, exists := m.gauges[name]; exists {
		return gauge
	}

	gauge, err := m.meter.Float64Gauge(
		name,
		metric.WithDescription(m.describe(name, "Current value of a circulation measurement")),
	)
	if err != nil {
		return nil
	}

	m.gauges[name] = gauge

	return gauge
}

func (m *MetricsCollector) describe(name, fallback string) string {
	if description, ok := m.descriptions[name]; ok {
		return description
	}

	return fallback
}

func toAttributes(labels map[string]string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, len(labels))
	for key, value := range labels {
		attrs = append(attrs, attribute.String(key, value))
	}

	return attrs
}

func defaultDescriptions() map[string]string {
	return map[string]string{
		shell.OperationDurationMetric:  "Duration of loan lifecycle operations",
		shell.OperationsMetric:         "Loan lifecycle operations by operation and status",
		shell.DeliveriesMetric:         "Event deliveries by subscriber and status",
		shell.DeliveryRetriesMetric:    "Retried event deliveries",
		shell.DeliveryRetryDelayMetric: "Backoff delay before a retried delivery",
		shell.QueueDepthMetric:         "Events waiting in the notification queue",
		shell.RemindersMetric:          "Reminder events emitted by the sweeper",
	}
}
