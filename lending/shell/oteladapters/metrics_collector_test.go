package oteladapters_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/AntonStoeckl/lending-circulation-go/lending/shell"
	"github.com/AntonStoeckl/lending-circulation-go/lending/shell/oteladapters"
)

func Test_MetricsCollector_RecordDuration_RecordsSecondsWithLabels(t *testing.T) {
	// arrange
	reader, collector := givenCollector(t)
	labels := shell.BuildOperationLabels("issue_loan", shell.StatusSuccess)

	// act
	collector.RecordDuration(shell.OperationDurationMetric, 250*time.Millisecond, labels)

	// assert
	metrics := collect(t, reader)
	histogram, found := findMetric(metrics, shell.OperationDurationMetric)
	require.True(t, found)
	assert.Equal(t, "s", histogram.Unit)
	assert.Equal(t, "Duration of loan lifecycle operations", histogram.Description)

	data, ok := histogram.Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, uint64(1), data.DataPoints[0].Count)
	assert.InDelta(t, 0.25, data.DataPoints[0].Sum, 0.0001)

	operation, ok := data.DataPoints[0].Attributes.Value(attribute.Key("operation"))
	require.True(t, ok)
	assert.Equal(t, "issue_loan", operation.AsString())
}

func Test_MetricsCollector_IncrementCounterContext_AggregatesPerLabelSet(t *testing.T) {
	// arrange
	reader, collector := givenCollector(t)
	ctx := context.Background()

	// act
	collector.IncrementCounterContext(ctx, shell.DeliveriesMetric, map[string]string{"subscriber": "email", "status": "success"})
	collector.IncrementCounterContext(ctx, shell.DeliveriesMetric, map[string]string{"subscriber": "email", "status": "success"})
	collector.IncrementCounterContext(ctx, shell.DeliveriesMetric, map[string]string{"subscriber": "kafka", "status": "dropped"})

	// assert
	metrics := collect(t, reader)
	counter, found := findMetric(metrics, shell.DeliveriesMetric)
	require.True(t, found)

	data, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	assert.True(t, data.IsMonotonic)
	require.Len(t, data.DataPoints, 2)

	totals := map[string]int64{}
	for _, point := range data.DataPoints {
		subscriber, _ := point.Attributes.Value(attribute.Key("subscriber"))
		totals[subscriber.AsString()] = point.Value
	}
	assert.Equal(t, int64(2), totals["email"])
	assert.Equal(t, int64(1), totals["kafka"])
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	reader, collector := givenCollector(t)

	// act
	collector.RecordValue(shell.QueueDepthMetric, 7, nil)
	collector.RecordValue(shell.QueueDepthMetric, 3, nil)

	// assert
	metrics := collect(t, reader)
	gauge, found := findMetric(metrics, shell.QueueDepthMetric)
	require.True(t, found)

	data, ok := gauge.Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, 3.0, data.DataPoints[0].Value)
}

func Test_MetricsCollector_UsesFallbackDescription_WhenMetricIsUnknown(t *testing.T) {
	// arrange
	reader, collector := givenCollector(t)

	// act
	collector.IncrementCounter("custom_total", nil)

	// assert
	metrics := collect(t, reader)
	counter, found := findMetric(metrics, "custom_total")
	require.True(t, found)
	assert.Equal(t, "Count of circulation events", counter.Description)
}

func Test_MetricsCollector_DoesNotPanic_WhenInstrumentCreationFails(t *testing.T) {
	// arrange
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(sdkmetric.NewManualReader()))
	collector := oteladapters.NewMetricsCollector(&failingMeter{Meter: provider.Meter("test")})
	ctx := context.Background()

	// act & assert
	assert.NotPanics(t, func() {
		collector.RecordDuration("broken", time.Second, nil)
		collector.RecordDurationContext(ctx, "broken", time.Second, nil)
		collector.IncrementCounter("broken", nil)
		collector.IncrementCounterContext(ctx, "broken", nil)
		collector.RecordValue("broken", 1, nil)
		collector.RecordValueContext(ctx, "broken", 1, nil)
	})
}

func Test_MetricsCollector_IsSafeForConcurrentUse(t *testing.T) {
	// arrange
	reader, collector := givenCollector(t)
	const workers = 16
	const perWorker = 50

	// act
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range perWorker {
				collector.IncrementCounter(shell.RemindersMetric, map[string]string{"event_type": "LoanOverdue"})
			}
		}()
	}
	wg.Wait()

	// assert
	metrics := collect(t, reader)
	counter, found := findMetric(metrics, shell.RemindersMetric)
	require.True(t, found)

	data, ok := counter.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, data.DataPoints, 1)
	assert.Equal(t, int64(workers*perWorker), data.DataPoints[0].Value)
}

func givenCollector(t *testing.T) (*sdkmetric.ManualReader, *oteladapters.MetricsCollector) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	return reader, oteladapters.NewMetricsCollector(provider.Meter("circulation-test"))
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	return resourceMetrics
}

func findMetric(resourceMetrics metricdata.ResourceMetrics, name string) (metricdata.Metrics, bool) {
	for _, scopeMetrics := range resourceMetrics.ScopeMetrics {
		for _, m := range scopeMetrics.Metrics {
			if m.Name == name {
				return m, true
			}
		}
	}

	return metricdata.Metrics{}, false
}

// failingMeter refuses to create any instrument.
type failingMeter struct {
	metric.Meter
}

func (m *failingMeter) Float64Histogram(string, ...metric.Float64HistogramOption) (metric.Float64Histogram, error) {
	return nil, errors.New("histogram creation failed")
}

func (m *failingMeter) Int64Counter(string, ...metric.Int64CounterOption) (metric.Int64Counter, error) {
	return nil, errors.New("counter creation failed")
}

func (m *failingMeter) Float64Gauge(string, ...metric.Float64GaugeOption) (metric.Float64Gauge, error) {
	return nil, errors.New("gauge creation failed")
}
