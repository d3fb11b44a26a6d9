package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/uimorph/uimorph/internal/observability"
	"github.com/uimorph/uimorph/pkg/ir"
)

func setupTestMeter(t *testing.T) (*observability.ConversionMetrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	meter := mp.Meter("test")

	metrics, err := observability.NewConversionMetrics(meter)
	require.NoError(t, err)

	return metrics, reader
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	err := reader.Collect(context.Background(), &rm)
	require.NoError(t, err)

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func TestConversionMetrics_ObserveConversion(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.ObserveConversion(ir.FrameworkComponentModel, ir.FrameworkWidgetTree, 0, 10*time.Millisecond)

	rm := collectMetrics(t, reader)

	total := findMetric(rm, "uimorph.conversions.total")
	require.NotNil(t, total, "uimorph.conversions.total metric not found")

	duration := findMetric(rm, "uimorph.conversion.duration.seconds")
	require.NotNil(t, duration, "uimorph.conversion.duration.seconds metric not found")

	// No warnings recorded, so the warning counter stays unregistered data.
	warnings := findMetric(rm, "uimorph.warnings.total")
	if warnings != nil {
		sum, ok := warnings.Data.(metricdata.Sum[int64])
		require.True(t, ok)
		assert.Empty(t, sum.DataPoints)
	}
}

func TestConversionMetrics_ObserveWarnings(t *testing.T) {
	t.Parallel()

	metrics, reader := setupTestMeter(t)

	metrics.ObserveConversion(ir.FrameworkWidgetTree, ir.FrameworkComponentModel, 3, time.Millisecond)

	rm := collectMetrics(t, reader)

	warnings := findMetric(rm, "uimorph.warnings.total")
	require.NotNil(t, warnings, "uimorph.warnings.total metric not found")

	sum, ok := warnings.Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(3), sum.DataPoints[0].Value)
}
