// Package observability wires metrics and logging for the converter.
package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/uimorph/uimorph/pkg/ir"
)

const (
	metricConversionsTotal   = "uimorph.conversions.total"
	metricConversionDuration = "uimorph.conversion.duration.seconds"
	metricWarningsTotal      = "uimorph.warnings.total"

	attrFrom = "from"
	attrTo   = "to"
)

// durationBucketBoundaries covers sub-millisecond single-component
// conversions up to multi-second batch runs.
var durationBucketBoundaries = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5}

// ConversionMetrics holds the OTel instruments for conversion throughput,
// duration, and warning volume. It satisfies the engine's observer contract.
type ConversionMetrics struct {
	conversionsTotal metric.Int64Counter
	warningsTotal    metric.Int64Counter
	duration         metric.Float64Histogram
}

// NewConversionMetrics creates the conversion instruments from the given meter.
func NewConversionMetrics(mt metric.Meter) (*ConversionMetrics, error) {
	conversions, err := mt.Int64Counter(metricConversionsTotal,
		metric.WithDescription("Total number of conversions"),
		metric.WithUnit("{conversion}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricConversionsTotal, err)
	}

	warnings, err := mt.Int64Counter(metricWarningsTotal,
		metric.WithDescription("Total number of conversion warnings"),
		metric.WithUnit("{warning}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricWarningsTotal, err)
	}

	duration, err := mt.Float64Histogram(metricConversionDuration,
		metric.WithDescription("Conversion duration in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricConversionDuration, err)
	}

	return &ConversionMetrics{
		conversionsTotal: conversions,
		warningsTotal:    warnings,
		duration:         duration,
	}, nil
}

// ObserveConversion records one finished conversion.
func (cm *ConversionMetrics) ObserveConversion(from, to ir.Framework, warnings int, elapsed time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(
		attribute.String(attrFrom, string(from)),
		attribute.String(attrTo, string(to)),
	)

	cm.conversionsTotal.Add(ctx, 1, attrs)
	cm.duration.Record(ctx, elapsed.Seconds(), attrs)

	if warnings > 0 {
		cm.warningsTotal.Add(ctx, int64(warnings), attrs)
	}
}
