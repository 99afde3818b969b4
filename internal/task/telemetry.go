package task

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// InstrumentationName is the name used for OTEL instrumentation.
const InstrumentationName = "github.com/fyrsmithlabs/curvesim/internal/task"

// Metrics provides OpenTelemetry metrics for the task driver.
type Metrics struct {
	strategyRunsTotal metric.Int64Counter
	iterationsTotal   metric.Int64Counter
	strategyDuration  metric.Float64Histogram

	initialized bool
}

// NewMetrics creates a Metrics instance with the provided meter. If
// meter is nil, the global meter provider is used.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	if meter == nil {
		meter = otel.Meter(InstrumentationName)
	}

	m := &Metrics{}
	var err error

	m.strategyRunsTotal, err = meter.Int64Counter(
		"task.strategy.runs.total",
		metric.WithDescription("Total number of strategy runs executed"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, err
	}

	m.iterationsTotal, err = meter.Int64Counter(
		"task.iterations.total",
		metric.WithDescription("Total number of strategy iterations executed"),
		metric.WithUnit("{iteration}"),
	)
	if err != nil {
		return nil, err
	}

	m.strategyDuration, err = meter.Float64Histogram(
		"task.strategy.duration",
		metric.WithDescription("Duration of one strategy run"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.initialized = true
	return m, nil
}

// RecordStrategyRun records one completed strategy run.
func (m *Metrics) RecordStrategyRun(ctx context.Context, strategyName string, iterations int, duration time.Duration) {
	if m == nil || !m.initialized {
		return
	}
	attrs := metric.WithAttributes(attribute.String("strategy", strategyName))
	m.strategyRunsTotal.Add(ctx, 1, attrs)
	m.iterationsTotal.Add(ctx, int64(iterations), attrs)
	m.strategyDuration.Record(ctx, duration.Seconds(), attrs)
}
