package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics records per-tick control-loop measurements. Implementations must
// be safe for concurrent use and must not panic.
type Metrics interface {
	RecordTick(ctx context.Context, result string, durationMS int64)
	RecordCommittedState(ctx context.Context, state int)
	RecordDroppedEvent(ctx context.Context)
}

type otelMetrics struct {
	tickDuration   metric.Int64Histogram
	tickResult     metric.Int64Counter
	committedState metric.Int64Gauge
	droppedEvents  metric.Int64Counter
}

// NewMetrics builds a Metrics backed by an OpenTelemetry meter.
func NewMetrics(meter metric.Meter) (Metrics, error) {
	tickDuration, err := meter.Int64Histogram(
		"routedaemon.tick.duration_ms",
		metric.WithDescription("Control loop tick duration"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}
	tickResult, err := meter.Int64Counter(
		"routedaemon.tick.result",
		metric.WithDescription("Control loop tick outcomes by result label"),
		metric.WithUnit("{tick}"),
	)
	if err != nil {
		return nil, err
	}
	committedState, err := meter.Int64Gauge(
		"routedaemon.committed_state",
		metric.WithDescription("Currently committed StateCode"),
	)
	if err != nil {
		return nil, err
	}
	droppedEvents, err := meter.Int64Counter(
		"routedaemon.events.dropped",
		metric.WithDescription("Events dropped because the emitter channel was full"),
		metric.WithUnit("{event}"),
	)
	if err != nil {
		return nil, err
	}
	return &otelMetrics{
		tickDuration:   tickDuration,
		tickResult:     tickResult,
		committedState: committedState,
		droppedEvents:  droppedEvents,
	}, nil
}

func (m *otelMetrics) RecordTick(ctx context.Context, result string, durationMS int64) {
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.tickDuration.Record(ctx, durationMS, attrs)
	m.tickResult.Add(ctx, 1, attrs)
}

func (m *otelMetrics) RecordCommittedState(ctx context.Context, state int) {
	m.committedState.Record(ctx, int64(state))
}

func (m *otelMetrics) RecordDroppedEvent(ctx context.Context) {
	m.droppedEvents.Add(ctx, 1)
}

// NoopMetrics discards every measurement.
type NoopMetrics struct{}

func (NoopMetrics) RecordTick(ctx context.Context, result string, durationMS int64) {}
func (NoopMetrics) RecordCommittedState(ctx context.Context, state int)             {}
func (NoopMetrics) RecordDroppedEvent(ctx context.Context)                          {}

var _ Metrics = (*otelMetrics)(nil)
var _ Metrics = NoopMetrics{}
