package observe

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel/sdk/metric"
)

func TestNewMetrics_RecordsWithoutError(t *testing.T) {
	mp := metric.NewMeterProvider()
	m, err := NewMetrics(mp.Meter("test"))
	if err != nil {
		t.Fatalf("NewMetrics: %v", err)
	}
	ctx := context.Background()
	m.RecordTick(ctx, "SUCCESS", 42)
	m.RecordCommittedState(ctx, 1)
	m.RecordDroppedEvent(ctx)
}

func TestNoopMetrics(t *testing.T) {
	var m Metrics = NoopMetrics{}
	ctx := context.Background()
	m.RecordTick(ctx, "SUCCESS", 1)
	m.RecordCommittedState(ctx, 0)
	m.RecordDroppedEvent(ctx)
}
