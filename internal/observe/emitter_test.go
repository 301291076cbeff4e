package observe

import (
	"bytes"
	"context"
	"testing"
	"time"
)

type countingMetrics struct {
	NoopMetrics
	dropped int
}

func (m *countingMetrics) RecordDroppedEvent(ctx context.Context) { m.dropped++ }

func TestEmitter_DeliversEvent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)
	e := NewEmitter(logger, NoopMetrics{})
	e.Emit(context.Background(), Event{Type: EventHealthCheckResult, Timestamp: time.Now()})
	e.Close()
	if buf.Len() == 0 {
		t.Error("expected an emitted log line")
	}
}

func TestEmitter_DropsWhenFull(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithWriter("debug", &buf)
	metrics := &countingMetrics{}
	e := &Emitter{logger: logger, metrics: metrics, queue: make(chan Event), done: make(chan struct{})}
	close(e.done) // no drain goroutine running: queue (unbuffered) is always full for a non-blocking send
	e.Emit(context.Background(), Event{Type: EventHealthCheckResult, Timestamp: time.Now()})
	if metrics.dropped != 1 {
		t.Errorf("dropped = %d, want 1", metrics.dropped)
	}
}
