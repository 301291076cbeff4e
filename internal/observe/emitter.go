package observe

import "context"

// emitterChannelCap bounds the emitter's internal queue. A full channel
// drops the event rather than blocking the control loop tick that produced
// it.
const emitterChannelCap = 256

// Emitter decouples event production (the control loop) from event
// consumption (the logger, and any future sink) so a slow or stalled sink
// never stalls a tick.
type Emitter struct {
	logger  Logger
	metrics Metrics
	queue   chan Event
	done    chan struct{}
}

// NewEmitter starts a background goroutine draining events into logger and
// metrics. Callers must call Close to stop the goroutine.
func NewEmitter(logger Logger, metrics Metrics) *Emitter {
	e := &Emitter{
		logger:  logger,
		metrics: metrics,
		queue:   make(chan Event, emitterChannelCap),
		done:    make(chan struct{}),
	}
	go e.run()
	return e
}

// Emit enqueues ev for asynchronous delivery. If the queue is full, ev is
// dropped and a dropped-event counter is incremented instead of blocking.
func (e *Emitter) Emit(ctx context.Context, ev Event) {
	select {
	case e.queue <- ev:
	default:
		e.metrics.RecordDroppedEvent(ctx)
	}
}

func (e *Emitter) run() {
	defer close(e.done)
	for ev := range e.queue {
		e.logger.EmitEvent(context.Background(), ev)
	}
}

// Close stops accepting events and waits for the drain goroutine to finish
// delivering whatever is already queued.
func (e *Emitter) Close() {
	close(e.queue)
	<-e.done
}
