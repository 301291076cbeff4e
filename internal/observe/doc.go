// Package observe provides the structured event schema, JSON logger, and
// OpenTelemetry metrics the control loop reports through. Event delivery is
// asynchronous and non-blocking: a full Emitter queue drops the event and
// counts it rather than stalling a tick.
package observe
