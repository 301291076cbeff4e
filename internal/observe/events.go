package observe

import "time"

// EventType names one of the structured events the control loop emits, per
// the event schema.
type EventType string

const (
	EventHealthCheckCycle       EventType = "health_check_cycle"
	EventStateTransition        EventType = "state_transition"
	EventBGPAdvertisementChange EventType = "bgp_advertisement_change"
	EventCloudflareRouteUpdate  EventType = "cloudflare_route_update"
	EventCircuitBreakerEvent    EventType = "circuit_breaker_event"
	EventConnectivityTest       EventType = "connectivity_test"
	EventHealthCheckResult      EventType = "health_check_result"
)

// Event is the common envelope every emitted event carries. Fields is the
// event-specific payload (e.g. a health_check_cycle event's
// configuration.passive_mode and operation_results.*); it is flattened into
// the JSON object at marshal time, not nested under a "fields" key, so the
// emitted log line matches the documented schema exactly.
type Event struct {
	Type          EventType
	CorrelationID string
	Timestamp     time.Time
	DurationMS    int64
	Result        string
	Fields        map[string]any
}

// toMap renders e as the flat map a Logger or file sink marshals to JSON.
func (e Event) toMap() map[string]any {
	m := make(map[string]any, len(e.Fields)+5)
	for k, v := range e.Fields {
		m[k] = v
	}
	m["event_type"] = string(e.Type)
	m["correlation_id"] = e.CorrelationID
	m["timestamp"] = e.Timestamp.UTC().Format(time.RFC3339Nano)
	m["duration_ms"] = e.DurationMS
	m["result"] = e.Result
	return m
}
