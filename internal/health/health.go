// Package health defines the tri-valued health signal the rest of the
// daemon reasons about, and the classifier that collapses raw monitor
// results into it.
package health

// Health is a tri-valued signal. It deliberately is not a *bool: UNKNOWN
// means the monitoring plane could not decide, which is a different fact
// than "the backend is down" and must never be silently coerced into one.
type Health int8

const (
	Unknown Health = iota
	Healthy
	Unhealthy
)

// String returns the canonical name used in log fields and event payloads.
func (h Health) String() string {
	switch h {
	case Healthy:
		return "HEALTHY"
	case Unhealthy:
		return "UNHEALTHY"
	case Unknown:
		return "UNKNOWN"
	default:
		return "UNKNOWN"
	}
}

// Bool reports the boolean hysteresis-window value for a KNOWN health.
// Callers must never invoke this for Unknown; ok is false in that case.
func (h Health) Bool() (value bool, ok bool) {
	switch h {
	case Healthy:
		return true, true
	case Unhealthy:
		return false, true
	default:
		return false, false
	}
}

// FromBool is the inverse of Bool, used by the hysteresis filter once it has
// smoothed a window of booleans back into a Health value.
func FromBool(healthy bool) Health {
	if healthy {
		return Healthy
	}
	return Unhealthy
}

// Classify maps a probe outcome to a Health value per §4.4 / §7: a
// transient or unclassified probe error becomes Unknown rather than
// propagating the error, so monitoring-plane failures cannot themselves
// drive data-plane change. A permanent error also becomes Unknown for the
// current tick (the caller is expected to have already logged it).
func Classify(err error, allKnownGood, anyKnownBad bool) Health {
	if err != nil {
		return Unknown
	}
	switch {
	case allKnownGood:
		return Healthy
	case anyKnownBad:
		return Unhealthy
	default:
		// No error, but the probe could not establish either extreme
		// (e.g. zero backends reported, or a mixed result outside the
		// clean all-good/any-bad split). Treat as unknown rather than
		// guessing.
		return Unknown
	}
}
