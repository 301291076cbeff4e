// Package statecode defines the control plane's StateCode enum and the
// reduction from the three post-hysteresis health channels to it.
package statecode

import "github.com/mancow2001/mt-gcp-router-management/internal/health"

// StateCode is the committed failover state, 0..6 per spec §4.6.
type StateCode int

const (
	// Unknown is the fallback state: some channel reported UNKNOWN this
	// tick, or the (local, remote, bgp) combination is not one of the six
	// named states.
	Unknown StateCode = 0
	// Nominal is both regions healthy with BGP up.
	Nominal StateCode = 1
	// LocalDown is local unhealthy, remote healthy, BGP up.
	LocalDown StateCode = 2
	// RemoteDown is local healthy, remote unhealthy, BGP up.
	RemoteDown StateCode = 3
	// BothDown is both regions unhealthy, BGP still up.
	BothDown StateCode = 4
	// BGPDownLocalOut is local unhealthy, remote healthy, BGP down.
	BGPDownLocalOut StateCode = 5
	// BGPDownNominal is both regions healthy, BGP down.
	BGPDownNominal StateCode = 6
)

// String names the state for log fields; it never returns the bare integer.
func (s StateCode) String() string {
	switch s {
	case Unknown:
		return "UNKNOWN"
	case Nominal:
		return "NOMINAL"
	case LocalDown:
		return "LOCAL_DOWN"
	case RemoteDown:
		return "REMOTE_DOWN"
	case BothDown:
		return "BOTH_DOWN"
	case BGPDownLocalOut:
		return "BGP_DOWN_LOCAL_OUT"
	case BGPDownNominal:
		return "BGP_DOWN_NOMINAL"
	default:
		return "UNKNOWN"
	}
}

// IsVerifiable reports whether this state is subject to the Verification
// Gate (§4.7): only 2, 3 and 4 require consecutive-observation proof before
// a commit is accepted.
func (s StateCode) IsVerifiable() bool {
	return s == LocalDown || s == RemoteDown || s == BothDown
}

// IsException reports whether s is a member of the given dwell-time
// exception set (§4.8). A nil or empty set means no exceptions.
func (s StateCode) IsException(exceptions map[StateCode]bool) bool {
	return exceptions[s]
}

// Reduce maps the three post-hysteresis health channels to a StateCode per
// the §4.6 table. Any Unknown input short-circuits to Unknown; any
// combination not named in the table also falls back to Unknown, per the
// table's own fallback clause.
func Reduce(local, remote, bgp health.Health) StateCode {
	if local == health.Unknown || remote == health.Unknown || bgp == health.Unknown {
		return Unknown
	}

	switch {
	case local == health.Healthy && remote == health.Healthy && bgp == health.Healthy:
		return Nominal
	case local == health.Unhealthy && remote == health.Healthy && bgp == health.Healthy:
		return LocalDown
	case local == health.Healthy && remote == health.Unhealthy && bgp == health.Healthy:
		return RemoteDown
	case local == health.Unhealthy && remote == health.Unhealthy && bgp == health.Healthy:
		return BothDown
	case local == health.Unhealthy && remote == health.Healthy && bgp == health.Unhealthy:
		return BGPDownLocalOut
	case local == health.Healthy && remote == health.Healthy && bgp == health.Unhealthy:
		return BGPDownNominal
	default:
		// e.g. (Healthy, Unhealthy, Unhealthy-bgp) — not a named state.
		return Unknown
	}
}

// bgp health channel uses the same tri-value as backend health: Healthy
// means UP, Unhealthy means DOWN, Unknown means the probe could not decide.
// The alias below documents that mapping at call sites that probe BGP.
type BGP = health.Health

const (
	BGPUp      = health.Healthy
	BGPDown    = health.Unhealthy
	BGPUnknown = health.Unknown
)
