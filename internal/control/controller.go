// Package control owns the per-tick state: the three hysteresis windows,
// the verification gate, the dwell gate, and the currently committed
// StateCode. It is the only package that touches all three flap-protection
// layers together, and it is deliberately single-threaded — the control
// loop's goroutine is the sole writer per tick.
package control

import (
	"time"

	"github.com/mancow2001/mt-gcp-router-management/internal/dwell"
	"github.com/mancow2001/mt-gcp-router-management/internal/health"
	"github.com/mancow2001/mt-gcp-router-management/internal/hysteresis"
	"github.com/mancow2001/mt-gcp-router-management/internal/plan"
	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
	"github.com/mancow2001/mt-gcp-router-management/internal/verify"
)

// Observation is one tick's three raw (pre-hysteresis) health readings.
type Observation struct {
	Local  health.Health
	Remote health.Health
	BGP    health.Health
}

// TickResult is everything downstream (event emission, actuation) needs
// out of one call to Controller.Evaluate.
type TickResult struct {
	RawState       statecode.StateCode
	Verify         verify.Decision
	Dwell          dwell.Decision
	Committed      bool
	CommittedState statecode.StateCode
	CommittedSince time.Time
	Plan           plan.Plan
}

// Controller composes the three flap-protection layers and the action
// planner into one per-tick evaluation.
type Controller struct {
	localWindow  *hysteresis.Window
	remoteWindow *hysteresis.Window
	bgpWindow    *hysteresis.Window

	verifyGate *verify.Gate
	dwellGate  *dwell.Gate

	committed      statecode.StateCode
	committedSince time.Time
}

// New builds a Controller. now seeds the initial committedSince so the
// first tick's dwell evaluation has a defined elapsed time.
func New(localWindow, remoteWindow, bgpWindow *hysteresis.Window, verifyGate *verify.Gate, dwellGate *dwell.Gate, now time.Time) *Controller {
	return &Controller{
		localWindow:    localWindow,
		remoteWindow:   remoteWindow,
		bgpWindow:      bgpWindow,
		verifyGate:     verifyGate,
		dwellGate:      dwellGate,
		committed:      statecode.Unknown,
		committedSince: now,
	}
}

// CommittedState reports the currently committed state and when it was
// committed. Safe to call between ticks (single-threaded control loop).
func (c *Controller) CommittedState() (statecode.StateCode, time.Time) {
	return c.committed, c.committedSince
}

// Evaluate runs one tick's three raw observations through hysteresis,
// reduction, verification, and dwell, and returns the resulting plan.
//
// Per §4.4/§4.5, an UNKNOWN raw observation on any channel bypasses
// hysteresis entirely for that tick: the windows are left untouched and the
// reduced state is forced to Unknown (state 0), which §4.9 maps to a
// three-way no-op plan.
func (c *Controller) Evaluate(now time.Time, obs Observation) TickResult {
	if obs.Local == health.Unknown || obs.Remote == health.Unknown || obs.BGP == health.Unknown {
		// An UNKNOWN channel never reaches the commit machinery: state 0
		// isn't itself verifiable, and the dwell gate's exception bypass
		// would otherwise let it override a real committed state (e.g.
		// Nominal, an exception state) the instant a probe flakes.
		return TickResult{
			RawState:       statecode.Unknown,
			CommittedState: c.committed,
			CommittedSince: c.committedSince,
			Plan:           plan.For(statecode.Unknown),
		}
	}

	local := c.localWindow.Observe(obs.Local)
	remote := c.remoteWindow.Observe(obs.Remote)
	bgp := c.bgpWindow.Observe(obs.BGP)
	rawState := statecode.Reduce(local, remote, bgp)

	verifyDecision := c.verifyGate.Evaluate(rawState, c.committed)
	result := TickResult{
		RawState:       rawState,
		Verify:         verifyDecision,
		CommittedState: c.committed,
		CommittedSince: c.committedSince,
		Plan:           plan.For(c.committed),
	}

	if !verifyDecision.Accepted {
		return result
	}
	if rawState == c.committed {
		// Verification gate already treats same-as-committed as an
		// immediate no-op accept; nothing to dwell-gate or commit.
		return result
	}

	dwellDecision := c.dwellGate.Evaluate(rawState, c.committed, c.committedSince, now)
	result.Dwell = dwellDecision
	if !dwellDecision.Allowed {
		return result
	}

	c.committed = rawState
	c.committedSince = now
	c.syncWindowDirection(rawState)

	result.Committed = true
	result.CommittedState = c.committed
	result.CommittedSince = c.committedSince
	result.Plan = plan.For(c.committed)
	return result
}

// syncWindowDirection feeds the asymmetric-mode windows the new commit so
// their StayHealthy/BecomeHealthy bias tracks the latest committed
// direction rather than the raw per-tick observation.
func (c *Controller) syncWindowDirection(state statecode.StateCode) {
	local, remote, bgp := stateToChannelHealth(state)
	c.localWindow.SetLastCommitted(local)
	c.remoteWindow.SetLastCommitted(remote)
	c.bgpWindow.SetLastCommitted(bgp)
}

// stateToChannelHealth inverts statecode.Reduce enough to know, for a
// committed state, which channels were healthy — used only to bias the
// asymmetric hysteresis windows' direction, never to re-derive the state
// itself.
func stateToChannelHealth(state statecode.StateCode) (local, remote, bgp health.Health) {
	switch state {
	case statecode.Nominal:
		return health.Healthy, health.Healthy, health.Healthy
	case statecode.LocalDown:
		return health.Unhealthy, health.Healthy, health.Healthy
	case statecode.RemoteDown:
		return health.Healthy, health.Unhealthy, health.Healthy
	case statecode.BothDown:
		return health.Unhealthy, health.Unhealthy, health.Healthy
	case statecode.BGPDownLocalOut:
		return health.Unhealthy, health.Healthy, health.Unhealthy
	case statecode.BGPDownNominal:
		return health.Healthy, health.Healthy, health.Unhealthy
	default:
		return health.Unknown, health.Unknown, health.Unknown
	}
}
