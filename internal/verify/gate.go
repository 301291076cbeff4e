// Package verify implements Layer 2 of the route-flap protection pipeline:
// a per-state consecutive-observation counter that gates commits to the
// verifiable states (2, 3, 4).
package verify

import (
	"errors"

	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
)

// ErrInvalidThreshold indicates a per-state threshold outside [1, 10].
var ErrInvalidThreshold = errors.New("verify: threshold must be between 1 and 10")

// Thresholds maps each verifiable state to its required consecutive-tick
// count before a commit is accepted. A threshold of 1 disables
// verification for that state (first observation accepts immediately).
type Thresholds map[statecode.StateCode]int

// Validate checks every configured threshold is within [1, 10].
func (t Thresholds) Validate() error {
	for _, v := range t {
		if v < 1 || v > 10 {
			return ErrInvalidThreshold
		}
	}
	return nil
}

// DefaultThresholds returns the spec default of 2 for every verifiable state.
func DefaultThresholds() Thresholds {
	return Thresholds{
		statecode.LocalDown:  2,
		statecode.RemoteDown: 2,
		statecode.BothDown:   2,
	}
}

// Gate holds the single non-zero verification counter invariant (§3: "at
// most one verification counter non-zero at a time").
type Gate struct {
	thresholds Thresholds
	state      statecode.StateCode
	count      int
}

// New creates a Gate. It is not safe for concurrent use.
func New(thresholds Thresholds) (*Gate, error) {
	if err := thresholds.Validate(); err != nil {
		return nil, err
	}
	return &Gate{thresholds: thresholds}, nil
}

// Decision is the result of evaluating a raw state against the gate.
type Decision struct {
	// Accepted reports whether the commit may proceed to the dwell gate.
	Accepted bool
	// Pending reports whether this was a verifiable state still waiting
	// on more consecutive observations (used to emit a
	// "pending verification" event rather than silence).
	Pending bool
	// Count is the counter value after this observation, for event payloads.
	Count int
	// Threshold is the configured threshold for the observed state, 0 if n/a.
	Threshold int
}

// Evaluate applies §4.7 to a newly computed raw state R against the
// currently committed state.
func (g *Gate) Evaluate(raw, committed statecode.StateCode) Decision {
	if !raw.IsVerifiable() {
		// States 0,1,5,6: all counters reset, gate accepts immediately.
		g.reset()
		return Decision{Accepted: true}
	}

	if raw == committed {
		// No-op commit: reset and accept.
		g.reset()
		return Decision{Accepted: true}
	}

	if g.state != raw {
		// Observing a different raw state resets the current counter.
		g.state = raw
		g.count = 0
	}
	g.count++

	threshold := g.thresholds[raw]
	if threshold <= 0 {
		threshold = 1
	}

	if g.count < threshold {
		return Decision{Accepted: false, Pending: true, Count: g.count, Threshold: threshold}
	}

	accepted := Decision{Accepted: true, Count: g.count, Threshold: threshold}
	g.reset()
	return accepted
}

func (g *Gate) reset() {
	g.state = statecode.Unknown
	g.count = 0
}

// Count returns the current counter value and the state it is counting,
// for diagnostics (§3 invariant: at most one counter non-zero).
func (g *Gate) Count() (state statecode.StateCode, count int) {
	return g.state, g.count
}
