// Package dwell implements Layer 3 of the route-flap protection pipeline:
// a minimum-time-in-state requirement with an exception set that bypasses it.
package dwell

import (
	"errors"
	"time"

	"github.com/mancow2001/mt-gcp-router-management/internal/statecode"
)

// ErrInvalidDwell indicates a configured min dwell outside [30s, 600s].
var ErrInvalidDwell = errors.New("dwell: min dwell time must be between 30s and 600s")

// DefaultExceptions returns the spec default exception set {1, 4}.
func DefaultExceptions() map[statecode.StateCode]bool {
	return map[statecode.StateCode]bool{
		statecode.Nominal:  true,
		statecode.BothDown: true,
	}
}

// Config configures a Gate.
type Config struct {
	// MinDwell is the minimum time a non-exception committed state must
	// hold before it may be replaced, 30s..600s.
	MinDwell time.Duration
	// Exceptions is the set of states whose presence on either side of a
	// transition bypasses MinDwell entirely.
	Exceptions map[statecode.StateCode]bool
}

// Validate checks MinDwell is within the spec-mandated range.
func (c Config) Validate() error {
	if c.MinDwell < 30*time.Second || c.MinDwell > 600*time.Second {
		return ErrInvalidDwell
	}
	return nil
}

// Gate is stateless beyond its configuration; the committed-state record it
// evaluates against is owned by the caller (control.Controller).
type Gate struct {
	cfg Config
}

// New creates a Gate.
func New(cfg Config) (*Gate, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Exceptions == nil {
		cfg.Exceptions = DefaultExceptions()
	}
	return &Gate{cfg: cfg}, nil
}

// Decision reports whether a transition candidate may commit.
type Decision struct {
	Allowed bool
	// ExceptionBypass reports whether the allow came from the exception
	// set rather than elapsed dwell time, for event payloads.
	ExceptionBypass bool
	// Elapsed is how long the current state has been committed, for
	// "dwell_blocked" event payloads.
	Elapsed time.Duration
}

// Evaluate applies §4.8 to a transition candidate R that has already passed
// the verification gate. committedState/committedSince describe the
// currently committed record; now is the tick's monotonic time.
func (g *Gate) Evaluate(candidate, committedState statecode.StateCode, committedSince, now time.Time) Decision {
	if candidate == committedState {
		// Not a transition; nothing to gate. Callers should not normally
		// reach here (verify.Gate already treats R==committed as a
		// no-op), but the dwell gate is conservative and allows it.
		return Decision{Allowed: true}
	}

	elapsed := now.Sub(committedSince)

	if committedState.IsException(g.cfg.Exceptions) || candidate.IsException(g.cfg.Exceptions) {
		return Decision{Allowed: true, ExceptionBypass: true, Elapsed: elapsed}
	}

	// Boundary is inclusive: exactly MinDwell permits the transition.
	if elapsed >= g.cfg.MinDwell {
		return Decision{Allowed: true, Elapsed: elapsed}
	}
	return Decision{Allowed: false, Elapsed: elapsed}
}
