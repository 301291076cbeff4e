// Package hysteresis implements Layer 1 of the route-flap protection
// pipeline: a per-channel sliding window that smooths raw KNOWN
// observations before they reach the state reducer.
package hysteresis

import (
	"errors"

	"github.com/mancow2001/mt-gcp-router-management/internal/health"
)

// ErrInvalidWindowSize indicates a configured window size outside [3, 10].
var ErrInvalidWindowSize = errors.New("hysteresis: window size must be between 3 and 10")

// ErrInvalidThreshold indicates a symmetric threshold outside [1, W].
var ErrInvalidThreshold = errors.New("hysteresis: threshold must be between 1 and window size")

// Mode selects how a full window is converted back into a Health value.
type Mode int

const (
	// Symmetric applies the same threshold regardless of the last
	// committed direction.
	Symmetric Mode = iota
	// Asymmetric requires fewer true entries to stay healthy than to
	// become healthy again, damping flapping around a single threshold.
	Asymmetric
)

// AsymmetricThresholds names the two fixed thresholds Asymmetric mode uses.
// Spec §9 preserves these as hardcoded constants rather than deriving them
// from the configured symmetric threshold; they are given names here so a
// future config surface can expose them without changing behavior.
type AsymmetricThresholds struct {
	// StayHealthy is the minimum true-count to remain HEALTHY once
	// committed HEALTHY (defaults to 2 of W).
	StayHealthy int
	// BecomeHealthy is the minimum true-count required to transition from
	// UNHEALTHY back to HEALTHY (defaults to 4 of W).
	BecomeHealthy int
}

// DefaultAsymmetricThresholds returns the spec-mandated 2-to-stay,
// 4-to-change thresholds.
func DefaultAsymmetricThresholds() AsymmetricThresholds {
	return AsymmetricThresholds{StayHealthy: 2, BecomeHealthy: 4}
}

// Config configures a Window.
type Config struct {
	// Size is W, the window length, 3..10.
	Size int
	// Threshold is used only in Symmetric mode, 1..Size.
	Threshold int
	// ModeKind selects Symmetric or Asymmetric classification.
	ModeKind Mode
	// Asymmetric carries the fixed thresholds for Asymmetric mode.
	Asymmetric AsymmetricThresholds
}

// Validate checks Size/Threshold are within the ranges spec §4.5 requires.
func (c Config) Validate() error {
	if c.Size < 3 || c.Size > 10 {
		return ErrInvalidWindowSize
	}
	if c.ModeKind == Symmetric && (c.Threshold < 1 || c.Threshold > c.Size) {
		return ErrInvalidThreshold
	}
	return nil
}

// Window is a per-channel hysteresis smoother. It is not safe for
// concurrent use; callers serialize access the way control.Controller does
// (one tick's gating runs after all probes for that tick have joined).
type Window struct {
	cfg           Config
	entries       []bool // oldest to newest, len <= cfg.Size
	lastCommitted health.Health
}

// New creates a Window. Its asymmetric direction starts as health.Unknown,
// which is treated as "not yet healthy" (i.e. the BecomeHealthy threshold
// applies) until SetLastCommitted is first called.
func New(cfg Config) (*Window, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Window{cfg: cfg, lastCommitted: health.Unknown}, nil
}

// Len reports the current number of entries (<= cfg.Size).
func (w *Window) Len() int {
	return len(w.entries)
}

// SetLastCommitted updates the direction Asymmetric mode biases toward.
// The control loop calls this after every successful commit.
func (w *Window) SetLastCommitted(h health.Health) {
	w.lastCommitted = h
}

// Observe appends a KNOWN observation and returns the channel's smoothed
// Health for this tick. UNKNOWN observations must never reach this method
// (§4.4/§4.5 — the caller short-circuits the whole tick to state 0 and
// leaves the window untouched); passing one is a programming error and
// Observe panics to make that defect impossible to miss silently.
func (w *Window) Observe(raw health.Health) health.Health {
	v, ok := raw.Bool()
	if !ok {
		panic("hysteresis: Observe called with an UNKNOWN health; UNKNOWN must bypass the window")
	}

	w.entries = append(w.entries, v)
	if len(w.entries) > w.cfg.Size {
		w.entries = w.entries[len(w.entries)-w.cfg.Size:]
	}

	if len(w.entries) < w.cfg.Size {
		// Warm-up: classify on the raw observation alone.
		return raw
	}

	trueCount := 0
	for _, e := range w.entries {
		if e {
			trueCount++
		}
	}

	switch w.cfg.ModeKind {
	case Asymmetric:
		return w.classifyAsymmetric(trueCount)
	default:
		return health.FromBool(trueCount >= w.cfg.Threshold)
	}
}

func (w *Window) classifyAsymmetric(trueCount int) health.Health {
	th := w.cfg.Asymmetric
	if th.StayHealthy <= 0 && th.BecomeHealthy <= 0 {
		th = DefaultAsymmetricThresholds()
	}

	if w.lastCommitted == health.Healthy {
		if trueCount >= th.StayHealthy {
			return health.Healthy
		}
		return health.Unhealthy
	}

	// Last committed UNHEALTHY or UNKNOWN (process start): require the
	// stronger BecomeHealthy threshold before flipping HEALTHY.
	if trueCount >= th.BecomeHealthy {
		return health.Healthy
	}
	return health.Unhealthy
}
