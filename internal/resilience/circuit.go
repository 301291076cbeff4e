// Package resilience wraps every external call the daemon makes with a
// circuit breaker, a retry engine, a per-call timeout, and (for the
// actuator's independent writes) a bulkhead bounding concurrency.
package resilience

import (
	"context"
	"sync"
	"time"
)

// breakerMode is the two-state machine spec §4.1 requires: no explicit
// HALF-OPEN state. While OPEN past timeout, the very next call is admitted
// as a probe in place, rather than transitioning through a third state.
type breakerMode int

const (
	modeClosed breakerMode = iota
	modeOpen
)

// CircuitBreakerConfig configures a CircuitBreaker.
type CircuitBreakerConfig struct {
	// Threshold is the number of consecutive failures before opening.
	Threshold int
	// Timeout is how long the breaker stays OPEN before admitting a probe.
	Timeout time.Duration
	// OnStateChange, if set, is invoked (not under the breaker's lock)
	// whenever the mode changes, for event emission.
	OnStateChange func(from, to string)
}

// CircuitBreaker implements §4.1. It is safe for concurrent use via a
// single mutex, per §5 ("Circuit breakers ... are the only objects touched
// by more than one thread").
type CircuitBreaker struct {
	cfg CircuitBreakerConfig

	mu       sync.Mutex
	mode     breakerMode
	failures int
	openedAt time.Time
}

// NewCircuitBreaker creates a CircuitBreaker with the given config.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	if cfg.Threshold <= 0 {
		cfg.Threshold = 5
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 300 * time.Second
	}
	return &CircuitBreaker{cfg: cfg}
}

// Call runs op iff the breaker admits it, per §4.1's state table. It
// returns ErrOpen without invoking op when the breaker is OPEN and still
// within its timeout window.
func (b *CircuitBreaker) Call(ctx context.Context, op func(context.Context) error) error {
	if !b.admit() {
		return ErrOpen
	}

	err := op(ctx)
	b.record(err == nil)
	return err
}

func (b *CircuitBreaker) admit() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.mode == modeClosed {
		return true
	}

	// OPEN: admit a single probe once the timeout has elapsed.
	if time.Since(b.openedAt) >= b.cfg.Timeout {
		return true
	}
	return false
}

func (b *CircuitBreaker) record(success bool) {
	b.mu.Lock()
	from := b.mode
	if success {
		b.failures = 0
		b.mode = modeClosed
	} else {
		b.failures++
		if b.mode == modeClosed && b.failures >= b.cfg.Threshold {
			b.mode = modeOpen
			b.openedAt = time.Now()
		} else if b.mode == modeOpen {
			// Failed probe while OPEN past timeout: extend the OPEN
			// window rather than compounding the failure count.
			b.openedAt = time.Now()
		}
	}
	to := b.mode
	b.mu.Unlock()

	if from != to && b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(modeName(from), modeName(to))
	}
}

func modeName(m breakerMode) string {
	if m == modeOpen {
		return "OPEN"
	}
	return "CLOSED"
}

// State reports the current mode and failure count, for diagnostics.
func (b *CircuitBreaker) State() (mode string, failures int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return modeName(b.mode), b.failures
}
