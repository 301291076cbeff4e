package resilience

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// RetryConfig configures a Retry engine per §4.2.
type RetryConfig struct {
	// MaxRetries is the number of retries after the initial attempt (so
	// total attempts = MaxRetries + 1).
	MaxRetries int
	// Initial is the first retry's base delay before jitter.
	Initial time.Duration
	// Max caps the base delay (before jitter is added).
	Max time.Duration
	// Factor is the exponential backoff multiplier.
	Factor float64
	// RetryIf decides whether an error is retryable. nil retries every
	// non-nil error.
	RetryIf func(err error) bool
	// OnRetry, if set, is invoked before each backoff sleep.
	OnRetry func(attempt int, err error, delay time.Duration)
}

// Retry implements §4.2's exponential-backoff-with-jitter engine.
type Retry struct {
	cfg RetryConfig
}

// NewRetry creates a Retry engine with the given config.
func NewRetry(cfg RetryConfig) *Retry {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 3
	}
	if cfg.Initial <= 0 {
		cfg.Initial = time.Second
	}
	if cfg.Max <= 0 {
		cfg.Max = 60 * time.Second
	}
	if cfg.Factor <= 0 {
		cfg.Factor = 2.0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = func(err error) bool { return err != nil }
	}
	return &Retry{cfg: cfg}
}

// Execute runs op, retrying on retryable errors up to MaxRetries times.
// Delays follow min(max, initial*factor^attempt) with uniform jitter in
// [0, delay/2] added on top, per §4.2 — not the teacher's 25%-of-delay
// jitter band.
func (r *Retry) Execute(ctx context.Context, op func(context.Context) error) error {
	var lastErr error

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !r.cfg.RetryIf(err) {
			return err
		}
		if attempt >= r.cfg.MaxRetries {
			break
		}

		delay := r.delayFor(attempt)
		if r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt+1, err, delay)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}

	return lastErr
}

func (r *Retry) delayFor(attempt int) time.Duration {
	base := float64(r.cfg.Initial) * math.Pow(r.cfg.Factor, float64(attempt))
	if base > float64(r.cfg.Max) {
		base = float64(r.cfg.Max)
	}
	delay := time.Duration(base)

	if delay > 0 {
		// Uniform jitter in [0, delay/2].
		jitter := time.Duration(rand.Int64N(int64(delay/2) + 1))
		delay += jitter
	}
	return delay
}
