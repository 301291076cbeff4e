package resilience

import (
	"context"
	"time"
)

// Timeout wraps an operation with a hard per-call deadline, used for the
// §6 per-category API timeouts (GCP_API_TIMEOUT, CLOUDFLARE_API_TIMEOUT, ...).
type Timeout struct {
	d time.Duration
}

// NewTimeout creates a Timeout wrapper with duration d.
func NewTimeout(d time.Duration) *Timeout {
	if d <= 0 {
		d = 30 * time.Second
	}
	return &Timeout{d: d}
}

// Execute runs op with a context bounded by the configured duration. A
// timeout is surfaced as ErrTimeout rather than ctx.Err() directly, so
// callers upstream (the health classifier, per §7) can treat it uniformly
// as a known-transient failure without inspecting context internals.
func (t *Timeout) Execute(ctx context.Context, op func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, t.d)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ErrTimeout
	}
}
