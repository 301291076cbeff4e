package resilience

import "context"

// Executor composes a circuit breaker, retry engine, and timeout around a
// single external call category (health checks, bgp checks, bgp updates,
// cloudflare updates — each gets its own Executor built from its own §6
// config knobs).
type Executor struct {
	breaker *CircuitBreaker
	retry   *Retry
	timeout *Timeout
}

// NewExecutor assembles an Executor. Any component may be nil to skip it.
func NewExecutor(breaker *CircuitBreaker, retry *Retry, timeout *Timeout) *Executor {
	return &Executor{breaker: breaker, retry: retry, timeout: timeout}
}

// Execute runs op through breaker(retry(timeout(op))) — the breaker sees
// the outcome of the full retry sequence, so a single flaky call does not
// trip it, but a sequence that exhausts retries does.
func (e *Executor) Execute(ctx context.Context, op func(context.Context) error) error {
	inner := op
	if e.timeout != nil {
		wrapped := inner
		inner = func(ctx context.Context) error { return e.timeout.Execute(ctx, wrapped) }
	}
	if e.retry != nil {
		wrapped := inner
		inner = func(ctx context.Context) error { return e.retry.Execute(ctx, wrapped) }
	}
	if e.breaker != nil {
		wrapped := inner
		inner = func(ctx context.Context) error { return e.breaker.Call(ctx, wrapped) }
	}
	return inner(ctx)
}
