package resilience

import (
	"context"
	"testing"
	"time"
)

func TestExecutor_ComposesAllLayers(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 10, Timeout: time.Second})
	retry := NewRetry(RetryConfig{MaxRetries: 2, Initial: time.Millisecond, Max: 5 * time.Millisecond})
	timeout := NewTimeout(100 * time.Millisecond)
	e := NewExecutor(breaker, retry, timeout)

	attempts := 0
	err := e.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 2 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("want success, got %v", err)
	}
	if attempts != 2 {
		t.Errorf("want 2 attempts, got %d", attempts)
	}
}

func TestExecutor_BreakerOpensAfterRetryExhaustion(t *testing.T) {
	breaker := NewCircuitBreaker(CircuitBreakerConfig{Threshold: 1, Timeout: time.Second})
	retry := NewRetry(RetryConfig{MaxRetries: 1, Initial: time.Millisecond, Max: time.Millisecond})
	e := NewExecutor(breaker, retry, nil)

	// First call: retries exhaust, breaker records one failure, opens (threshold=1).
	err := e.Execute(context.Background(), func(ctx context.Context) error { return errBoom })
	if err == nil {
		t.Fatal("want error")
	}

	invoked := false
	err = e.Execute(context.Background(), func(ctx context.Context) error {
		invoked = true
		return nil
	})
	if err != ErrOpen {
		t.Fatalf("want ErrOpen, got %v", err)
	}
	if invoked {
		t.Error("op should not run once breaker is open")
	}
}
