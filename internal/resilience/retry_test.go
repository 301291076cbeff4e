package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 3, Initial: time.Millisecond, Max: 5 * time.Millisecond, Factor: 2})
	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errBoom
		}
		return nil
	})
	if err != nil {
		t.Fatalf("want success, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("want 3 attempts, got %d", attempts)
	}
}

func TestRetry_ExhaustionSurfacesLastError(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 2, Initial: time.Millisecond, Max: time.Millisecond, Factor: 2})
	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("want errBoom, got %v", err)
	}
	if attempts != 3 {
		t.Errorf("want 3 total attempts (1 + 2 retries), got %d", attempts)
	}
}

func TestRetry_NonRetryableTerminatesImmediately(t *testing.T) {
	attempts := 0
	permanent := errors.New("permanent")
	r := NewRetry(RetryConfig{
		MaxRetries: 5,
		Initial:    time.Millisecond,
		RetryIf:    func(err error) bool { return !errors.Is(err, permanent) },
	})
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("want permanent error, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("want exactly 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestRetry_DelayCappedAtMax(t *testing.T) {
	r := NewRetry(RetryConfig{Initial: time.Second, Max: 2 * time.Second, Factor: 10})
	d := r.delayFor(5) // would be enormous uncapped
	if d < 2*time.Second || d > 3*time.Second {
		t.Errorf("delay %v should be within [max, max+max/2]", d)
	}
}

func TestRetry_ContextCancellationDuringBackoff(t *testing.T) {
	r := NewRetry(RetryConfig{MaxRetries: 5, Initial: 50 * time.Millisecond, Max: time.Second, Factor: 2})
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	err := r.Execute(ctx, func(ctx context.Context) error { return errBoom })
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("want context.Canceled, got %v", err)
	}
}
