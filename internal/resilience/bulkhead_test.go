package resilience

import (
	"context"
	"sync"
	"testing"
)

func TestBulkhead_LimitsConcurrency(t *testing.T) {
	b := NewBulkhead(2)
	var mu sync.Mutex
	current, peak := 0, 0
	var wg sync.WaitGroup

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			b.Execute(context.Background(), func(ctx context.Context) error {
				mu.Lock()
				current++
				if current > peak {
					peak = current
				}
				mu.Unlock()

				mu.Lock()
				current--
				mu.Unlock()
				return nil
			})
		}()
	}
	wg.Wait()

	if peak > 2 {
		t.Errorf("peak concurrency = %d, want <= 2", peak)
	}
}

func TestBulkhead_TryExecuteFullReturnsError(t *testing.T) {
	b := NewBulkhead(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go b.Execute(context.Background(), func(ctx context.Context) error {
		close(started)
		<-release
		return nil
	})
	<-started

	err := b.TryExecute(context.Background(), func(ctx context.Context) error { return nil })
	if err != ErrBulkheadFull {
		t.Errorf("want ErrBulkheadFull, got %v", err)
	}
	close(release)
}
