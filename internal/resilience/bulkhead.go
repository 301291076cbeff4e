package resilience

import (
	"context"
)

// Bulkhead bounds the number of concurrent operations, used by the
// actuator (§4.10) to cap concurrent writes against upstream APIs without
// serializing the independent primary/secondary/priority operations
// entirely.
type Bulkhead struct {
	slots chan struct{}
}

// NewBulkhead creates a Bulkhead admitting up to maxConcurrent operations
// at once.
func NewBulkhead(maxConcurrent int) *Bulkhead {
	if maxConcurrent <= 0 {
		maxConcurrent = 1
	}
	return &Bulkhead{slots: make(chan struct{}, maxConcurrent)}
}

// Execute runs op once a slot is free, or returns ErrBulkheadFull if ctx is
// done first.
func (b *Bulkhead) Execute(ctx context.Context, op func(context.Context) error) error {
	select {
	case b.slots <- struct{}{}:
	case <-ctx.Done():
		return ErrBulkheadFull
	}
	defer func() { <-b.slots }()

	return op(ctx)
}

// TryExecute runs op only if a slot is immediately available, else returns
// ErrBulkheadFull without waiting.
func (b *Bulkhead) TryExecute(ctx context.Context, op func(context.Context) error) error {
	select {
	case b.slots <- struct{}{}:
	default:
		return ErrBulkheadFull
	}
	defer func() { <-b.slots }()
	return op(ctx)
}
