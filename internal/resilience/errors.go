package resilience

import "errors"

// Sentinel errors for resilience operations.
var (
	// ErrOpen is returned when the circuit breaker rejects a call without
	// invoking the operation.
	ErrOpen = errors.New("resilience: circuit breaker is open")

	// ErrRetriesExhausted wraps the final error once the retry engine has
	// used its last attempt.
	ErrRetriesExhausted = errors.New("resilience: retries exhausted")

	// ErrBulkheadFull is returned when a bulkhead is at capacity and the
	// caller did not opt to wait.
	ErrBulkheadFull = errors.New("resilience: bulkhead at capacity")

	// ErrTimeout is returned when an operation exceeds its configured
	// timeout.
	ErrTimeout = errors.New("resilience: operation timed out")
)
