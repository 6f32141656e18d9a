// Package flight provides the per-key future used to coalesce
// concurrent computations for the same cache key.
//
// The cache owns the registry that maps keys to in-progress flights
// (guarded by the same lock as the store); this package only carries
// the outcome from the one goroutine that runs a computation to every
// goroutine waiting on it.
package flight

import "context"

// Flight is a single-use future for one in-progress computation.
//
// Concurrency notes:
//   - Exactly one goroutine (the leader) calls Resolve, exactly once.
//   - Publishing (val, err) happens-before close(done), so waiters that
//     return from Wait observe the final values without further locking.
//   - Cancelling ctx in a waiter unblocks only that waiter; the
//     computation keeps running and other waiters are unaffected.
type Flight[V any] struct {
	done chan struct{} // closed when val/err are published
	val  V
	err  error
}

// New returns an unresolved flight.
func New[V any]() *Flight[V] {
	return &Flight[V]{done: make(chan struct{})}
}

// Resolve publishes the outcome and wakes every current and future
// waiter. It must be called exactly once.
func (f *Flight[V]) Resolve(v V, err error) {
	f.val, f.err = v, err
	close(f.done)
}

// Wait blocks until the flight resolves or ctx is cancelled, and
// returns the computation's exact outcome. On cancellation it returns
// ctx.Err(); the computation itself is not stopped.
func (f *Flight[V]) Wait(ctx context.Context) (V, error) {
	select {
	case <-f.done:
		return f.val, f.err
	case <-ctx.Done():
		var zero V
		return zero, ctx.Err()
	}
}
