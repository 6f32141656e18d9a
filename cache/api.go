package cache

import (
	"context"
	"time"
)

// Cache is a process-local, in-memory key/value cache with per-entry
// TTL expiration and single-flight computation on miss.
// All methods are safe for concurrent use by multiple goroutines.
//
// Keys are opaque strings; callers own the naming scheme and should
// build hierarchical, prefix-friendly keys (e.g. "market:item:42") so
// that Invalidate can drop whole namespaces. Values are generic and
// returned by value: callers must not mutate reference-typed values
// after storing or retrieving them (the JSON helpers provide deep
// isolation when that contract is too weak).
type Cache[V any] interface {
	// Set stores value under key with an absolute deadline of now+ttl,
	// unconditionally replacing any existing entry. A non-positive ttl
	// stores the entry without a deadline (see NoExpiration).
	Set(key string, value V, ttl time.Duration)

	// Get returns the stored value, ErrNotFound for an absent key, or
	// ErrExpired for a present-but-stale one. Observing an expired
	// entry triggers one sweep removing every expired entry in the
	// store; callers must not assume other stale keys survive it.
	Get(key string) (V, error)

	// GetOrSet returns the cached value for key, computing and storing
	// it on miss. Concurrent calls for the same missing key share one
	// compute invocation and receive its exact outcome; calls for other
	// keys are never blocked by it. A compute failure is returned to
	// every sharing caller verbatim and is not cached. ctx bounds only
	// this caller's willingness to wait on someone else's computation —
	// cancelling it abandons the wait, not the computation.
	GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func() (V, error)) (V, error)

	// Delete removes key if present and reports whether it did.
	// Deleting an absent key is a no-op.
	Delete(key string) bool

	// Invalidate removes every key that starts with prefix (literal
	// match, so an empty prefix removes everything) and returns the
	// number of entries removed.
	Invalidate(prefix string) int

	// Clear removes all entries unconditionally, regardless of
	// expiration state.
	Clear()

	// Stats returns a point-in-time census of the store without
	// mutating it: expired-but-unreaped entries are counted, not
	// removed.
	Stats() Stats

	// Len returns the number of resident entries, including expired
	// ones the reap has not collected yet. Equivalent to Stats().Total.
	Len() int

	// Close marks the cache closed and releases its contents. A closed
	// cache behaves permanently empty: reads miss, mutations are
	// ignored, and GetOrSet still computes but retains nothing.
	Close() error
}

// Stats is a census of the store at one instant. Total counts every
// resident entry; Active those whose deadline has not passed; Expired
// the stale ones the lazy reap has not collected yet.
type Stats struct {
	Total   int `json:"total_keys"`
	Active  int `json:"active_keys"`
	Expired int `json:"expired_keys"`
}
