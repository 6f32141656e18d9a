package cache

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/stocklight/memocache/internal/flight"
)

// cache is a single-store engine: one map of immutable entries plus one
// registry of in-flight computations, guarded by the same lock.
// All methods are safe for concurrent use by multiple goroutines.
//
// Close empties the store under the lock, so read paths never consult
// the closed flag: a closed cache simply looks empty.
type cache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]entry[V]
	inflight map[string]*flight.Flight[V]

	closed atomic.Bool

	opt Options[V]
}

// New constructs a cache with the provided Options.
// Defaults:
//   - nil Metrics -> NoopMetrics
//   - nil Clock   -> wall clock (time.Now)
func New[V any](opt Options[V]) Cache[V] {
	// default Metrics
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	hint := opt.InitialCapacity
	if hint < 0 {
		hint = 0
	}
	// return pointer-to-impl as the interface (avoids unexported-return lint)
	return &cache[V]{
		entries:  make(map[string]entry[V], hint),
		inflight: make(map[string]*flight.Flight[V]),
		opt:      opt,
	}
}

// ---- Cache[V] implementation ----

// Set inserts or updates key→value with a per-key TTL (relative duration).
// A non-positive ttl stores the entry without an expiration deadline.
func (c *cache[V]) Set(key string, value V, ttl time.Duration) {
	if c.closed.Load() {
		return
	}
	e := entry[V]{val: value, exp: c.deadline(ttl)}

	c.mu.Lock()
	defer c.mu.Unlock()
	// Re-check under the lock: Close may have emptied the store between
	// the check above and acquiring the lock, and it must stay empty.
	if c.closed.Load() {
		return
	}
	c.entries[key] = e
	c.opt.Metrics.Size(len(c.entries))
}

// Get returns the live value for key. It reports ErrNotFound for absent
// keys and ErrExpired for entries whose deadline has passed; observing
// an expired entry triggers a reap of every expired entry in the store.
func (c *cache[V]) Get(key string) (V, error) {
	var zero V

	c.mu.RLock()
	e, ok := c.entries[key]
	c.mu.RUnlock()

	if !ok {
		c.opt.Metrics.Miss(MissNotFound)
		return zero, ErrNotFound
	}
	if !e.expiredAt(c.now()) {
		c.opt.Metrics.Hit()
		return e.val, nil
	}

	// The entry looked stale under the read lock. Re-check under the
	// write lock: it may have been refreshed or removed in between.
	c.mu.Lock()
	now := c.now()
	e, ok = c.entries[key]
	switch {
	case !ok:
		c.mu.Unlock()
		c.opt.Metrics.Miss(MissNotFound)
		return zero, ErrNotFound
	case !e.expiredAt(now):
		c.mu.Unlock()
		c.opt.Metrics.Hit()
		return e.val, nil
	}

	// Still stale: this read pays for the whole backlog.
	c.reapLocked(now)
	c.mu.Unlock()

	c.opt.Metrics.Miss(MissExpired)
	return zero, ErrExpired
}

// GetOrSet returns the cached value for key, or computes and stores one.
// Concurrent callers for the same missing key are coalesced: exactly one
// runs compute, the rest wait and share its outcome. A compute error is
// returned to every caller of that round and nothing is stored.
func (c *cache[V]) GetOrSet(ctx context.Context, key string, ttl time.Duration, compute func() (V, error)) (V, error) {
	// Fast path. A fresh entry wins immediately, and an expired one pays
	// for the reap before any computing starts.
	if v, err := c.Get(key); err == nil {
		return v, nil
	}

	c.mu.Lock()
	// Double-check: a concurrent flight may have landed a value between
	// the miss above and acquiring the lock.
	if e, ok := c.entries[key]; ok && !e.expiredAt(c.now()) {
		v := e.val
		c.mu.Unlock()
		c.opt.Metrics.Hit()
		return v, nil
	}
	if f, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		// Join the computation already in progress and share its outcome.
		return f.Wait(ctx)
	}
	f := flight.New[V]()
	c.inflight[key] = f
	c.mu.Unlock()

	// Leader: run compute with no locks held, so the rest of the cache
	// stays fully available while it is in progress.
	v, err := compute()

	c.mu.Lock()
	if err == nil && !c.closed.Load() {
		c.entries[key] = entry[V]{val: v, exp: c.deadline(ttl)}
		c.opt.Metrics.Size(len(c.entries))
	}
	// Removing the marker in the same critical section as the commit
	// keeps a flight visible only while its computation is genuinely in
	// progress: late arrivals start a fresh one instead of inheriting a
	// finished outcome.
	delete(c.inflight, key)
	c.mu.Unlock()

	f.Resolve(v, err)
	return v, err
}

// Delete removes key if present and returns true on success.
func (c *cache[V]) Delete(key string) bool {
	if c.closed.Load() {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.entries[key]; !ok {
		return false
	}
	delete(c.entries, key)
	c.opt.Metrics.Size(len(c.entries))
	return true
}

// Invalidate removes every entry whose key starts with prefix and
// returns the number removed, counting expired entries too. An empty
// prefix matches every key.
func (c *cache[V]) Invalidate(prefix string) int {
	if c.closed.Load() {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	removed := 0
	for k := range c.entries {
		if strings.HasPrefix(k, prefix) {
			delete(c.entries, k)
			removed++
		}
	}
	if removed > 0 {
		c.opt.Metrics.Size(len(c.entries))
	}
	return removed
}

// Clear drops every entry at once.
func (c *cache[V]) Clear() {
	if c.closed.Load() {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry[V])
	c.opt.Metrics.Size(0)
}

// Stats takes a census of the store against a single timestamp. It is a
// pure observation: expired entries are counted, never removed.
func (c *cache[V]) Stats() Stats {
	now := c.now()

	c.mu.RLock()
	defer c.mu.RUnlock()

	st := Stats{Total: len(c.entries)}
	for _, e := range c.entries {
		if e.expiredAt(now) {
			st.Expired++
		} else {
			st.Active++
		}
	}
	return st
}

// Len returns the number of resident entries, expired ones included.
func (c *cache[V]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Close marks the cache closed and drops its contents. Computations
// already in flight still resolve for their waiters, but their results
// are not retained. Close is idempotent.
func (c *cache[V]) Close() error {
	if c.closed.Swap(true) {
		return nil
	}
	c.mu.Lock()
	c.entries = make(map[string]entry[V])
	c.opt.Metrics.Size(0)
	c.mu.Unlock()
	return nil
}

// ---- helpers ----

// reapLocked removes every entry whose deadline has passed, in one pass
// over the store. The caller holds the write lock.
func (c *cache[V]) reapLocked(now int64) {
	removed := 0
	for k, e := range c.entries {
		if !e.expiredAt(now) {
			continue
		}
		delete(c.entries, k)
		removed++
		if cb := c.opt.OnExpire; cb != nil {
			cb(k, e.val)
		}
	}
	if removed > 0 {
		c.opt.Metrics.Reap(removed)
		c.opt.Metrics.Size(len(c.entries))
	}
}

// now reads the configured clock, or the wall clock when none is set.
func (c *cache[V]) now() int64 {
	if c.opt.Clock != nil {
		return c.opt.Clock.NowUnixNano()
	}
	return time.Now().UnixNano()
}

// deadline converts a relative TTL into an absolute UnixNano deadline.
// A non-positive ttl returns 0 (no expiration).
func (c *cache[V]) deadline(ttl time.Duration) int64 {
	if ttl <= 0 {
		return 0
	}
	return c.now() + int64(ttl)
}
