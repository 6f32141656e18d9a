package cache

import "time"

// MissReason explains why a read failed.
type MissReason int

const (
	// MissNotFound — the key was never stored or has been removed.
	MissNotFound MissReason = iota
	// MissExpired — the key was present but its TTL had lapsed
	// (the read that observes this also triggers the global reap).
	MissExpired
)

// Common TTL presets. Callers are free to pass any duration; these
// cover the usual tiers so call sites don't restate magic numbers.
// NoExpiration (or any non-positive TTL) stores an entry without a
// deadline.
const (
	NoExpiration time.Duration = 0

	TTLShort  = time.Minute
	TTLMedium = 5 * time.Minute
	TTLLong   = 30 * time.Minute
	TTLHour   = time.Hour
	TTLDay    = 24 * time.Hour
)

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
//
// Hooks may be invoked while the cache holds its internal lock;
// implementations must be cheap and safe for concurrent use.
type Metrics interface {
	Hit()
	Miss(reason MissReason)
	// Reap reports how many entries one lazy sweep removed.
	Reap(removed int)
	// Size reports the resident entry count after a mutation.
	Size(entries int)
}

// Clock provides time in UnixNano; useful for deterministic tests.
type Clock interface{ NowUnixNano() int64 }

// Options configures the cache behavior. The zero value is safe;
// sane defaults are applied in New():
//   - nil Metrics => NoopMetrics
//   - nil Clock   => time.Now
type Options[V any] struct {
	// InitialCapacity pre-sizes the store map. Zero is fine; the store
	// grows as needed either way (there is no entry-count limit —
	// eviction is purely TTL-based).
	InitialCapacity int

	// Metrics receives Hit/Miss/Reap/Size signals.
	Metrics Metrics

	// Clock allows overriding the time source (tests). Nil => time.Now().
	Clock Clock

	// OnExpire is called for every entry removed by the lazy reap,
	// under the cache lock; keep callbacks lightweight. Entries removed
	// by Delete, Invalidate, or Clear do not fire it.
	OnExpire func(key string, value V)
}
