// Package cache provides a generic, concurrency-safe in-memory cache with
// per-entry TTL, lazy batch expiration, single-flight computation on miss,
// prefix invalidation, and lightweight metrics hooks.
//
// Design
//
//   - Concurrency: a single map of entries protected by one RWMutex.
//     Reads take the read lock; a read that observes an expired entry
//     upgrades to the write lock and re-checks before acting, since the
//     entry may have been refreshed or removed in between.
//
//   - TTL: entries carry absolute deadlines (UnixNano); zero means no
//     expiration. A non-positive TTL on Set stores the entry forever.
//     Time comes from Options.Clock when set, so tests can drive expiry
//     deterministically.
//
//   - Reaping: expiration is lazy. No background goroutines, no timers.
//     The first Get that observes an expired entry sweeps every expired
//     entry from the store in one pass, so cleanup cost is amortized
//     across reads and an idle cache does no work at all.
//
//   - GetOrSet: concurrent callers for the same absent key are coalesced.
//     Exactly one runs the compute function (outside all locks); the rest
//     wait and share its outcome. A compute error reaches every caller of
//     that round and is never cached, so the next call retries.
//
//   - Stats: a census of the store (total/active/expired) taken against a
//     single timestamp. It observes and never mutates, which makes it safe
//     to poll from monitoring without disturbing cache contents.
//
//   - Invalidation: Delete removes one key; Invalidate removes every key
//     with a given prefix (hierarchical keys like "user:42:profile" make
//     this a one-call purge of a whole subtree); Clear drops everything.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Reap/Size signals.
//     NoopMetrics is the default; plug the metrics/prom adapter to export
//     them to Prometheus.
//
// Basic usage
//
//	c := cache.New[string](cache.Options[string]{})
//	c.Set("greeting", "hello", cache.TTLShort)
//	if v, err := c.Get("greeting"); err == nil {
//	    _ = v // use value
//	}
//	c.Delete("greeting")
//
// With GetOrSet (single-flight)
//
//	c := cache.New[Profile](cache.Options[Profile]{})
//	p, err := c.GetOrSet(ctx, "user:42:profile", 5*time.Minute, func() (Profile, error) {
//	    return loadProfile(42) // runs at most once per miss, however many callers race
//	})
//
// JSON helpers
//
//	c := cache.New[[]byte](cache.Options[[]byte]{})
//	if err := cache.SetJSON(c, "cfg", cfg, cache.TTLHour); err != nil { ... }
//	var out Config
//	if err := cache.GetJSON(c, "cfg", &out); err != nil { ... }
//
// Exporting metrics (Prometheus adapter)
//
//	m := prom.New(nil, "myapp", "cache", nil) // implements Metrics
//	c := cache.New[[]byte](cache.Options[[]byte]{Metrics: m})
//
// Thread-safety & complexity
//
// All methods on Cache are safe for concurrent use. Get, Set and Delete are
// O(1) expected time plus, for the Get that trips a reap, a pass over the
// store paid by that one caller. Stats, Invalidate and Clear are O(n).
package cache
