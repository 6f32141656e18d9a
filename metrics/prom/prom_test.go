package prom

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/stocklight/memocache/cache"
)

// The adapter must translate every Metrics signal into the matching
// Prometheus series, reason labels included.
func TestAdapter_Signals(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "test", "cache", nil)

	a.Hit()
	a.Hit()
	a.Miss(cache.MissNotFound)
	a.Miss(cache.MissExpired)
	a.Miss(cache.MissExpired)
	a.Reap(3)
	a.Size(7)

	assert.Equal(t, 2.0, testutil.ToFloat64(a.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.misses.WithLabelValues("not_found")))
	assert.Equal(t, 2.0, testutil.ToFloat64(a.misses.WithLabelValues("expired")))
	assert.Equal(t, 3.0, testutil.ToFloat64(a.reaped))
	assert.Equal(t, 7.0, testutil.ToFloat64(a.sizeEnt))
}

// Wiring the adapter into a live cache drives the series end to end.
func TestAdapter_EndToEnd(t *testing.T) {
	reg := prometheus.NewRegistry()
	a := New(reg, "test", "e2e", nil)

	c := cache.New[string](cache.Options[string]{Metrics: a})
	t.Cleanup(func() { _ = c.Close() })

	c.Set("k", "v", cache.NoExpiration)
	_, err := c.Get("k")
	assert.NoError(t, err)
	_, err = c.Get("missing")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.hits))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.misses.WithLabelValues("not_found")))
	assert.Equal(t, 1.0, testutil.ToFloat64(a.sizeEnt))
}

// Registering the same metrics twice on one registry must panic via
// MustRegister, so misconfigured wiring fails fast.
func TestAdapter_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_ = New(reg, "dup", "cache", nil)
	assert.Panics(t, func() { _ = New(reg, "dup", "cache", nil) })
}
