package prom

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/stocklight/memocache/cache"
)

// Adapter implements cache.Metrics and exports Prometheus counters/gauges.
// Safe for concurrent use; all Prometheus metric types are goroutine-safe.
type Adapter struct {
	hits    prometheus.Counter
	misses  *prometheus.CounterVec
	reaped  prometheus.Counter
	sizeEnt prometheus.Gauge
}

// New constructs a Prometheus metrics adapter.
//   - reg:          registry to register metrics with (nil => prometheus.DefaultRegisterer)
//   - ns, sub:      Prometheus namespace and subsystem
//   - constLabels:  static labels applied to all metrics (may be nil)
func New(reg prometheus.Registerer, ns, sub string, constLabels prometheus.Labels) *Adapter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	a := &Adapter{
		hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "hits_total",
			Help:        "Cache hits",
			ConstLabels: constLabels,
		}),
		misses: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace:   ns,
				Subsystem:   sub,
				Name:        "misses_total",
				Help:        "Cache misses by reason",
				ConstLabels: constLabels,
			},
			[]string{"reason"},
		),
		reaped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "reaped_total",
			Help:        "Entries removed by expiry reaps",
			ConstLabels: constLabels,
		}),
		sizeEnt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   sub,
			Name:        "size_entries",
			Help:        "Number of resident entries",
			ConstLabels: constLabels,
		}),
	}
	reg.MustRegister(a.hits, a.misses, a.reaped, a.sizeEnt)
	return a
}

// Hit increments the hit counter.
func (a *Adapter) Hit() { a.hits.Inc() }

// Miss increments the miss counter with a reason label.
func (a *Adapter) Miss(r cache.MissReason) {
	a.misses.WithLabelValues(reason(r)).Inc()
}

// Reap adds the number of entries removed by one reap pass.
func (a *Adapter) Reap(removed int) { a.reaped.Add(float64(removed)) }

// Size updates the resident-entries gauge.
func (a *Adapter) Size(entries int) { a.sizeEnt.Set(float64(entries)) }

// reason maps MissReason to a stable label value.
func reason(r cache.MissReason) string {
	switch r {
	case cache.MissExpired:
		return "expired"
	default:
		return "not_found"
	}
}

// Compile-time check: ensure Adapter implements cache.Metrics.
var _ cache.Metrics = (*Adapter)(nil)
