// Command bench runs a synthetic workload against the cache and exposes optional pprof/Prometheus endpoints.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	_ "net/http/pprof" // registers /debug/pprof/* on DefaultServeMux
	"runtime"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/stocklight/memocache/cache"
	pmet "github.com/stocklight/memocache/metrics/prom"
)

func main() {
	// ---- Flags ----
	var (
		workers  = flag.Int("workers", 2*runtime.GOMAXPROCS(0), "number of worker goroutines")
		duration = flag.Duration("duration", 10*time.Second, "benchmark duration")
		readPct  = flag.Int("reads", 80, "read percentage [0..100]")
		gosPct   = flag.Int("getorset", 10, "GetOrSet percentage [0..100], taken from the non-read share")

		ttl     = flag.Duration("ttl", 500*time.Millisecond, "TTL written with every entry (0 = no expiration)")
		compute = flag.Duration("compute", time.Millisecond, "simulated backend latency inside GetOrSet")

		keys    = flag.Int("keys", 1_000_000, "keyspace size")
		zipfS   = flag.Float64("zipf_s", 1.1, "Zipf s > 1 (skew)")
		zipfV   = flag.Float64("zipf_v", 1.0, "Zipf v")
		seed    = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		preload = flag.Int("preload", 50_000, "preload entries")

		pprofAddr   = flag.String("pprof", "", "serve pprof at addr (e.g. :6060); empty = disabled")
		metricsAddr = flag.String("http", ":8080", "serve Prometheus metrics at addr")
	)
	flag.Parse()

	// ---- pprof server (on DefaultServeMux) ----
	if *pprofAddr != "" {
		go func() {
			log.Printf("pprof: serving at %s", *pprofAddr)
			log.Println(http.ListenAndServe(*pprofAddr, nil))
		}()
	}

	// ---- Prometheus metrics (on DefaultServeMux) ----
	metrics := pmet.New(nil, "memocache", "bench", nil)
	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Printf("metrics: serving at %s", *metricsAddr)
		log.Println(http.ListenAndServe(*metricsAddr, nil))
	}()

	// ---- Build cache ----
	c := cache.New[string](cache.Options[string]{
		InitialCapacity: *preload,
		Metrics:         metrics,
	})
	defer func() { _ = c.Close() }()

	// ---- Preload to get a realistic hit-rate ----
	for i := 0; i < *preload; i++ {
		c.Set("k:"+strconv.Itoa(i), "v"+strconv.Itoa(i), *ttl)
	}

	// ---- Snapshot flags for goroutines ----
	readPctVal := *readPct
	gosPctVal := *gosPct
	ttlVal := *ttl
	computeVal := *compute
	keysMax := uint64(*keys - 1)
	seedBase := *seed
	zipfSVal := *zipfS
	zipfVVal := *zipfV
	workersN := *workers
	if workersN <= 0 {
		workersN = 1
	}

	// ---- Load generation ----
	var reads, writes, coalesced, hits, missing, stale, total uint64
	ctx, cancel := context.WithTimeout(context.Background(), *duration)
	defer cancel()

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < workersN; w++ {
		id := w
		g.Go(func() error {
			// Each worker gets its own RNG + Zipf (rand.Rand is NOT goroutine-safe).
			localR := rand.New(rand.NewSource(seedBase + int64(id)*9973))
			localZipf := rand.NewZipf(localR, zipfSVal, zipfVVal, keysMax)

			keyByZipf := func() string {
				return "k:" + strconv.FormatUint(localZipf.Uint64(), 10)
			}

			for {
				select {
				case <-ctx.Done():
					return nil
				default:
				}

				atomic.AddUint64(&total, 1)
				switch p := int(localR.Int31n(100)); {
				case p < readPctVal:
					atomic.AddUint64(&reads, 1)
					_, err := c.Get(keyByZipf())
					switch {
					case err == nil:
						atomic.AddUint64(&hits, 1)
					case errors.Is(err, cache.ErrExpired):
						atomic.AddUint64(&stale, 1)
					default:
						atomic.AddUint64(&missing, 1)
					}
				case p < readPctVal+gosPctVal:
					atomic.AddUint64(&coalesced, 1)
					k := keyByZipf()
					_, _ = c.GetOrSet(ctx, k, ttlVal, func() (string, error) {
						if computeVal > 0 {
							time.Sleep(computeVal)
						}
						return "v:" + k, nil
					})
				default:
					atomic.AddUint64(&writes, 1)
					c.Set(keyByZipf(), "v"+strconv.Itoa(localR.Int()), ttlVal)
				}
			}
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	// ---- Report ----
	ops := atomic.LoadUint64(&total)
	readsN := atomic.LoadUint64(&reads)
	writesN := atomic.LoadUint64(&writes)
	gosN := atomic.LoadUint64(&coalesced)
	hitsN := atomic.LoadUint64(&hits)
	missingN := atomic.LoadUint64(&missing)
	staleN := atomic.LoadUint64(&stale)

	hitRate := 0.0
	if readsN > 0 {
		hitRate = float64(hitsN) / float64(readsN) * 100
	}

	st := c.Stats()
	fmt.Printf("workers=%d keys=%d ttl=%v dur=%v seed=%d\n",
		workersN, *keys, ttlVal, elapsed, seedBase)
	fmt.Printf("ops=%d (%.0f ops/s)  reads=%d  writes=%d  getorsets=%d\n",
		ops, float64(ops)/elapsed.Seconds(), readsN, writesN, gosN)
	fmt.Printf("hits=%d  not-found=%d  expired=%d  hit-rate=%.2f%%\n",
		hitsN, missingN, staleN, hitRate)
	fmt.Printf("census: total=%d active=%d expired=%d  Len()=%d\n",
		st.Total, st.Active, st.Expired, c.Len())
}
