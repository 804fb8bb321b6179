// Package pipeline converts batches of taxonomy items concurrently.
//
// A Runner spreads the items of a batch over a worker pool, one kernel
// conversion per item, and returns the outcomes in input order. Results
// are cached by instance identifier, so an item that appears several
// times, within a batch or across batches, is converted once.
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/gogpu/brep"
	"github.com/gogpu/brep/internal/cache"
	"github.com/gogpu/brep/internal/parallel"
	"github.com/gogpu/brep/kernel"
	"github.com/gogpu/brep/taxonomy"
)

// DefaultCacheSize is the soft limit of the result cache.
const DefaultCacheSize = 4096

// Option configures a Runner.
type Option func(*config)

type config struct {
	workers   int
	cacheSize int
	registry  prometheus.Registerer
}

// WithWorkers sets the number of conversion goroutines. Zero or less
// means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(c *config) { c.workers = n }
}

// WithCacheSize sets the soft limit of the result cache. Zero disables
// the limit.
func WithCacheSize(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.cacheSize = n
		}
	}
}

// WithRegistry registers the runner metrics with reg instead of a private
// registry.
func WithRegistry(reg prometheus.Registerer) Option {
	return func(c *config) { c.registry = reg }
}

// Result is the outcome of one item of a batch.
type Result struct {
	Item taxonomy.Item

	// Result is valid when Err is nil.
	Result kernel.ConversionResult
	Err    error

	// Cached reports whether the result was served from the cache.
	Cached bool
}

// Runner converts batches of items. It is safe for concurrent use; Close
// releases its workers.
type Runner struct {
	k       *kernel.Kernel
	pool    *parallel.Pool
	results *cache.Cache[string, kernel.ConversionResult]
	metrics *metrics
}

// New creates a runner converting with k.
func New(k *kernel.Kernel, opts ...Option) (*Runner, error) {
	cfg := config{cacheSize: DefaultCacheSize}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = prometheus.NewRegistry()
	}

	m, err := newMetrics(cfg.registry)
	if err != nil {
		return nil, err
	}
	return &Runner{
		k:       k,
		pool:    parallel.NewPool(cfg.workers),
		results: cache.New[string, kernel.ConversionResult](cfg.cacheSize),
		metrics: m,
	}, nil
}

// Close stops the workers. The runner must not be used afterwards.
func (r *Runner) Close() { r.pool.Close() }

// CacheStats returns the result cache counters.
func (r *Runner) CacheStats() cache.Stats { return r.results.Stats() }

// Run converts items and returns one Result per item, in input order.
// Conversion failures are reported per item. The returned error is
// non-nil only when the batch was interrupted: items not converted by
// then carry the context error.
func (r *Runner) Run(ctx context.Context, items []taxonomy.Item) ([]Result, error) {
	out := make([]Result, len(items))

	// Items sharing an instance identifier are converted once, by the
	// first of them.
	first := map[string]int{}
	var jobs []int
	for i, it := range items {
		out[i].Item = it
		id := instance(it)
		if id == "" {
			jobs = append(jobs, i)
			continue
		}
		if _, dup := first[id]; dup {
			continue
		}
		first[id] = i
		if res, ok := r.results.Get(id); ok {
			out[i].Result, out[i].Cached = res, true
			continue
		}
		jobs = append(jobs, i)
	}

	err := r.pool.Run(ctx, len(jobs), func(j int) {
		i := jobs[j]
		out[i].Result, out[i].Err = r.convert(items[i])
		if id := instance(items[i]); id != "" && out[i].Err == nil {
			r.results.Set(id, out[i].Result)
		}
	})

	var failed, cached int
	for i, it := range items {
		if id := instance(it); id != "" && first[id] != i {
			src := out[first[id]]
			out[i].Result, out[i].Err = src.Result, src.Err
			out[i].Cached = src.Err == nil && src.Result.Shape != nil
		}
		if err != nil && out[i].Err == nil && out[i].Result.Shape == nil {
			out[i].Err = err
		}
		switch {
		case out[i].Err != nil:
			failed++
		case out[i].Cached:
			cached++
			r.metrics.cacheHits.Inc()
		}
	}

	r.logger().Info("converted batch",
		"items", len(items), "converted", len(jobs), "failed", failed, "cached", cached)
	return out, err
}

func (r *Runner) convert(it taxonomy.Item) (kernel.ConversionResult, error) {
	kind := "unknown"
	if it != nil {
		kind = it.Kind().String()
	}

	start := time.Now()
	var results []kernel.ConversionResult
	err := r.k.Convert(it, &results)
	r.metrics.duration.WithLabelValues(kind).Observe(time.Since(start).Seconds())

	if err != nil {
		r.metrics.conversions.WithLabelValues(kind, statusError).Inc()
		return kernel.ConversionResult{}, err
	}
	r.metrics.conversions.WithLabelValues(kind, statusOK).Inc()
	return results[0], nil
}

func (r *Runner) logger() *slog.Logger {
	if l := r.k.Config().Logger; l != nil {
		return l
	}
	return brep.Logger()
}

func instance(it taxonomy.Item) string {
	if it == nil {
		return ""
	}
	return it.Instance()
}
