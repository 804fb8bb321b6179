package pipeline

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric status label values.
const (
	statusOK    = "ok"
	statusError = "error"
)

type metrics struct {
	conversions *prometheus.CounterVec
	duration    *prometheus.HistogramVec
	cacheHits   prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		conversions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "brep_conversions_total",
				Help: "Number of converted items by kind and outcome.",
			},
			[]string{"kind", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "brep_conversion_duration_seconds",
				Help:    "Duration of single item conversions.",
				Buckets: prometheus.ExponentialBuckets(1e-5, 4, 10),
			},
			[]string{"kind"},
		),
		cacheHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "brep_cache_hits_total",
			Help: "Number of items served from the result cache.",
		}),
	}

	var err error
	if m.conversions, err = register(reg, m.conversions); err != nil {
		return nil, err
	}
	if m.duration, err = register(reg, m.duration); err != nil {
		return nil, err
	}
	if m.cacheHits, err = register(reg, m.cacheHits); err != nil {
		return nil, err
	}
	return m, nil
}

// register adds c to reg. Runners sharing a registry share the collectors
// registered first.
func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}
