package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts shortener outcomes. A nil Registerer builds unregistered
// counters, which is what tests use.
type Metrics struct {
	Created        prometheus.Counter
	Collisions     prometheus.Counter
	RetryExhausted prometheus.Counter
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Created: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shorturl",
			Name:      "urls_created_total",
			Help:      "Shortened URLs persisted.",
		}),
		Collisions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shorturl",
			Name:      "code_collisions_total",
			Help:      "Generated short codes rejected because they were already taken.",
		}),
		RetryExhausted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "shorturl",
			Name:      "code_retry_exhausted_total",
			Help:      "Create requests that ran out of attempts to find a free short code.",
		}),
	}
}
