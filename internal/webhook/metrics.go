package webhook

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the client's Prometheus collectors. A nil *Metrics records
// nothing.
type Metrics struct {
	requests *prometheus.CounterVec
	attempts *prometheus.CounterVec
	duration *prometheus.HistogramVec
	cache    *prometheus.CounterVec
}

// NewMetrics registers the client collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		requests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callboard_webhook_requests_total",
				Help: "Logical webhook requests by endpoint, method and outcome",
			},
			[]string{"endpoint", "method", "outcome"},
		),
		attempts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callboard_webhook_attempts_total",
				Help: "HTTP attempts made against the webhook backend, retries included",
			},
			[]string{"endpoint"},
		),
		duration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "callboard_webhook_request_duration_seconds",
				Help:    "Duration of logical webhook requests including retries",
				Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
			},
			[]string{"endpoint"},
		),
		cache: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "callboard_webhook_cache_total",
				Help: "Read cache lookups by result",
			},
			[]string{"result"},
		),
	}
}

func (m *Metrics) attempt(endpoint string) {
	if m == nil {
		return
	}
	m.attempts.WithLabelValues(endpoint).Inc()
}

func (m *Metrics) observe(endpoint, method, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(endpoint, method, outcome).Inc()
	m.duration.WithLabelValues(endpoint).Observe(d.Seconds())
}

func (m *Metrics) cacheLookup(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.cache.WithLabelValues(result).Inc()
}
