package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusCollector implements Collector backed by Prometheus.
type PrometheusCollector struct {
	reg       prometheus.Registerer
	namespace string
	once      sync.Once

	attempts        *prometheus.CounterVec
	attemptDuration prometheus.Histogram
	nextDelay       prometheus.Gauge
	expiry          prometheus.Gauge
	errorsDropped   prometheus.Counter
}

// Compile-time assertion that PrometheusCollector implements Collector.
var _ Collector = (*PrometheusCollector)(nil)

// NewPrometheus creates a Prometheus-backed collector.
//
// Parameters:
//   - reg: Prometheus registerer (uses prometheus.DefaultRegisterer if nil)
//   - namespace: metrics namespace (defaults to "opsgenie" if empty)
//
// Metrics are registered lazily on first use.
func NewPrometheus(reg prometheus.Registerer, namespace string) *PrometheusCollector {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	if namespace == "" {
		namespace = "opsgenie"
	}
	return &PrometheusCollector{reg: reg, namespace: namespace}
}

func (p *PrometheusCollector) ensureRegistered() {
	p.once.Do(func() {
		p.attempts = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "heartbeat",
			Name:      "attempts_total",
			Help:      "Heartbeat attempts by outcome (ok, transport, timeout, canceled, malformed, application).",
		}, []string{"outcome"})

		p.attemptDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: p.namespace,
			Subsystem: "heartbeat",
			Name:      "attempt_duration_seconds",
			Help:      "Duration of heartbeat round-trips in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10), // 50ms .. ~25s
		})

		p.nextDelay = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "heartbeat",
			Name:      "next_delay_seconds",
			Help:      "Delay armed before the next heartbeat attempt.",
		})

		p.expiry = prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: p.namespace,
			Subsystem: "heartbeat",
			Name:      "expiry_timestamp_seconds",
			Help:      "Unix time at which OpsGenie considers the last heartbeat expired.",
		})

		p.errorsDropped = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: p.namespace,
			Subsystem: "heartbeat",
			Name:      "errors_dropped_total",
			Help:      "Errors discarded because no error listener was registered.",
		})

		p.reg.MustRegister(p.attempts)
		p.reg.MustRegister(p.attemptDuration)
		p.reg.MustRegister(p.nextDelay)
		p.reg.MustRegister(p.expiry)
		p.reg.MustRegister(p.errorsDropped)
	})
}

// RecordAttempt increments the outcome counter and observes the duration.
func (p *PrometheusCollector) RecordAttempt(outcome string, duration time.Duration) {
	p.ensureRegistered()
	p.attempts.WithLabelValues(outcome).Inc()
	p.attemptDuration.Observe(duration.Seconds())
}

// SetNextDelay sets the next delay gauge.
func (p *PrometheusCollector) SetNextDelay(delay time.Duration) {
	p.ensureRegistered()
	p.nextDelay.Set(delay.Seconds())
}

// SetExpiry sets the expiry gauge.
func (p *PrometheusCollector) SetExpiry(expiresAt time.Time) {
	p.ensureRegistered()
	p.expiry.Set(float64(expiresAt.UnixNano()) / 1e9)
}

// IncrementErrorsDropped increments the dropped error counter.
func (p *PrometheusCollector) IncrementErrorsDropped() {
	p.ensureRegistered()
	p.errorsDropped.Inc()
}
