// Package metrics records heartbeat agent activity.
//
// The agent talks to a Collector. NopMetrics discards everything and is the
// default; PrometheusCollector exposes the same data to a Prometheus
// registry.
package metrics

import "time"

// Attempt outcomes reported to RecordAttempt.
const (
	OutcomeOK          = "ok"
	OutcomeTransport   = "transport"
	OutcomeTimeout     = "timeout"
	OutcomeCanceled    = "canceled"
	OutcomeMalformed   = "malformed"
	OutcomeApplication = "application"
)

// Collector receives heartbeat agent measurements.
type Collector interface {
	// RecordAttempt records one finished heartbeat attempt.
	RecordAttempt(outcome string, duration time.Duration)

	// SetNextDelay records the delay armed for the next attempt.
	SetNextDelay(delay time.Duration)

	// SetExpiry records the server-reported expiry of the current heartbeat.
	SetExpiry(expiresAt time.Time)

	// IncrementErrorsDropped counts errors discarded because nobody listened.
	IncrementErrorsDropped()
}
