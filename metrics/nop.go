package metrics

import "time"

// NopMetrics implements a no-op metrics collector.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements Collector.
var _ Collector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// RecordAttempt discards the attempt metric.
func (n *NopMetrics) RecordAttempt(_ /* outcome */ string, _ /* duration */ time.Duration) {}

// SetNextDelay discards the next delay metric.
func (n *NopMetrics) SetNextDelay(_ /* delay */ time.Duration) {}

// SetExpiry discards the expiry metric.
func (n *NopMetrics) SetExpiry(_ /* expiresAt */ time.Time) {}

// IncrementErrorsDropped discards the dropped error counter.
func (n *NopMetrics) IncrementErrorsDropped() {}
