package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNopMetrics(t *testing.T) {
	m := NewNop()

	// Should not panic with any input
	m.RecordAttempt(OutcomeOK, time.Second)
	m.RecordAttempt("", -1)
	m.SetNextDelay(0)
	m.SetExpiry(time.Time{})
	m.IncrementErrorsDropped()
}

func TestPrometheus_RecordAttempt(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "test")

	p.RecordAttempt(OutcomeOK, 100*time.Millisecond)
	p.RecordAttempt(OutcomeOK, 200*time.Millisecond)
	p.RecordAttempt(OutcomeTransport, time.Second)

	if got := testutil.ToFloat64(p.attempts.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok attempts = %v, want 2", got)
	}
	if got := testutil.ToFloat64(p.attempts.WithLabelValues(OutcomeTransport)); got != 1 {
		t.Errorf("transport attempts = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(p.attemptDuration); got != 1 {
		t.Errorf("histogram series = %d, want 1", got)
	}
}

func TestPrometheus_Gauges(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "")

	p.SetNextDelay(60 * time.Second)
	if got := testutil.ToFloat64(p.nextDelay); got != 60 {
		t.Errorf("next delay = %v, want 60", got)
	}

	at := time.Unix(1700000000, 0)
	p.SetExpiry(at)
	if got := testutil.ToFloat64(p.expiry); got != 1700000000 {
		t.Errorf("expiry = %v", got)
	}

	p.IncrementErrorsDropped()
	p.IncrementErrorsDropped()
	if got := testutil.ToFloat64(p.errorsDropped); got != 2 {
		t.Errorf("errors dropped = %v, want 2", got)
	}
}

func TestPrometheus_RegistersOnce(t *testing.T) {
	reg := prometheus.NewRegistry()
	p := NewPrometheus(reg, "once")

	p.SetNextDelay(time.Second)
	p.SetNextDelay(2 * time.Second) // must not re-register

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "once_heartbeat_next_delay_seconds" {
			found = true
		}
	}
	if !found {
		t.Error("expected once_heartbeat_next_delay_seconds to be registered")
	}
}
