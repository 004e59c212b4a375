package heartbeat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/vinayprograms/opsgenie/logging"
	"github.com/vinayprograms/opsgenie/metrics"
)

var testEpoch = time.UnixMilli(1_700_000_000_000)

// fakeClock fires timers only when advanced.
type fakeClock struct {
	mu      sync.Mutex
	now     time.Time
	timers  []*fakeTimer
	created int
}

type fakeTimer struct {
	clock   *fakeClock
	at      time.Time
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: testEpoch}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &fakeTimer{clock: c, at: c.now.Add(d), d: d, f: f}
	c.timers = append(c.timers, t)
	c.created++
	return t
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Advance moves time forward and runs the timers that became due.
func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	var due []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired && !t.at.After(c.now) {
			t.fired = true
			due = append(due, t)
		}
	}
	c.mu.Unlock()

	for _, t := range due {
		t.f()
	}
}

// Active returns timers that have neither fired nor been stopped.
func (c *fakeClock) Active() []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

func (c *fakeClock) Created() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.created
}

// countingMetrics records what the agent reports.
type countingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	delays   []time.Duration
	expiry   time.Time
	dropped  int
}

var _ metrics.Collector = (*countingMetrics)(nil)

func (m *countingMetrics) RecordAttempt(outcome string, _ time.Duration) {
	m.mu.Lock()
	m.outcomes = append(m.outcomes, outcome)
	m.mu.Unlock()
}

func (m *countingMetrics) SetNextDelay(d time.Duration) {
	m.mu.Lock()
	m.delays = append(m.delays, d)
	m.mu.Unlock()
}

func (m *countingMetrics) SetExpiry(t time.Time) {
	m.mu.Lock()
	m.expiry = t
	m.mu.Unlock()
}

func (m *countingMetrics) IncrementErrorsDropped() {
	m.mu.Lock()
	m.dropped++
	m.mu.Unlock()
}

func (m *countingMetrics) Dropped() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dropped
}

// syncBuffer is a bytes.Buffer safe for the logger and the test to share.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func envMap(vals map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := vals[key]
		return v, ok
	}
}

type testAgent struct {
	*Agent
	clock   *fakeClock
	metrics *countingMetrics
	logs    *syncBuffer
	server  *httptest.Server
}

// newTestAgent builds an agent talking to handler through an httptest server,
// with a fake clock and an empty environment.
func newTestAgent(t *testing.T, handler http.HandlerFunc, mutate ...func(*Config)) *testAgent {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logs := &syncBuffer{}
	logger := logging.New()
	logger.SetOutput(logs)

	ta := &testAgent{
		clock:   newFakeClock(),
		metrics: &countingMetrics{},
		logs:    logs,
		server:  srv,
	}

	cfg := DefaultConfig()
	cfg.BaseURL = srv.URL
	cfg.Logger = logger
	cfg.Metrics = ta.metrics
	cfg.Clock = ta.clock
	cfg.LookupEnv = envMap(nil)
	cfg.Hostname = func() (string, error) { return "test-host", nil }
	for _, m := range mutate {
		m(&cfg)
	}

	a, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ta.Agent = a
	return ta
}

// respond returns a handler replying with status and a raw body.
func respond(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}
}

// respondJSON returns a handler replying with status and v encoded as JSON.
func respondJSON(status int, v any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(v)
	}
}

// recorder collects emitted events.
type recorder struct {
	mu         sync.Mutex
	heartbeats []*Response
	errs       []error
}

func record(a *Agent) *recorder {
	r := &recorder{}
	a.OnHeartbeat(func(resp *Response) {
		r.mu.Lock()
		r.heartbeats = append(r.heartbeats, resp)
		r.mu.Unlock()
	})
	a.OnError(func(err error) {
		r.mu.Lock()
		r.errs = append(r.errs, err)
		r.mu.Unlock()
	})
	return r
}

func (r *recorder) counts() (heartbeats, errs int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.heartbeats), len(r.errs)
}
