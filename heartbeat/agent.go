package heartbeat

import (
	"context"
	"sync"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/vinayprograms/opsgenie/events"
	"github.com/vinayprograms/opsgenie/logging"
	"github.com/vinayprograms/opsgenie/metrics"
	"github.com/vinayprograms/opsgenie/telemetry"
)

// Agent sends OpsGenie heartbeats for one identity.
type Agent struct {
	cfg     Config
	log     *logging.Logger
	metrics metrics.Collector
	tracer  *telemetry.Tracer
	clock   Clock
	client  *retryablehttp.Client

	mu         sync.Mutex
	conf       Configuration
	configured bool
	last       *Response
	timer      Timer
	gen        uint64 // bumped whenever the pending timer is replaced or cancelled
	stopped    bool

	// sendMu serializes attempts.
	sendMu sync.Mutex

	heartbeats events.Topic[*Response]
	errs       events.Topic[error]
}

// New creates an Agent. It does not configure or start it.
func New(cfg Config) (*Agent, error) {
	cfg = cfg.withDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Agent{
		cfg:     cfg,
		log:     cfg.Logger.WithComponent("opsgenie"),
		metrics: cfg.Metrics,
		tracer:  cfg.Tracer,
		clock:   cfg.Clock,
	}
	a.client = newHTTPClient(cfg, a.log)

	onPanic := func(r any) {
		a.log.Error("listener_panic", map[string]interface{}{"panic": r})
	}
	a.heartbeats.OnPanic = onPanic
	a.errs.OnPanic = onPanic
	return a, nil
}

// Start configures the agent and arms the first heartbeat.
// Without an API key it logs one warning, arms nothing and returns false.
func (a *Agent) Start(opts *Options) bool {
	if !a.Configure(opts) {
		a.log.AgentDisabled()
		return false
	}
	a.resume()
	return true
}

func (a *Agent) resume() {
	a.mu.Lock()
	a.stopped = false
	a.mu.Unlock()

	a.QueueHeartbeat()
}

// Stop cancels the pending heartbeat. An attempt already in flight finishes
// but does not reschedule. Start resumes the loop.
func (a *Agent) Stop() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.stopped = true
	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

// OnShutdown stops the agent and waits for an in-flight attempt or ctx.
func (a *Agent) OnShutdown(ctx context.Context) error {
	a.Stop()

	done := make(chan struct{})
	go func() {
		a.sendMu.Lock()
		a.sendMu.Unlock()
		close(done)
	}()

	select {
	case <-done:
		a.client.HTTPClient.CloseIdleConnections()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Configuration returns the resolved configuration and whether Configure has run.
func (a *Agent) Configuration() (Configuration, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.conf, a.configured
}

// Configured reports whether Configure has run.
func (a *Agent) Configured() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.configured
}

// LastResponse returns the most recent parsed response, or nil.
// Failed attempts never clear it.
func (a *Agent) LastResponse() *Response {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last
}

// Pending reports whether a heartbeat is scheduled.
func (a *Agent) Pending() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}
