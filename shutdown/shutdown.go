package shutdown

import (
	"context"
	"errors"
	"time"
)

// Common errors.
var (
	// ErrTimeout indicates shutdown did not complete within the deadline.
	ErrTimeout = errors.New("shutdown timeout exceeded")

	// ErrHandlerFailed indicates one or more handlers returned an error.
	ErrHandlerFailed = errors.New("one or more handlers failed")
)

// Phases used by the heartbeat host. Any int works.
const (
	PhaseAgent     = 10
	PhaseForwarder = 20
	PhaseTelemetry = 30
	PhaseServers   = 40
)

// ShutdownHandler is implemented by components that need graceful shutdown.
// The context carries the shutdown deadline.
type ShutdownHandler interface {
	OnShutdown(ctx context.Context) error
}

// ShutdownFunc adapts a function to ShutdownHandler.
type ShutdownFunc func(ctx context.Context) error

// OnShutdown implements ShutdownHandler.
func (f ShutdownFunc) OnShutdown(ctx context.Context) error {
	return f(ctx)
}

// HandlerResult is the outcome of one handler.
type HandlerResult struct {
	Name     string
	Phase    int
	Duration time.Duration
	Err      error
}

// Result is the outcome of a whole shutdown.
type Result struct {
	TotalDuration time.Duration
	Results       []HandlerResult

	// Err is nil when every handler succeeded in time.
	Err error
}

// FailedHandlers returns the names of handlers that returned an error.
func (r *Result) FailedHandlers() []string {
	var failed []string
	for _, hr := range r.Results {
		if hr.Err != nil {
			failed = append(failed, hr.Name)
		}
	}
	return failed
}

// Config configures the coordinator.
type Config struct {
	// Timeout bounds a signal-triggered shutdown and ShutdownWithTimeout(0).
	// Default: 10 seconds
	Timeout time.Duration

	// OnProgress is called as each handler completes.
	OnProgress func(HandlerResult)
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Timeout: 10 * time.Second,
	}
}
