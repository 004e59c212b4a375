package shutdown

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"sync"
	"syscall"
	"time"
)

type registration struct {
	name    string
	handler ShutdownHandler
	phase   int
}

// Coordinator runs registered handlers once, phase by phase.
type Coordinator struct {
	config Config

	mu       sync.Mutex
	handlers []registration
	once     sync.Once
	done     chan struct{}
	result   *Result
}

// NewCoordinator creates a coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &Coordinator{
		config: cfg,
		done:   make(chan struct{}),
	}
}

// Register adds a handler to a phase.
func (c *Coordinator) Register(name string, handler ShutdownHandler, phase int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers = append(c.handlers, registration{name: name, handler: handler, phase: phase})
}

// RegisterFunc adds a function to a phase.
func (c *Coordinator) RegisterFunc(name string, fn func(ctx context.Context) error, phase int) {
	c.Register(name, ShutdownFunc(fn), phase)
}

// Shutdown runs every handler. Only the first call does work; later calls
// wait for it and return its error.
func (c *Coordinator) Shutdown(ctx context.Context) error {
	c.once.Do(func() {
		c.result = c.run(ctx)
		close(c.done)
	})
	<-c.done
	return c.result.Err
}

// ShutdownWithTimeout calls Shutdown with a deadline. Zero means Config.Timeout.
func (c *Coordinator) ShutdownWithTimeout(timeout time.Duration) error {
	if timeout <= 0 {
		timeout = c.config.Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return c.Shutdown(ctx)
}

// HandleSignals shuts down on SIGINT or SIGTERM. The returned func stops
// listening for signals.
func (c *Coordinator) HandleSignals() (stop func()) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	quit := make(chan struct{})

	go func() {
		select {
		case <-sigCh:
			_ = c.ShutdownWithTimeout(0)
		case <-quit:
		case <-c.done:
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(sigCh)
			close(quit)
		})
	}
}

// Done is closed when shutdown has finished.
func (c *Coordinator) Done() <-chan struct{} {
	return c.done
}

// Result returns the shutdown result, or nil before Done is closed.
func (c *Coordinator) Result() *Result {
	select {
	case <-c.done:
		return c.result
	default:
		return nil
	}
}

func (c *Coordinator) run(ctx context.Context) *Result {
	start := time.Now()

	c.mu.Lock()
	handlers := make([]registration, len(c.handlers))
	copy(handlers, c.handlers)
	c.mu.Unlock()

	sort.SliceStable(handlers, func(i, j int) bool {
		return handlers[i].phase < handlers[j].phase
	})

	result := &Result{}
	for len(handlers) > 0 {
		n := 1
		for n < len(handlers) && handlers[n].phase == handlers[0].phase {
			n++
		}

		if ctx.Err() != nil {
			result.Err = fmt.Errorf("%w before phase %d", ErrTimeout, handlers[0].phase)
			break
		}
		result.Results = append(result.Results, c.runPhase(ctx, handlers[:n])...)
		handlers = handlers[n:]
	}

	if result.Err == nil && len(result.FailedHandlers()) > 0 {
		result.Err = fmt.Errorf("%w: %v", ErrHandlerFailed, result.FailedHandlers())
	}
	result.TotalDuration = time.Since(start)
	return result
}

// runPhase runs handlers concurrently. Results keep registration order.
func (c *Coordinator) runPhase(ctx context.Context, handlers []registration) []HandlerResult {
	results := make([]HandlerResult, len(handlers))
	var wg sync.WaitGroup

	for i, reg := range handlers {
		wg.Add(1)
		go func(i int, reg registration) {
			defer wg.Done()

			start := time.Now()
			err := reg.handler.OnShutdown(ctx)
			results[i] = HandlerResult{
				Name:     reg.name,
				Phase:    reg.phase,
				Duration: time.Since(start),
				Err:      err,
			}
			if c.config.OnProgress != nil {
				c.config.OnProgress(results[i])
			}
		}(i, reg)
	}

	wg.Wait()
	return results
}
