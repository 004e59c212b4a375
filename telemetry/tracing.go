// Package telemetry provides OpenTelemetry tracing for heartbeat attempts.
package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

// Tracer wraps OpenTelemetry tracing with heartbeat-specific helpers.
type Tracer struct {
	tracer trace.Tracer
	debug  bool // When true, include response bodies in span attributes
}

var (
	globalTracer *Tracer
	tracerMu     sync.RWMutex
)

// SetGlobalTracer sets the global tracer instance.
func SetGlobalTracer(t *Tracer) {
	tracerMu.Lock()
	defer tracerMu.Unlock()
	globalTracer = t
}

// GetTracer returns the global tracer, or a no-op tracer if not set.
func GetTracer() *Tracer {
	tracerMu.RLock()
	defer tracerMu.RUnlock()
	if globalTracer == nil {
		return NewNoopTracer()
	}
	return globalTracer
}

// NewTracer creates a tracer from the global OpenTelemetry provider.
func NewTracer(name string, debug bool) *Tracer {
	return &Tracer{
		tracer: otel.Tracer(name),
		debug:  debug,
	}
}

// NewNoopTracer returns a tracer that records nothing.
func NewNoopTracer() *Tracer {
	return &Tracer{tracer: noop.NewTracerProvider().Tracer("")}
}

// NewTracerFromProvider creates a tracer from an explicit provider.
func NewTracerFromProvider(tp trace.TracerProvider, name string, debug bool) *Tracer {
	return &Tracer{tracer: tp.Tracer(name), debug: debug}
}

// SetDebug enables or disables debug mode.
func (t *Tracer) SetDebug(debug bool) {
	t.debug = debug
}

// Debug returns whether debug mode is enabled.
func (t *Tracer) Debug() bool {
	return t.debug
}

// StartSpan starts a new span with the given name.
func (t *Tracer) StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return t.tracer.Start(ctx, name, opts...)
}

// --- Heartbeat Spans ---

// HeartbeatSpanOptions contains the attributes recorded when an attempt ends.
type HeartbeatSpanOptions struct {
	Outcome    string
	HTTPStatus int
	Code       int
	Status     string
	Body       string // Only included if debug=true
}

// StartHeartbeatSpan starts a client span for one heartbeat attempt.
func (t *Tracer) StartHeartbeatSpan(ctx context.Context, attemptID, name, endpoint string) (context.Context, trace.Span) {
	ctx, span := t.tracer.Start(ctx, "heartbeat.send", trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String("heartbeat.attempt_id", attemptID),
		attribute.String("heartbeat.name", name),
		attribute.String("heartbeat.endpoint", endpoint),
	)
	return ctx, span
}

// EndHeartbeatSpan ends a heartbeat span with attributes.
func (t *Tracer) EndHeartbeatSpan(span trace.Span, opts HeartbeatSpanOptions, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("heartbeat.outcome", opts.Outcome),
	}
	if opts.HTTPStatus != 0 {
		attrs = append(attrs, attribute.Int("http.response.status_code", opts.HTTPStatus))
	}
	if opts.Code != 0 {
		attrs = append(attrs, attribute.Int("heartbeat.code", opts.Code))
	}
	if opts.Status != "" {
		attrs = append(attrs, attribute.String("heartbeat.status", opts.Status))
	}
	if t.debug && opts.Body != "" {
		attrs = append(attrs, attribute.String("heartbeat.body", truncate(opts.Body, 2000)))
	}

	span.SetAttributes(attrs...)

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}

	span.End()
}

// --- Context Propagation ---

// InjectContext injects trace context into a carrier for cross-process propagation.
func InjectContext(ctx context.Context, carrier propagation.TextMapCarrier) {
	otel.GetTextMapPropagator().Inject(ctx, carrier)
}

// ExtractContext extracts trace context from a carrier.
func ExtractContext(ctx context.Context, carrier propagation.TextMapCarrier) context.Context {
	return otel.GetTextMapPropagator().Extract(ctx, carrier)
}

// MapCarrier is a simple map-based TextMapCarrier for context propagation.
type MapCarrier map[string]string

func (c MapCarrier) Get(key string) string {
	return c[key]
}

func (c MapCarrier) Set(key, value string) {
	c[key] = value
}

func (c MapCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
