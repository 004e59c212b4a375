package heartbeat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	hberrors "github.com/vinayprograms/opsgenie/errors"
	"github.com/vinayprograms/opsgenie/logging"
	"github.com/vinayprograms/opsgenie/metrics"
	"github.com/vinayprograms/opsgenie/telemetry"
)

// newHTTPClient builds a client that never retries on its own. The
// scheduler owns retries; the pass-through handler keeps non-2xx bodies.
func newHTTPClient(cfg Config, log *logging.Logger) *retryablehttp.Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 0
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	rc.Logger = leveledLogger{log: log}

	var hc http.Client
	if cfg.HTTPClient != nil {
		hc = *cfg.HTTPClient
	} else {
		hc = *rc.HTTPClient
	}
	if hc.Timeout == 0 {
		hc.Timeout = cfg.RequestTimeout
	}
	base := hc.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	hc.Transport = otelhttp.NewTransport(base)
	rc.HTTPClient = &hc
	return rc
}

// leveledLogger routes retryablehttp logs to the agent logger at DEBUG.
type leveledLogger struct {
	log *logging.Logger
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.log.Debug(msg, kvFields("error", kv)) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.log.Debug(msg, kvFields("info", kv)) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.log.Debug(msg, kvFields("debug", kv)) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.log.Debug(msg, kvFields("warn", kv)) }

func kvFields(level string, kv []interface{}) map[string]interface{} {
	fields := map[string]interface{}{"http_client": level}
	for i := 0; i+1 < len(kv); i += 2 {
		fields[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return fields
}

// attempt is the outcome of one round-trip.
type attempt struct {
	id         string
	httpStatus int
	body       []byte
	response   *Response
	err        error
	outcome    string
}

// SendHeartbeat performs one heartbeat attempt and then reschedules.
// Failures go to error listeners; nothing is returned or panics.
// Concurrent calls run one after another. Listeners run after the attempt
// has released the agent, so they may call SendHeartbeat themselves.
func (a *Agent) SendHeartbeat(ctx context.Context) {
	defer a.QueueHeartbeat()

	at := a.send(ctx)
	if at.err != nil {
		a.notifyError(at.err)
	}
	if at.response != nil {
		a.heartbeats.Emit(at.response)
	}
}

// send runs one attempt while holding sendMu.
func (a *Agent) send(ctx context.Context) (at *attempt) {
	a.sendMu.Lock()
	defer a.sendMu.Unlock()

	at = &attempt{id: uuid.NewString()}
	defer func() {
		if r := recover(); r != nil {
			err := hberrors.RecoverPanic(r)
			a.log.HeartbeatFailed(at.id, err)
			at.response = nil
			at.err = err
		}
	}()

	a.mu.Lock()
	conf := a.conf
	a.mu.Unlock()

	ctx, span := a.tracer.StartHeartbeatSpan(ctx, at.id, conf.Name, a.cfg.Endpoint.Path)
	start := time.Now()

	a.roundTrip(ctx, conf, at)
	if at.err == nil {
		a.log.HeartbeatSent(at.id, at.httpStatus, time.Since(start))
		a.classify(at)
	}

	if at.err != nil {
		a.log.HeartbeatFailed(at.id, at.err)
	}
	a.metrics.RecordAttempt(at.outcome, time.Since(start))
	a.tracer.EndHeartbeatSpan(span, telemetry.HeartbeatSpanOptions{
		Outcome:    at.outcome,
		HTTPStatus: at.httpStatus,
		Code:       codeOf(at.response),
		Status:     statusOf(at.response),
		Body:       string(at.body),
	}, at.err)
	return at
}

// roundTrip posts the heartbeat and reads the body. A failure before the
// body is fully read is a transport error unless it was a deadline or a
// cancellation.
func (a *Agent) roundTrip(ctx context.Context, conf Configuration, at *attempt) {
	fail := func(err error) {
		at.outcome, at.err = requestFailure(err, at.id)
	}

	body := map[string]string{"apiKey": conf.APIKey}
	body[a.cfg.Endpoint.NameField] = conf.Name
	payload, err := json.Marshal(body)
	if err != nil {
		fail(err)
		return
	}

	endpoint := strings.TrimRight(a.cfg.BaseURL, "/") + a.cfg.Endpoint.Path
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		fail(err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		if resp != nil {
			resp.Body.Close()
		}
		fail(err)
		return
	}
	defer resp.Body.Close()

	at.httpStatus = resp.StatusCode
	at.body, err = io.ReadAll(resp.Body)
	if err != nil {
		fail(err)
	}
}

func requestFailure(err error, attemptID string) (string, error) {
	id := hberrors.WithAttemptID(attemptID)

	var netErr net.Error
	switch {
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled, hberrors.Canceled(err, id)
	case errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return metrics.OutcomeTimeout, hberrors.Timeout(err, id)
	default:
		return metrics.OutcomeTransport, hberrors.Transport(err, id)
	}
}

// classify applies the response rules to a completed round-trip.
func (a *Agent) classify(at *attempt) {
	at.outcome = metrics.OutcomeOK

	if len(at.body) > 0 {
		resp, err := parseResponse(at.body)
		if err != nil {
			at.outcome = metrics.OutcomeMalformed
			at.err = hberrors.MalformedResponse(err,
				hberrors.WithAttemptID(at.id),
				hberrors.WithMetadata("http_status", strconv.Itoa(at.httpStatus)))
			return
		}
		at.response = resp

		a.mu.Lock()
		a.last = resp
		a.mu.Unlock()
		if resp.HasExpiry() {
			a.metrics.SetExpiry(resp.WillExpireAt)
		}
	}

	if at.httpStatus != http.StatusOK || codeOf(at.response) != http.StatusOK {
		at.outcome = metrics.OutcomeApplication
		at.err = hberrors.Application(at.httpStatus, statusOf(at.response),
			hberrors.WithAttemptID(at.id),
			hberrors.WithMetadata("code", strconv.Itoa(codeOf(at.response))))
	}
}

func codeOf(r *Response) int {
	if r == nil {
		return 0
	}
	return r.Code
}

func statusOf(r *Response) string {
	if r == nil {
		return ""
	}
	return r.Status
}
