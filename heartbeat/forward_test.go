package heartbeat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/vinayprograms/opsgenie/bus"
	hberrors "github.com/vinayprograms/opsgenie/errors"
)

func nextEnvelope(t *testing.T, sub bus.Subscription) (string, Envelope) {
	t.Helper()
	select {
	case msg := <-sub.Messages():
		var env Envelope
		if err := json.Unmarshal(msg.Data, &env); err != nil {
			t.Fatalf("decoding envelope: %v", err)
		}
		return msg.Subject, env
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for envelope")
	}
	return "", Envelope{}
}

func TestForwardTo(t *testing.T) {
	a := newTestAgent(t, respond(http.StatusOK, `{"code":500,"status":"failed"}`))
	b := bus.NewMemoryBus(bus.DefaultConfig())
	defer b.Close()

	sub, err := b.Subscribe("opsgenie.>")
	if err != nil {
		t.Fatal(err)
	}

	stop := a.ForwardTo(b, "opsgenie")
	a.Configure(&Options{APIKey: "k", Name: "web.example.com"})
	a.SendHeartbeat(context.Background())

	subject, env := nextEnvelope(t, sub)
	if subject != "opsgenie.error.web_example_com" {
		t.Errorf("error subject = %q", subject)
	}
	if env.Type != "error" || env.Error == nil {
		t.Fatalf("envelope = %+v, want error", env)
	}
	if env.Error.Code() != hberrors.ErrCodeApplication {
		t.Errorf("error code = %s", env.Error.Code())
	}
	if !strings.Contains(env.Error.Message(), "msg: failed") {
		t.Errorf("error message = %q", env.Error.Message())
	}

	subject, env = nextEnvelope(t, sub)
	if subject != "opsgenie.heartbeat.web_example_com" {
		t.Errorf("heartbeat subject = %q", subject)
	}
	if env.Type != "heartbeat" || env.Name != "web.example.com" {
		t.Errorf("envelope = %+v", env)
	}
	if env.Response["status"] != "failed" {
		t.Errorf("response = %v", env.Response)
	}
	if !env.Time.Equal(testEpoch) {
		t.Errorf("Time = %v, want %v", env.Time, testEpoch)
	}

	stop()
	a.SendHeartbeat(context.Background())
	select {
	case msg := <-sub.Messages():
		t.Errorf("unexpected message after stop: %s", msg.Subject)
	default:
	}
	if a.metrics.Dropped() != 1 {
		t.Errorf("dropped = %d, want 1 once forwarding stopped", a.metrics.Dropped())
	}
}

func TestForwardTo_PublishFailureIsLogged(t *testing.T) {
	a := newTestAgent(t, respond(http.StatusOK, `{"code":200}`))
	b := bus.NewMemoryBus(bus.DefaultConfig())
	b.Close()

	a.ForwardTo(b, "opsgenie")
	a.Configure(&Options{APIKey: "k"})
	a.SendHeartbeat(context.Background())

	if !strings.Contains(a.logs.String(), "forward_failed") {
		t.Errorf("expected forward failure in logs, got: %s", a.logs.String())
	}
}
