package bus

import (
	"os"
	"testing"
	"time"
)

// natsURL returns the server to test against, or skips.
func natsURL(t *testing.T) string {
	if testing.Short() {
		t.Skip("skipping NATS test in short mode")
	}
	url := os.Getenv("NATS_URL")
	if url == "" {
		url = "nats://localhost:4222"
	}

	cfg := DefaultNATSConfig()
	cfg.URL = url
	cfg.ConnectTimeout = 2 * time.Second
	cfg.MaxReconnects = 0

	b, err := NewNATSBus(cfg)
	if err != nil {
		t.Skipf("skipping: NATS not available at %s: %v", url, err)
	}
	b.Close()
	return url
}

func TestNATSBus_PubSub(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = natsURL(t)

	b, err := NewNATSBus(cfg)
	if err != nil {
		t.Fatalf("NewNATSBus error: %v", err)
	}
	defer b.Close()

	sub, err := b.Subscribe("opsgenie-test.heartbeat.*")
	if err != nil {
		t.Fatalf("Subscribe error: %v", err)
	}
	defer sub.Unsubscribe()

	if err := b.Publish("opsgenie-test.heartbeat.web", []byte(`{"code":200}`)); err != nil {
		t.Fatalf("Publish error: %v", err)
	}
	if err := b.Flush(); err != nil {
		t.Fatalf("Flush error: %v", err)
	}

	select {
	case msg := <-sub.Messages():
		if msg.Subject != "opsgenie-test.heartbeat.web" {
			t.Errorf("Subject = %q", msg.Subject)
		}
	case <-time.After(2 * time.Second):
		t.Error("timeout waiting for message")
	}
}

func TestNATSBus_RejectsInvalidSubject(t *testing.T) {
	cfg := DefaultNATSConfig()
	cfg.URL = natsURL(t)

	b, err := NewNATSBus(cfg)
	if err != nil {
		t.Fatalf("NewNATSBus error: %v", err)
	}
	defer b.Close()

	if err := b.Publish("opsgenie.*", nil); err != ErrInvalidSubject {
		t.Errorf("Publish wildcard = %v, want ErrInvalidSubject", err)
	}
}
