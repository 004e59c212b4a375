package heartbeat

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/vinayprograms/opsgenie/bus"
	hberrors "github.com/vinayprograms/opsgenie/errors"
)

// Envelope is the message published by ForwardTo.
type Envelope struct {
	// Type is "heartbeat" or "error".
	Type string    `json:"type"`
	Name string    `json:"name"`
	Time time.Time `json:"time"`

	Response map[string]any  `json:"response,omitempty"`
	Error    *hberrors.Error `json:"error,omitempty"`
}

// ForwardTo publishes heartbeat events to <prefix>.heartbeat.<name> and
// errors to <prefix>.error.<name>. The name is taken at publish time and
// made into a single subject token. Forwarding counts as an error listener.
// The returned func stops forwarding.
func (a *Agent) ForwardTo(b bus.MessageBus, prefix string) (stop func()) {
	hb := a.OnHeartbeat(func(r *Response) {
		a.publish(b, prefix, Envelope{Type: "heartbeat", Response: r.Fields})
	})
	er := a.OnError(func(err error) {
		var e *hberrors.Error
		if !errors.As(err, &e) {
			e = hberrors.Wrap(err, err.Error())
		}
		a.publish(b, prefix, Envelope{Type: "error", Error: e})
	})

	return func() {
		a.RemoveListener(hb)
		a.RemoveListener(er)
	}
}

func (a *Agent) publish(b bus.MessageBus, prefix string, env Envelope) {
	conf, _ := a.Configuration()
	env.Name = conf.Name
	env.Time = a.clock.Now().UTC()

	subject := bus.Subject(prefix, env.Type, conf.Name)
	data, err := json.Marshal(env)
	if err == nil {
		err = b.Publish(subject, data)
	}
	if err != nil {
		a.log.Warn("forward_failed", map[string]interface{}{
			"subject": subject,
			"error":   err.Error(),
		})
	}
}
