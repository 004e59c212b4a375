package heartbeat

import (
	"github.com/vinayprograms/opsgenie/events"
)

// OnHeartbeat registers fn for every response that carried a JSON body.
func (a *Agent) OnHeartbeat(fn func(*Response)) events.Listener {
	return a.heartbeats.On(fn)
}

// OnceHeartbeat registers fn for the next heartbeat event only.
func (a *Agent) OnceHeartbeat(fn func(*Response)) events.Listener {
	return a.heartbeats.Once(fn)
}

// OnError registers fn for attempt failures. Errors are *errors.Error values.
func (a *Agent) OnError(fn func(error)) events.Listener {
	return a.errs.On(fn)
}

// OnceError registers fn for the next error only.
func (a *Agent) OnceError(fn func(error)) events.Listener {
	return a.errs.Once(fn)
}

// RemoveListener unregisters a heartbeat or error listener.
func (a *Agent) RemoveListener(l events.Listener) bool {
	return a.heartbeats.Off(l) || a.errs.Off(l)
}

// notifyError emits err if anyone is listening and drops it otherwise.
func (a *Agent) notifyError(err error) {
	if a.errs.Emit(err) > 0 {
		return
	}
	a.metrics.IncrementErrorsDropped()
	a.log.Debug("error_dropped", map[string]interface{}{"error": err.Error()})
}
