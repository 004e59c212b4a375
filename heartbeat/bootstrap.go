package heartbeat

// AutoStart posts a deferred task that starts a from the environment unless
// something configured it first. The returned func withdraws the task if it
// has not run yet.
func AutoStart(a *Agent) (cancel func()) {
	t := a.clock.AfterFunc(0, a.autoStart)
	return func() { t.Stop() }
}

// autoStart claims the configuration atomically so an explicit Start that
// lands while the environment is being read keeps its values.
func (a *Agent) autoStart() {
	hasKey, applied := a.configureIfUnset()
	if !applied {
		return
	}
	if !hasKey {
		a.log.AgentDisabled()
		return
	}
	a.resume()
}
