// Package shutdown stops the heartbeat host's components in a fixed order.
//
// Handlers register with a phase. Lower phases run first and handlers in
// the same phase run concurrently. The phase constants give the order the
// example host uses: stop the heartbeat loop, then forwarding, then flush
// traces, then close servers.
//
//	coord := shutdown.NewCoordinator(shutdown.DefaultConfig())
//	coord.Register("heartbeat", agent, shutdown.PhaseAgent)
//	coord.Register("tracing", provider, shutdown.PhaseTelemetry)
//	stop := coord.HandleSignals()
//	defer stop()
//	<-coord.Done()
package shutdown
