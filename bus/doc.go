// Package bus publishes heartbeat agent events to a message broker.
//
// Two implementations satisfy MessageBus:
//
//   - NATSBus forwards to a NATS server.
//   - MemoryBus delivers in-process, for tests and single-binary hosts.
//
// Subjects are dot-separated tokens. Subscribers may use NATS wildcards:
// "*" matches exactly one token and ">" matches one or more trailing tokens.
//
//	sub, _ := b.Subscribe("opsgenie.heartbeat.*")
//	for msg := range sub.Messages() {
//	    // msg.Data is a JSON envelope
//	}
//
// Heartbeat names are free-form, so callers build subjects with Subject,
// which turns each part into a single valid token.
package bus
