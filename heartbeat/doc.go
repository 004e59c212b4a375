// Package heartbeat keeps an OpsGenie heartbeat alive for the host process.
//
// # Overview
//
// An Agent posts a heartbeat to OpsGenie, reads the expiry the server
// reports, and schedules the next send halfway through that window. Every
// attempt reschedules, whatever its outcome, so the loop never halts on its
// own. Delays never drop below a one second floor.
//
//	Start ──> Configure ──> QueueHeartbeat ──> SendHeartbeat ─┐
//	                              ^                             │
//	                              └─────────── always ──────────┘
//
// # Usage
//
//	agent, err := heartbeat.New(heartbeat.DefaultConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	agent.OnError(func(err error) {
//	    log.Printf("heartbeat: %v", err)
//	})
//	agent.Start(&heartbeat.Options{APIKey: key, Name: "billing-worker"})
//	defer agent.Stop()
//
// Hosts that want the zero-configuration behaviour call AutoStart right
// after New. If nothing has configured the agent by the time the deferred
// task runs, it starts from the environment.
//
// # Configuration
//
// Each field resolves independently, first match wins:
//
//	apiKey: Options.APIKey, $OPSGENIE_API_KEY, env file, credentials file
//	name:   Options.Name, Options.Source, $OPSGENIE_NAME, $OPSGENIE_SOURCE,
//	        env file, credentials file, hostname
//
// Without an API key Start logs a single warning and does nothing else.
//
// # Events
//
// Heartbeat events fire for every response that carried a JSON body, even
// one OpsGenie rejected. Error events fire only while at least one error
// listener is registered; otherwise the error is dropped.
package heartbeat
