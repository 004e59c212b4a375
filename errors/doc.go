// Package errors provides the structured error taxonomy used by the
// heartbeat agent. Every failure of a heartbeat attempt is reported to
// observers as an *Error carrying a code, a category and metadata such as
// the HTTP status returned by OpsGenie.
//
// # Error Categories
//
//   - Transient: the next attempt may succeed (network failures, bad responses)
//   - Permanent: retrying will not help until configuration changes
//   - Internal: unexpected failures such as recovered panics
//
// # Error Codes
//
//   - TRANSPORT: the request never produced a response
//   - MALFORMED_RESPONSE: the response body was not a JSON object
//   - APPLICATION: HTTP status or payload code was not 200
//   - CONFIG_MISSING: no API key could be resolved
//
// # Usage
//
//	err := errors.New(errors.ErrCodeApplication, "unexpected OpsGenie response",
//	    errors.WithMetadata("http_status", "500"))
//
//	if errors.Is(err, errors.ErrCodeTransport) {
//	    // connectivity problem, the agent already rescheduled
//	}
//
// # JSON Serialization
//
// Errors marshal to JSON so they can be forwarded over a message bus:
//
//	data, _ := json.Marshal(err)
package errors
