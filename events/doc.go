// Package events provides a small observer primitive: a typed Topic that
// holds an ordered list of listeners.
//
// # Usage
//
//	var heartbeats events.Topic[*Response]
//
//	l := heartbeats.On(func(r *Response) { log.Println(r.Status) })
//	heartbeats.Once(func(r *Response) { close(firstSeen) })
//
//	heartbeats.Emit(resp) // calls listeners in registration order
//	heartbeats.Off(l)
//
// Listeners run on the emitting goroutine, outside the topic's lock, so a
// listener may register or remove listeners (including itself) while it runs.
// A listener registered during an Emit is not called by that Emit.
package events
