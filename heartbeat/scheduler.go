package heartbeat

import (
	"context"
	"time"
)

// QueueHeartbeat replaces any pending heartbeat with one due after
// NextDelay. It does nothing while the agent is stopped.
func (a *Agent) QueueHeartbeat() {
	a.mu.Lock()
	if a.stopped {
		a.mu.Unlock()
		return
	}
	delay := a.nextDelayLocked()
	if a.timer != nil {
		a.timer.Stop()
	}
	a.gen++
	gen := a.gen
	a.timer = a.clock.AfterFunc(delay, func() { a.fire(gen) })
	a.mu.Unlock()

	a.metrics.SetNextDelay(delay)
	a.log.HeartbeatScheduled(delay)
}

// fire runs a scheduled attempt unless its timer was superseded.
// Timer.Stop can lose the race with a firing timer, so the generation
// is what guarantees a replaced timer never sends.
func (a *Agent) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.stopped {
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	a.SendHeartbeat(context.Background())
}

// NextDelay returns the delay QueueHeartbeat would arm now.
func (a *Agent) NextDelay() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.nextDelayLocked()
}

func (a *Agent) nextDelayLocked() time.Duration {
	var next time.Duration
	switch a.cfg.Policy {
	case PolicyFixed:
		next = a.cfg.FixedInterval
	default:
		now := a.clock.Now()
		expires := now
		if a.last.HasExpiry() {
			expires = a.last.WillExpireAt
		}
		next = expires.Sub(now) / 2
	}

	if next < a.cfg.MinDelay {
		next = a.cfg.MinDelay
	}
	return next
}
