package wsmsg

import "time"

// Heartbeat describes the ping/timeout liveness cadence for a stream. It
// holds no state of its own: Check is a pure function of how long it has
// been since the stream last showed activity, leaving the caller to track
// lastActivity itself.
type Heartbeat struct {
	Interval time.Duration
	Timeout  time.Duration
}

// Check reports whether a ping should be sent (activity has been silent
// for at least Interval) or the stream should be considered dead (silent
// for at least Timeout). A zero Interval or Timeout disables that check.
func (h Heartbeat) Check(lastActivity, now time.Time) (shouldPing, isDead bool) {
	silence := now.Sub(lastActivity)
	if h.Timeout > 0 && silence >= h.Timeout {
		return false, true
	}
	if h.Interval > 0 && silence >= h.Interval {
		return true, false
	}
	return false, false
}
