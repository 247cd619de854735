package timing

import "time"

// Limiter paces the host loop so frames are produced at the timer rate.
type Limiter interface {
	// WaitForNextFrame blocks until the next frame is due.
	// Returns immediately when the caller is behind schedule.
	WaitForNextFrame()

	// Reset discards accumulated timing state, e.g. after a pause.
	Reset()
}

// TimerFrequency is the rate, in Hz, at which the delay and sound timers count down.
// One host frame corresponds to one timer tick.
const TimerFrequency = 60

// FrameDuration returns the duration of a single 60Hz frame.
func FrameDuration() time.Duration {
	return time.Second / TimerFrequency
}

// NewNoOpLimiter returns a limiter that never blocks, for headless runs.
func NewNoOpLimiter() Limiter {
	return noOpLimiter{}
}

type noOpLimiter struct{}

func (noOpLimiter) WaitForNextFrame() {}
func (noOpLimiter) Reset()            {}

// New picks a limiter by name: "adaptive", "ticker" or "none".
// Unknown names fall back to the adaptive limiter.
func New(name string) Limiter {
	switch name {
	case "none", "off":
		return NewNoOpLimiter()
	case "ticker":
		return NewTickerLimiter()
	default:
		return NewAdaptiveLimiter()
	}
}
