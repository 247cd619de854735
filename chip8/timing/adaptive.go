package timing

import (
	"log/slog"
	"time"
)

const (
	// below this the limiter spins instead of sleeping
	spinThreshold = 2 * time.Millisecond
	// when this far behind, the schedule is rebased on the current time
	resyncThreshold = 5 * time.Millisecond
	driftCheckEvery = TimerFrequency
	maxDrift        = 10 * time.Millisecond
)

// AdaptiveLimiter sleeps for most of the frame and spins for the remainder,
// correcting accumulated drift once per second.
type AdaptiveLimiter struct {
	frame    time.Duration
	deadline time.Time
	frames   int64
	now      func() time.Time
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frame:    FrameDuration(),
		deadline: time.Now(),
		now:      time.Now,
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	remaining := a.deadline.Sub(a.now())

	switch {
	case remaining > spinThreshold:
		time.Sleep(remaining - time.Millisecond)
		a.spin()
	case remaining > 0:
		a.spin()
	case remaining < -resyncThreshold:
		a.deadline = a.now()
	}

	a.deadline = a.deadline.Add(a.frame)
	a.frames++

	if a.frames%driftCheckEvery != 0 {
		return
	}

	drift := a.now().Sub(a.deadline)
	if drift.Abs() > maxDrift {
		a.deadline = a.deadline.Add(drift / 10)
		slog.Debug("Frame timing drift correction", "drift_ms", drift.Milliseconds(), "frames", a.frames)
	}
}

func (a *AdaptiveLimiter) spin() {
	for a.now().Before(a.deadline) {
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.deadline = a.now()
	a.frames = 0
}
