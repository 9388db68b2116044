package engine

import "time"

// Clock returns the current instant.
type Clock func() time.Time

// Timer is a one-second countdown. It does not schedule anything itself: the
// owner delivers ticks tagged with the generation that was current when the
// tick was scheduled, so ticks from a stopped or reset countdown are ignored.
type Timer struct {
	clock      Clock
	remaining  int
	running    bool
	startedAt  time.Time
	endedAt    time.Time
	generation uint64
}

// NewTimer returns a stopped countdown of seconds.
func NewTimer(seconds int, clock Clock) *Timer {
	if clock == nil {
		clock = time.Now
	}
	return &Timer{clock: clock, remaining: seconds}
}

// Start records the start instant and arms the countdown. Starting a running
// or already used timer is a no-op and returns false.
func (t *Timer) Start() bool {
	if t.running || !t.startedAt.IsZero() {
		return false
	}
	t.running = true
	t.startedAt = t.clock()
	t.generation++
	return true
}

// Stop cancels the countdown. Safe to call when not running.
func (t *Timer) Stop() {
	if !t.running {
		return
	}
	t.running = false
	t.endedAt = t.clock()
	t.generation++
}

// Reset stops the countdown and rearms it with seconds.
func (t *Timer) Reset(seconds int) {
	t.running = false
	t.remaining = seconds
	t.startedAt = time.Time{}
	t.endedAt = time.Time{}
	t.generation++
}

// Tick applies one elapsed second if gen matches the live countdown. It
// reports whether the tick was applied and whether the countdown expired.
func (t *Timer) Tick(gen uint64) (applied, expired bool) {
	if !t.running || gen != t.generation {
		return false, false
	}
	t.remaining--
	if t.remaining <= 0 {
		t.remaining = 0
		t.Stop()
		return true, true
	}
	return true, false
}

// Generation identifies the live countdown for tick delivery.
func (t *Timer) Generation() uint64 {
	return t.generation
}

// Remaining returns the seconds left on the countdown.
func (t *Timer) Remaining() int {
	return t.remaining
}

// Running reports whether the countdown is armed.
func (t *Timer) Running() bool {
	return t.running
}

// Elapsed returns wall-clock time since Start, up to Stop if stopped.
func (t *Timer) Elapsed() time.Duration {
	if t.startedAt.IsZero() {
		return 0
	}
	end := t.endedAt
	if t.running || end.IsZero() {
		end = t.clock()
	}
	return end.Sub(t.startedAt)
}
