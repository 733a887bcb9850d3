package testutil

import (
	"sync"
	"time"
)

// StepClock is a deterministic clock for timing-sensitive tests.
//
// Every call to Now advances the clock by a fixed step, so the duration
// between any two consecutive readings is known in advance. This makes the
// analysis timing line byte-stable in golden files.
//
// Thread-safety: All methods are safe for concurrent use.
type StepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

// NewStepClock returns a clock starting at the Unix epoch that advances by
// step on every reading.
func NewStepClock(step time.Duration) *StepClock {
	return &StepClock{now: time.Unix(0, 0).UTC(), step: step}
}

// Now returns the current reading and advances the clock.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

// Reset rewinds the clock to the epoch.
func (c *StepClock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = time.Unix(0, 0).UTC()
}
