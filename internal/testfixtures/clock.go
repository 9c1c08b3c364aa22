package testfixtures

import (
	"sync"
	"time"
)

// Clock hands out a pinned instant so code under test sees a controlled wall
// clock instead of the real one.
type Clock struct {
	mu      sync.Mutex
	instant time.Time
}

// NewClock pins a clock to start; a zero start pins it to the shared
// ReferenceTime.
func NewClock(start time.Time) *Clock {
	if start.IsZero() {
		start = ReferenceTime()
	}
	return &Clock{instant: start}
}

// Now reports the pinned instant.
func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.instant
}

// NowFunc adapts the clock to the now-func dependency the services accept.
// A nil clock falls through to the real time source.
func (c *Clock) NowFunc() func() time.Time {
	if c == nil {
		return time.Now
	}
	return c.Now
}

// Set pins the clock to t.
func (c *Clock) Set(t time.Time) {
	c.mu.Lock()
	c.instant = t
	c.mu.Unlock()
}

// Advance moves the pinned instant forward by d and reports the result.
func (c *Clock) Advance(d time.Duration) time.Time {
	c.mu.Lock()
	c.instant = c.instant.Add(d)
	moved := c.instant
	c.mu.Unlock()
	return moved
}
