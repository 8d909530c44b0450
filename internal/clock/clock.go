// Package clock abstracts the time source used to stamp and time checks.
package clock

import (
	"sync"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// SystemClock implements Clock using the system time.
type SystemClock struct{}

// Now returns the current system time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// StepClock implements Clock for tests. Every call to Now returns the
// current time and then moves it forward by the step.
type StepClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewStepClock creates a StepClock starting at start.
func NewStepClock(start time.Time, step time.Duration) *StepClock {
	return &StepClock{current: start, step: step}
}

// Now returns the current time and advances it by the step.
func (c *StepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// Elapsed returns the time since start according to clk, truncated to
// milliseconds.
func Elapsed(clk Clock, start time.Time) time.Duration {
	return clk.Now().Sub(start).Truncate(time.Millisecond)
}
