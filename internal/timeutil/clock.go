// Package timeutil abstracts wall-clock time so that paced replays can be
// tested without sleeping.
package timeutil

import (
	"sync"
	"time"
)

// Clock is the subset of the time package the replay tools depend on.
type Clock interface {
	// Now returns the current time.
	Now() time.Time

	// Sleep pauses for the specified duration.
	Sleep(d time.Duration)
}

// RealClock implements Clock using the standard time package.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time { return time.Now() }

// Sleep pauses the current goroutine for at least the duration d.
func (RealClock) Sleep(d time.Duration) { time.Sleep(d) }

// MockClock is a manually controlled clock for testing. Sleep advances
// the clock instantly and records the duration.
type MockClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

// NewMockClock creates a new MockClock set to the given time.
func NewMockClock(t time.Time) *MockClock {
	return &MockClock{now: t}
}

// Now returns the mocked current time.
func (c *MockClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the mock clock forward, simulating work between ticks.
func (c *MockClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleep records d and advances the clock by it.
func (c *MockClock) Sleep(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
}

// Sleeps returns all recorded sleep durations.
func (c *MockClock) Sleeps() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	result := make([]time.Duration, len(c.sleeps))
	copy(result, c.sleeps)
	return result
}

// Pacer spaces simulation ticks a fixed period apart on a Clock. A zero
// period disables pacing.
type Pacer struct {
	clock  Clock
	period time.Duration
	last   time.Time
	primed bool
}

// NewPacer creates a pacer. clock defaults to RealClock when nil.
func NewPacer(clock Clock, period time.Duration) *Pacer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Pacer{clock: clock, period: period}
}

// Wait blocks until one period has passed since the previous Wait. The
// first call returns immediately. Overruns are not carried over: a slow
// tick simply starts the next period late.
func (p *Pacer) Wait() {
	if p.period <= 0 {
		return
	}
	if p.primed {
		if remaining := p.period - p.clock.Now().Sub(p.last); remaining > 0 {
			p.clock.Sleep(remaining)
		}
	}
	p.primed = true
	p.last = p.clock.Now()
}
