package testutil

import (
	"sync"
	"time"
)

// FakeClock is a manually driven contracts.Clock for deterministic tests.
//
// Sleep advances the clock instead of blocking, so a poll loop that yields
// through the clock moves simulated time forward by its poll interval.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type FakeClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps int
	onTick func(now time.Time)
}

// NewFakeClock creates a clock frozen at start.
func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

// Now returns the simulated time.
func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Sleep advances simulated time by d and runs the OnSleep hook, if any.
func (c *FakeClock) Sleep(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.sleeps++
	hook, now := c.onTick, c.now
	c.mu.Unlock()

	if hook != nil {
		hook(now)
	}
}

// Advance moves simulated time forward by d without counting a yield.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Sleeps returns how many times Sleep was called.
func (c *FakeClock) Sleeps() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sleeps
}

// OnSleep installs fn to run after every Sleep with the new time.
func (c *FakeClock) OnSleep(fn func(now time.Time)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTick = fn
}
