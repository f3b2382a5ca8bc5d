// Package clock provides the wall-clock implementation of contracts.Clock.
package clock

import "time"

// System reads the monotonic wall clock and yields with time.Sleep.
type System struct{}

// Now returns the current time.
func (System) Now() time.Time { return time.Now() }

// Sleep pauses the calling goroutine for at least d.
func (System) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	time.Sleep(d)
}
