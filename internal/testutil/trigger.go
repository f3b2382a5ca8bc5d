package testutil

import "sync"

// FakeTrigger is a contracts.Trigger whose level tests set directly.
type FakeTrigger struct {
	mu    sync.Mutex
	held  bool
	reads int
}

// Set changes the level reported by Held.
func (f *FakeTrigger) Set(held bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.held = held
}

// Held reports the current level.
func (f *FakeTrigger) Held() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.held
}

// Reads returns how many times Held was sampled.
func (f *FakeTrigger) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}
