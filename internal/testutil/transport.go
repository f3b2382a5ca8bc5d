package testutil

import (
	"sync"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// Message is one note message queued on a FakeTransport.
type Message struct {
	Kind     contracts.EventKind
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// FakeTransport implements contracts.Transport over an in-memory queue.
// Each Read delivers at most one queued message.
type FakeTransport struct {
	mu        sync.Mutex
	queue     []Message
	onNoteOn  contracts.NoteHandler
	onNoteOff contracts.NoteHandler
	reads     int
	closed    bool
}

// NewFakeTransport creates a transport with msgs already queued.
func NewFakeTransport(msgs ...Message) *FakeTransport {
	return &FakeTransport{queue: msgs}
}

// Push queues more messages.
func (f *FakeTransport) Push(msgs ...Message) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.queue = append(f.queue, msgs...)
}

func (f *FakeTransport) SetHandleNoteOn(fn contracts.NoteHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onNoteOn = fn
}

func (f *FakeTransport) SetHandleNoteOff(fn contracts.NoteHandler) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onNoteOff = fn
}

// Read pops one message and invokes the matching handler synchronously.
func (f *FakeTransport) Read() bool {
	f.mu.Lock()
	f.reads++
	if len(f.queue) == 0 {
		f.mu.Unlock()
		return false
	}
	msg := f.queue[0]
	f.queue = f.queue[1:]
	handler := f.onNoteOn
	if msg.Kind == contracts.NoteOff {
		handler = f.onNoteOff
	}
	f.mu.Unlock()

	if handler == nil {
		return false
	}
	handler(msg.Channel, msg.Note, msg.Velocity)
	return true
}

// Close marks the transport closed.
func (f *FakeTransport) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

// Reads returns how many times Read was called.
func (f *FakeTransport) Reads() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reads
}

// Pending returns the number of undelivered messages.
func (f *FakeTransport) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Closed reports whether Close was called.
func (f *FakeTransport) Closed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}
