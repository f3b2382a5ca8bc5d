// Package midi holds the pieces shared by every live transport: the note
// handler slots, a bounded inbox between OS callback threads and the engine
// loop, and a running-status byte parser.
package midi

import (
	"sync"
	"sync/atomic"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// DefaultBufferSize is used when TransportOptions.BufferSize is not positive.
const DefaultBufferSize = 256

// Inbox queues raw channel messages and decodes them into note handlers on Read.
// Push may be called from any goroutine; Read belongs to the engine loop.
type Inbox struct {
	logger contracts.Logger
	queue  chan []byte

	mu        sync.Mutex
	onNoteOn  contracts.NoteHandler
	onNoteOff contracts.NoteHandler

	dropped atomic.Uint64
}

// NewInbox creates an inbox holding at most size messages.
func NewInbox(size int, logger contracts.Logger) *Inbox {
	if size <= 0 {
		size = DefaultBufferSize
	}
	return &Inbox{logger: logger, queue: make(chan []byte, size)}
}

// SetHandleNoteOn registers the note-on slot.
func (i *Inbox) SetHandleNoteOn(fn contracts.NoteHandler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onNoteOn = fn
}

// SetHandleNoteOff registers the note-off slot.
func (i *Inbox) SetHandleNoteOff(fn contracts.NoteHandler) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.onNoteOff = fn
}

// Push enqueues a copy of raw without blocking. A full inbox drops the message.
func (i *Inbox) Push(raw []byte) bool {
	msg := make([]byte, len(raw))
	copy(msg, raw)
	select {
	case i.queue <- msg:
		return true
	default:
		n := i.dropped.Add(1)
		i.logger.Warn("Event buffer full; dropping MIDI message",
			i.logger.Field().Uint64("dropped", n))
		return false
	}
}

// Read drains queued messages until one note is delivered or the inbox is empty.
func (i *Inbox) Read() bool {
	for {
		select {
		case raw := <-i.queue:
			if i.Deliver(raw) {
				return true
			}
		default:
			return false
		}
	}
}

// Deliver decodes raw and calls the matching handler. NoteOn with velocity 0
// goes to the note-off slot. Reports whether raw was a note message.
func (i *Inbox) Deliver(raw []byte) bool {
	msg := gomidi.Message(raw)
	var ch, key, vel uint8

	i.mu.Lock()
	on, off := i.onNoteOn, i.onNoteOff
	i.mu.Unlock()

	switch {
	case msg.GetNoteStart(&ch, &key, &vel):
		if on != nil {
			on(ch, key, vel)
		}
	case msg.GetNoteOff(&ch, &key, &vel):
		if off != nil {
			off(ch, key, vel)
		}
	case msg.GetNoteEnd(&ch, &key):
		if off != nil {
			off(ch, key, 0)
		}
	default:
		i.logger.Debug("Ignoring non-note MIDI message",
			i.logger.Field().String("message", msg.String()))
		return false
	}
	return true
}

// Dropped returns how many messages were discarded because the inbox was full.
func (i *Inbox) Dropped() uint64 { return i.dropped.Load() }
