// Package playback implements the two event sources that feed the dispatcher:
// live transport polling and stored score scheduling.
package playback

import "github.com/leandrodaf/solenoid/sdk/contracts"

// Source is one cooperative step of event delivery. Poll must return promptly
// and reports whether the source has nothing left to deliver.
type Source interface {
	Poll() (done bool)
}

var (
	_ Source = (*LiveSource)(nil)
	_ Source = (*Scheduler)(nil)
)

// NoteDispatcher receives notes pushed by a live transport.
type NoteDispatcher interface {
	NoteOn(channel, note, velocity uint8)
	NoteOff(channel, note, velocity uint8)
}

// LiveSource forwards transport callbacks straight to a dispatcher, in arrival
// order and without buffering.
type LiveSource struct {
	transport contracts.Transport
	logger    contracts.Logger
	delivered uint64
}

// NewLiveSource binds d to the transport's note-on and note-off slots.
func NewLiveSource(t contracts.Transport, d NoteDispatcher, logger contracts.Logger) *LiveSource {
	l := &LiveSource{transport: t, logger: logger}
	t.SetHandleNoteOn(d.NoteOn)
	t.SetHandleNoteOff(d.NoteOff)
	return l
}

// Poll reads the transport once. Live input never finishes.
func (l *LiveSource) Poll() bool {
	if l.transport.Read() {
		l.delivered++
	}
	return false
}

// Delivered returns how many note messages the transport has handed over.
func (l *LiveSource) Delivered() uint64 { return l.delivered }

// Close closes the transport.
func (l *LiveSource) Close() error {
	l.logger.Info("Closing live transport", l.logger.Field().Uint64("delivered", l.delivered))
	return l.transport.Close()
}
