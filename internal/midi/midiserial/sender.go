package midiserial

import (
	"io"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
)

// Sender writes score events to a MIDI output stream. It lets a host replay a
// stored score into a board running in live mode.
type Sender struct {
	w      io.Writer
	logger contracts.Logger
}

// NewSender creates a Sender on w.
func NewSender(w io.Writer, logger contracts.Logger) *Sender {
	return &Sender{w: w, logger: logger}
}

// Dispatch encodes ev as a note message. A stored NoteOn strikes regardless of
// velocity, so velocity 0 goes out as 1 rather than reading as a release on
// the receiving end. Write errors are logged and dropped.
func (s *Sender) Dispatch(ev contracts.Event) {
	var msg gomidi.Message
	if ev.Kind == contracts.NoteOn {
		msg = gomidi.NoteOn(ev.Channel, ev.Note, max(ev.Velocity, 1))
	} else {
		msg = gomidi.NoteOff(ev.Channel, ev.Note)
	}

	if _, err := s.w.Write(msg); err != nil {
		s.logger.Warn("Failed to send MIDI message",
			s.logger.Field().String("message", msg.String()),
			s.logger.Field().Error("error", err))
		return
	}
	s.logger.Debug("MIDI message sent", s.logger.Field().String("message", msg.String()))
}

// OpenSender opens name at baud (DefaultBaudRate when 0) for output.
func OpenSender(name string, baud int, logger contracts.Logger) (*Sender, io.Closer, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p, err := openPort(name, baud)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("MIDI output port opened",
		logger.Field().String("device", name),
		logger.Field().Int("baud", baud))
	return NewSender(p, logger), p, nil
}
