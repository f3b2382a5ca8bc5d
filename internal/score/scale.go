package score

import (
	"fmt"
	"io"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DemoTicksPerBeat is the resolution of generated scores.
const DemoTicksPerBeat = 96

// Scale returns notes first through last on channel, one after another, each
// lasting ticksPerNote. It is handy for checking every actuator of a melodic
// instrument in order.
func Scale(channel, first, last, velocity uint8, ticksPerNote uint32) []contracts.Event {
	if last < first {
		return nil
	}
	events := make([]contracts.Event, 0, 2*(int(last-first)+1))
	var at uint32
	for note := int(first); note <= int(last); note++ {
		events = append(events,
			contracts.Event{Kind: contracts.NoteOn, Channel: channel, Note: uint8(note), Velocity: velocity, Ticks: at},
			contracts.Event{Kind: contracts.NoteOff, Channel: channel, Note: uint8(note), Velocity: velocity, Ticks: at + ticksPerNote},
		)
		at += ticksPerNote
	}
	return events
}

// WriteSMF writes events as a single-track Standard MIDI File with one tempo.
// events must be tick-ordered.
func WriteSMF(w io.Writer, events []contracts.Event, ticksPerBeat uint16, bpm float64) error {
	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerBeat)

	var tr smf.Track
	tr.Add(0, smf.MetaTempo(bpm))
	var prev uint32
	for i, ev := range events {
		if ev.Ticks < prev {
			return &RecordError{Index: i, Err: ErrUnorderedScore}
		}
		var msg gomidi.Message
		switch ev.Kind {
		case contracts.NoteOn:
			msg = gomidi.NoteOn(ev.Channel, ev.Note, ev.Velocity)
		case contracts.NoteOff:
			msg = gomidi.NoteOff(ev.Channel, ev.Note)
		default:
			return &RecordError{Index: i, Err: ErrInvalidEventCode}
		}
		tr.Add(ev.Ticks-prev, msg)
		prev = ev.Ticks
	}
	tr.Close(0)

	if err := s.Add(tr); err != nil {
		return fmt.Errorf("error building MIDI file: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("error writing MIDI file: %w", err)
	}
	return nil
}
