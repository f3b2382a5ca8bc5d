package score

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// DefaultBPM applies when a file carries no tempo meta event.
const DefaultBPM = 120.0

// ErrUnsupportedTimeFormat is returned for SMPTE-timed files; only metric (PPQ) timing is supported.
var ErrUnsupportedTimeFormat = errors.New("unsupported SMF time format")

// Compiled is a Standard MIDI File flattened into a stored score.
type Compiled struct {
	Events         []contracts.Event
	TicksPerBeat   uint16
	BPM            float64
	TickDurationMs float64
}

type noteKey struct{ channel, note uint8 }

type openNote struct {
	ticks    uint32
	velocity uint8
}

// timedEvent carries the tick a note was struck at, so a release can tell
// whether it closes an earlier strike or one at its own tick.
type timedEvent struct {
	contracts.Event
	struck uint32
}

// closesEarlier reports whether e is a release of a note struck before e's tick.
func (e timedEvent) closesEarlier() bool {
	return e.Kind == contracts.NoteOff && e.struck < e.Ticks
}

// CompileSMF flattens every track of a Standard MIDI File into one tick-ordered
// event list. The first tempo event fixes the tick duration for the whole score.
// A note struck again while still sounding is released first; notes still
// sounding when their track ends are released at the track's end.
func CompileSMF(r io.Reader) (c *Compiled, err error) {
	// smf can panic on malformed input
	defer func() {
		if rec := recover(); rec != nil {
			c, err = nil, fmt.Errorf("error parsing MIDI file: %v", rec)
		}
	}()

	s, err := smf.ReadFrom(r)
	if err != nil {
		return nil, fmt.Errorf("error parsing MIDI file: %w", err)
	}

	mt, ok := s.TimeFormat.(smf.MetricTicks)
	if !ok || mt == 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedTimeFormat, s.TimeFormat)
	}

	bpm := firstTempo(s)
	var timed []timedEvent
	for _, track := range s.Tracks {
		timed = append(timed, flattenTrack(track)...)
	}

	// Within a tick, releases of earlier strikes go first so a re-struck pin
	// drops before it fires again. A zero-length note keeps its strike ahead
	// of its own release.
	sort.SliceStable(timed, func(i, j int) bool {
		if timed[i].Ticks != timed[j].Ticks {
			return timed[i].Ticks < timed[j].Ticks
		}
		return timed[i].closesEarlier() && !timed[j].closesEarlier()
	})

	events := make([]contracts.Event, len(timed))
	for i, te := range timed {
		events[i] = te.Event
	}

	return &Compiled{
		Events:         events,
		TicksPerBeat:   uint16(mt),
		BPM:            bpm,
		TickDurationMs: TickDurationMs(bpm, uint16(mt)),
	}, nil
}

// TickDurationMs converts a tempo and resolution into milliseconds per tick.
func TickDurationMs(bpm float64, ticksPerBeat uint16) float64 {
	if bpm <= 0 || ticksPerBeat == 0 {
		return 0
	}
	return 60000.0 / (bpm * float64(ticksPerBeat))
}

func firstTempo(s *smf.SMF) float64 {
	for _, track := range s.Tracks {
		for _, ev := range track {
			var bpm float64
			if ev.Message.GetMetaTempo(&bpm) && bpm > 0 {
				return bpm
			}
		}
	}
	return DefaultBPM
}

func flattenTrack(track smf.Track) []timedEvent {
	var (
		events []timedEvent
		open   = make(map[noteKey]openNote)
		order  []noteKey
		abs    uint32
	)

	release := func(k noteKey, at uint32) {
		n := open[k]
		delete(open, k)
		events = append(events, timedEvent{
			Event: contracts.Event{
				Kind:     contracts.NoteOff,
				Channel:  k.channel,
				Note:     k.note,
				Velocity: n.velocity,
				Ticks:    at,
			},
			struck: n.ticks,
		})
	}

	for _, ev := range track {
		abs += ev.Delta
		msg := gomidi.Message(ev.Message)

		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			k := noteKey{ch, key}
			if _, sounding := open[k]; sounding {
				release(k, abs)
			} else {
				order = append(order, k)
			}
			open[k] = openNote{ticks: abs, velocity: vel}
			events = append(events, timedEvent{
				Event: contracts.Event{
					Kind:     contracts.NoteOn,
					Channel:  ch,
					Note:     key,
					Velocity: vel,
					Ticks:    abs,
				},
				struck: abs,
			})
		case msg.GetNoteEnd(&ch, &key):
			k := noteKey{ch, key}
			if _, sounding := open[k]; sounding {
				release(k, abs)
			}
		}
	}

	for _, k := range order {
		if _, sounding := open[k]; sounding {
			release(k, abs)
		}
	}
	return events
}
