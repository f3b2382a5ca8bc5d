package contracts

import "fmt"

// EventKind distinguishes note starts from note ends.
type EventKind uint8

const (
	// NoteOn switches an actuator on. Its stored event code is 0x00.
	NoteOn EventKind = 0x00
	// NoteOff switches an actuator off. Its stored event code is 0x01.
	NoteOff EventKind = 0x01
)

// Valid reports whether k is one of the known event codes.
func (k EventKind) Valid() bool {
	return k == NoteOn || k == NoteOff
}

func (k EventKind) String() string {
	switch k {
	case NoteOn:
		return "note-on"
	case NoteOff:
		return "note-off"
	}
	return fmt.Sprintf("code(0x%02X)", uint8(k))
}

// Event is a decoded note event. Ticks is only meaningful for stored scores.
type Event struct {
	Kind     EventKind // NoteOn or NoteOff.
	Channel  uint8     // Instrument channel, see ChannelTable.
	Note     uint8     // Pitch or strike identifier within the instrument.
	Velocity uint8     // Strike intensity, carried but not used for timing.
	Ticks    uint32    // Absolute time of the event in score ticks.
}

// ActuatorID identifies one physical output.
type ActuatorID uint16

// NoActuator is the reserved "nothing bound" id. Every actuation on it is a no-op.
const NoActuator ActuatorID = 0

// NoteHandler receives a decoded note message from a live transport.
type NoteHandler func(channel, note, velocity uint8)
