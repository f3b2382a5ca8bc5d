package contracts

// Instrument names an actuator family.
type Instrument string

const (
	Piano       Instrument = "piano"
	Xylophone   Instrument = "xylophone"
	SnareDrum   Instrument = "snare-drum"
	BassDrum    Instrument = "bass-drum"
	WoodenBlock Instrument = "wooden-block"
	Cymbal      Instrument = "cymbal"
	Triangle    Instrument = "triangle"
	Tambourine  Instrument = "tambourine"
)

// Instruments lists every known family in channel order.
var Instruments = []Instrument{Piano, Xylophone, SnareDrum, BassDrum, WoodenBlock, Cymbal, Triangle, Tambourine}

// SingleNote reports whether the family has one striker and ignores the note number.
func (i Instrument) SingleNote() bool {
	switch i {
	case WoodenBlock, Cymbal, Triangle, Tambourine:
		return true
	}
	return false
}

// Known reports whether i is one of Instruments.
func (i Instrument) Known() bool {
	for _, known := range Instruments {
		if i == known {
			return true
		}
	}
	return false
}

// InstrumentMapping binds one family to its outputs.
// Melodic families use Notes; single-note families use Actuator.
type InstrumentMapping struct {
	Notes    map[uint8]ActuatorID
	Actuator ActuatorID
}

// ActuatorTable is the read-only (instrument, note) → actuator relation.
type ActuatorTable map[Instrument]InstrumentMapping

// ChannelTable maps an instrument channel to its family.
type ChannelTable map[uint8]Instrument

// DefaultChannelTable returns the stock channel layout: channel N drives Instruments[N].
func DefaultChannelTable() ChannelTable {
	t := make(ChannelTable, len(Instruments))
	for ch, inst := range Instruments {
		t[uint8(ch)] = inst
	}
	return t
}
