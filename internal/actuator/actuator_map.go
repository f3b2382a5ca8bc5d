package actuator

import (
	"sort"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// Map is the immutable (instrument, note) → actuator relation.
// It is safe for concurrent reads without synchronization.
type Map struct {
	families map[contracts.Instrument]family
}

type family struct {
	single   bool
	actuator contracts.ActuatorID
	notes    map[uint8]contracts.ActuatorID
}

// NewMap copies table into a read-only Map. Unknown instrument names are kept
// as melodic families so a custom channel table can still reach them.
func NewMap(table contracts.ActuatorTable) *Map {
	m := &Map{families: make(map[contracts.Instrument]family, len(table))}
	for inst, mapping := range table {
		f := family{single: inst.SingleNote(), actuator: mapping.Actuator}
		if !f.single {
			f.notes = make(map[uint8]contracts.ActuatorID, len(mapping.Notes))
			for note, id := range mapping.Notes {
				f.notes[note] = id
			}
		}
		m.families[inst] = f
	}
	return m
}

// Resolve returns the actuator bound to note on inst, or contracts.NoActuator.
// Single-note instruments ignore note.
func (m *Map) Resolve(inst contracts.Instrument, note uint8) contracts.ActuatorID {
	f, ok := m.families[inst]
	if !ok {
		return contracts.NoActuator
	}
	if f.single {
		return f.actuator
	}
	return f.notes[note]
}

// IDs returns every bound actuator, sorted and without duplicates or the sentinel.
func (m *Map) IDs() []contracts.ActuatorID {
	seen := make(map[contracts.ActuatorID]struct{})
	add := func(id contracts.ActuatorID) {
		if id != contracts.NoActuator {
			seen[id] = struct{}{}
		}
	}
	for _, f := range m.families {
		if f.single {
			add(f.actuator)
			continue
		}
		for _, id := range f.notes {
			add(id)
		}
	}
	ids := make([]contracts.ActuatorID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
