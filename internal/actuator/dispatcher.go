package actuator

import "github.com/leandrodaf/solenoid/sdk/contracts"

// noteResolver turns a note into the actuator it strikes on one instrument.
type noteResolver interface {
	resolve(note uint8) contracts.ActuatorID
	instrument() contracts.Instrument
}

type melodicResolver struct {
	inst contracts.Instrument
	m    *Map
}

func (r melodicResolver) resolve(note uint8) contracts.ActuatorID { return r.m.Resolve(r.inst, note) }
func (r melodicResolver) instrument() contracts.Instrument { return r.inst }

// singleResolver serves instruments with one striker; the note is irrelevant.
type singleResolver struct {
	inst contracts.Instrument
	m    *Map
}

func (r singleResolver) resolve(uint8) contracts.ActuatorID { return r.m.Resolve(r.inst, 0) }
func (r singleResolver) instrument() contracts.Instrument { return r.inst }

// Dispatcher routes note events to actuators. It is the only caller of its Actuator.
type Dispatcher struct {
	handlers map[uint8]noteResolver
	act      *Actuator
	logger   contracts.Logger
}

// NewDispatcher builds the channel lookup table from channels.
func NewDispatcher(channels contracts.ChannelTable, m *Map, act *Actuator, logger contracts.Logger) *Dispatcher {
	handlers := make(map[uint8]noteResolver, len(channels))
	for ch, inst := range channels {
		if inst.SingleNote() {
			handlers[ch] = singleResolver{inst: inst, m: m}
		} else {
			handlers[ch] = melodicResolver{inst: inst, m: m}
		}
	}
	return &Dispatcher{handlers: handlers, act: act, logger: logger}
}

// Handle actuates the output bound to (channel, note). Unknown channels and
// unmapped notes are ignored.
func (d *Dispatcher) Handle(channel, note, velocity uint8, kind contracts.EventKind) {
	h, ok := d.handlers[channel]
	if !ok {
		d.logger.Debug("Ignoring note on unknown channel",
			d.logger.Field().Uint8("channel", channel),
			d.logger.Field().Uint8("note", note))
		return
	}

	id := h.resolve(note)
	d.logger.Debug("Dispatching note",
		d.logger.Field().String("instrument", string(h.instrument())),
		d.logger.Field().String("kind", kind.String()),
		d.logger.Field().Uint8("note", note),
		d.logger.Field().Uint8("velocity", velocity),
		d.logger.Field().Int("actuator", int(id)))

	switch kind {
	case contracts.NoteOn:
		d.act.Activate(id)
	case contracts.NoteOff:
		d.act.Release(id)
	}
}

// Dispatch handles a stored score event.
func (d *Dispatcher) Dispatch(ev contracts.Event) {
	d.Handle(ev.Channel, ev.Note, ev.Velocity, ev.Kind)
}

// NoteOn matches contracts.NoteHandler for a transport's note-on slot.
func (d *Dispatcher) NoteOn(channel, note, velocity uint8) {
	d.Handle(channel, note, velocity, contracts.NoteOn)
}

// NoteOff matches contracts.NoteHandler for a transport's note-off slot.
func (d *Dispatcher) NoteOff(channel, note, velocity uint8) {
	d.Handle(channel, note, velocity, contracts.NoteOff)
}
