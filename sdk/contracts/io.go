package contracts

import "time"

// OutputDriver is the physical actuation boundary.
type OutputDriver interface {
	ConfigureOutput(id ActuatorID) error    // Prepares the output as a driven line at startup.
	SetOutput(id ActuatorID, on bool) error // Drives the output high (on) or low.
}

// Transport delivers decoded note messages from a live MIDI source.
// Handlers are invoked synchronously from inside Read.
type Transport interface {
	SetHandleNoteOn(fn NoteHandler)
	SetHandleNoteOff(fn NoteHandler)
	Read() bool   // Polls the transport once; reports whether a note message was delivered.
	Close() error // Releases the underlying port or device.
}

// DeviceTransport is a Transport backed by an enumerable set of OS MIDI devices.
type DeviceTransport interface {
	Transport
	ListDevices() ([]DeviceInfo, error) // Lists all available MIDI devices.
	SelectDevice(deviceID int) error    // Selects a MIDI device by its ID for communication.
}

// Trigger is a level input that starts stored playback while held.
type Trigger interface {
	Held() bool
}

// Clock abstracts wall-clock time and the cooperative yield.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
