//go:build !darwin
// +build !darwin

package mididarwin

import (
	"errors"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// ErrUnavailable is returned by every device operation off macOS.
var ErrUnavailable = errors.New("CoreMIDI is not available on this platform")

type dummyTransport struct {
	logger contracts.Logger
}

// NewTransport returns a transport that never delivers notes.
func NewTransport(options *contracts.TransportOptions) (contracts.DeviceTransport, error) {
	options.Logger.Info("Using dummy MIDI transport for non-macOS system")
	return &dummyTransport{logger: options.Logger}, nil
}

func (m *dummyTransport) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI transport")
	return nil, ErrUnavailable
}

func (m *dummyTransport) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI transport")
	return ErrUnavailable
}

func (m *dummyTransport) SetHandleNoteOn(contracts.NoteHandler)  {}
func (m *dummyTransport) SetHandleNoteOff(contracts.NoteHandler) {}
func (m *dummyTransport) Read() bool                             { return false }
func (m *dummyTransport) Close() error                           { return nil }
