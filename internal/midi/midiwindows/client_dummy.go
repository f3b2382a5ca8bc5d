//go:build !windows
// +build !windows

package midiwindows

import (
	"errors"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// ErrUnavailable is returned by every device operation off Windows.
var ErrUnavailable = errors.New("winmm MIDI is not available on this platform")

type dummyTransport struct {
	logger contracts.Logger
}

// NewTransport initializes a dummy transport for non-Windows systems.
func NewTransport(options *contracts.TransportOptions) (contracts.DeviceTransport, error) {
	options.Logger.Info("Using dummy MIDI transport for non-Windows system")
	return &dummyTransport{logger: options.Logger}, nil
}

// ListDevices logs a warning and reports that MIDI is unavailable.
func (m *dummyTransport) ListDevices() ([]contracts.DeviceInfo, error) {
	m.logger.Warn("ListDevices called on dummy MIDI transport")
	return nil, ErrUnavailable
}

// SelectDevice logs a warning and reports that MIDI is unavailable.
func (m *dummyTransport) SelectDevice(deviceID int) error {
	m.logger.Warn("SelectDevice called on dummy MIDI transport")
	return ErrUnavailable
}

func (m *dummyTransport) SetHandleNoteOn(contracts.NoteHandler)  {}
func (m *dummyTransport) SetHandleNoteOff(contracts.NoteHandler) {}

// Read never delivers anything.
func (m *dummyTransport) Read() bool { return false }

func (m *dummyTransport) Close() error { return nil }
