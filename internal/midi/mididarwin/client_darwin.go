//go:build darwin
// +build darwin

package mididarwin

import (
	"errors"
	"fmt"
	"sync"

	"github.com/leandrodaf/solenoid/internal/midi"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/youpy/go-coremidi"
)

// Error definitions for MIDI connection and handling issues.
var (
	ErrNoMIDIDevices       = errors.New("no MIDI devices found")
	ErrInvalidMIDIDevice   = errors.New("invalid MIDI device")
	ErrMIDIConnectionError = errors.New("error connecting to MIDI device")
	ErrCreateInputPort     = errors.New("error creating input port")
)

// internalPortConnection is an interface for handling disconnection from a MIDI port.
type internalPortConnection interface {
	Disconnect()
}

// Transport receives notes from a CoreMIDI source on macOS.
// CoreMIDI callbacks only frame and enqueue bytes; handlers run inside Read.
type Transport struct {
	*midi.Inbox
	logger    contracts.Logger
	client    coremidi.Client        // CoreMIDI client instance for MIDI operations.
	inputPort coremidi.InputPort     // Input port for receiving MIDI events.
	portConn  internalPortConnection // Connection to the MIDI port.
	mu        sync.Mutex             // Guards the connection and the parser.
	parser    midi.Parser
	closeOnce sync.Once
}

// NewTransport registers a CoreMIDI client named after options.ClientName.
func NewTransport(options *contracts.TransportOptions) (contracts.DeviceTransport, error) {
	client, err := coremidi.NewClient(options.ClientName)
	if err != nil {
		return nil, err
	}
	options.Logger.Info("MIDI client successfully created",
		options.Logger.Field().String("client", options.ClientName))

	return &Transport{
		Inbox:  midi.NewInbox(options.BufferSize, options.Logger),
		logger: options.Logger,
		client: client,
	}, nil
}

// ListDevices retrieves and returns available MIDI sources.
func (m *Transport) ListDevices() ([]contracts.DeviceInfo, error) {
	sources, err := coremidi.AllSources()
	if err != nil {
		return nil, fmt.Errorf("error listing MIDI sources: %w", err)
	}
	if len(sources) == 0 {
		m.logger.Warn(ErrNoMIDIDevices.Error())
		return nil, ErrNoMIDIDevices
	}

	devices := make([]contracts.DeviceInfo, len(sources))
	for i, source := range sources {
		sourceEntity := source.Entity()
		devices[i] = contracts.DeviceInfo{
			ID:           i,
			Name:         source.Name(),
			EntityName:   sourceEntity.Name(),
			Manufacturer: sourceEntity.Manufacturer(),
		}
	}
	return devices, nil
}

// SelectDevice connects to the source at deviceID, replacing any previous one.
func (m *Transport) SelectDevice(deviceID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	sources, err := coremidi.AllSources()
	if err != nil {
		return fmt.Errorf("error retrieving MIDI sources: %w", err)
	}
	if deviceID < 0 || deviceID >= len(sources) {
		m.logger.Error(ErrInvalidMIDIDevice.Error(), m.logger.Field().Int("deviceID", deviceID))
		return ErrInvalidMIDIDevice
	}

	if m.portConn != nil {
		m.portConn.Disconnect()
		m.portConn = nil
	}
	m.parser = midi.Parser{}

	source := sources[deviceID]
	m.logger.Info("MIDI device selected",
		m.logger.Field().Int("deviceID", deviceID),
		m.logger.Field().String("deviceName", source.Name()))

	m.inputPort, err = coremidi.NewInputPort(m.client, "Input Port", m.handlePacket)
	if err != nil {
		m.logger.Error(ErrCreateInputPort.Error())
		return fmt.Errorf("%w: %v", ErrCreateInputPort, err)
	}

	m.portConn, err = m.inputPort.Connect(source)
	if err != nil {
		m.logger.Error(ErrMIDIConnectionError.Error())
		return fmt.Errorf("%w: %v", ErrMIDIConnectionError, err)
	}

	m.logger.Info("MIDI device successfully connected")
	return nil
}

// handlePacket runs on a CoreMIDI thread. A packet may carry several
// messages and may rely on running status.
func (m *Transport) handlePacket(_ coremidi.Source, packet coremidi.Packet) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.parser.FeedAll(packet.Data, func(msg []byte) {
		m.Push(msg)
	})
}

// Close disconnects from the source. Further calls do nothing.
func (m *Transport) Close() error {
	m.closeOnce.Do(func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		if m.portConn != nil {
			m.portConn.Disconnect()
			m.portConn = nil
		}
		m.logger.Info("MIDI transport closed",
			m.logger.Field().Uint64("dropped", m.Dropped()))
	})
	return nil
}
