package engine

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/internal/midi/mididarwin"
	"github.com/leandrodaf/solenoid/internal/midi/midiwindows"
	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// ErrUnsupportedOS is returned when the operating system has no native MIDI transport.
var ErrUnsupportedOS = errors.New("unsupported operating system")

// DefaultClientName is registered with the OS MIDI service when none is given.
const DefaultClientName = "solenoid"

// transportInitializers maps OS names to corresponding native transport initializers.
var transportInitializers = map[string]func(*contracts.TransportOptions) (contracts.DeviceTransport, error){
	"darwin":  mididarwin.NewTransport,  // macOS (Darwin) CoreMIDI transport.
	"windows": midiwindows.NewTransport, // Windows winmm transport.
}

// NewPlatformTransport initializes the native MIDI transport for the current
// operating system. It supports macOS (Darwin) and Windows.
//
// opts *contracts.TransportOptions: Configuration for the transport; nil uses defaults.
//
// Returns:
//   - contracts.DeviceTransport: A transport with no device selected yet.
//   - error: ErrUnsupportedOS on other systems, or an initialization error.
func NewPlatformTransport(opts *contracts.TransportOptions) (contracts.DeviceTransport, error) {
	return newTransportFor(runtime.GOOS, opts)
}

func newTransportFor(goos string, opts *contracts.TransportOptions) (contracts.DeviceTransport, error) {
	initializer, exists := transportInitializers[goos]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedOS, goos)
	}

	options := contracts.TransportOptions{}
	if opts != nil {
		options = *opts
	}
	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	if options.ClientName == "" {
		options.ClientName = DefaultClientName
	}
	return initializer(&options)
}
