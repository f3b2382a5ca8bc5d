// Package midiserial reads a raw MIDI byte stream from a serial port, such as
// a DIN-MIDI interface or a USB-serial bridge.
package midiserial

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/leandrodaf/solenoid/internal/midi"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"go.bug.st/serial"
)

const (
	// DefaultBaudRate is the MIDI 1.0 wire rate.
	DefaultBaudRate = 31250
	// readTimeout bounds how long one Read may wait on the port.
	readTimeout = time.Millisecond
)

// Transport decodes notes from a byte stream. It is driven entirely by Read,
// so handlers run on the caller's goroutine.
type Transport struct {
	*midi.Inbox
	port   io.ReadCloser
	logger contracts.Logger
	parser midi.Parser
	buf    [64]byte
	eof    bool
}

// Open opens name at baud (DefaultBaudRate when 0) with a short read timeout.
func Open(name string, baud int, options *contracts.TransportOptions) (*Transport, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p, err := openPort(name, baud)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(readTimeout); err != nil {
		_ = p.Close()
		return nil, fmt.Errorf("set read timeout on %s: %w", name, err)
	}
	options.Logger.Info("MIDI serial port opened",
		options.Logger.Field().String("device", name),
		options.Logger.Field().Int("baud", baud))
	return New(p, options), nil
}

func openPort(name string, baud int) (serial.Port, error) {
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open MIDI port %s: %w", name, err)
	}
	return p, nil
}

// New wraps an already open byte stream. port should return promptly when no
// data is pending.
func New(port io.ReadCloser, options *contracts.TransportOptions) *Transport {
	return &Transport{
		Inbox:  midi.NewInbox(options.BufferSize, options.Logger),
		port:   port,
		logger: options.Logger,
	}
}

// Read delivers one queued note, reading the port at most once when the
// queue holds none.
func (t *Transport) Read() bool {
	if t.Inbox.Read() {
		return true
	}
	if t.eof {
		return false
	}

	n, err := t.port.Read(t.buf[:])
	t.parser.FeedAll(t.buf[:n], func(msg []byte) {
		t.Push(msg)
	})
	if err != nil {
		if errors.Is(err, io.EOF) {
			t.eof = true
			t.logger.Warn("MIDI input stream ended")
		} else {
			t.logger.Warn("Failed to read MIDI port", t.logger.Field().Error("error", err))
		}
	}
	return t.Inbox.Read()
}

// Close closes the port.
func (t *Transport) Close() error {
	t.logger.Info("Closing MIDI serial port", t.logger.Field().Uint64("dropped", t.Dropped()))
	return t.port.Close()
}

// ListPorts returns the serial ports present on the system.
func ListPorts() ([]contracts.DeviceInfo, error) {
	names, err := serial.GetPortsList()
	if err != nil {
		return nil, fmt.Errorf("list serial ports: %w", err)
	}
	devices := make([]contracts.DeviceInfo, len(names))
	for i, name := range names {
		devices[i] = contracts.DeviceInfo{ID: i, Name: name}
	}
	return devices, nil
}
