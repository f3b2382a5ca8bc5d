package serialout

import (
	"fmt"
	"io"
	"sync"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	"go.bug.st/serial"
)

// DefaultBaudRate matches the bridge firmware.
const DefaultBaudRate = 115200

// Bridge implements contracts.OutputDriver by writing frames to a port.
type Bridge struct {
	mu     sync.Mutex
	port   io.WriteCloser
	serial serial.Port // nil unless opened with Open
	logger contracts.Logger
}

// Open opens the named serial device at baud (DefaultBaudRate when 0).
func Open(name string, baud int, logger contracts.Logger) (*Bridge, error) {
	if baud <= 0 {
		baud = DefaultBaudRate
	}
	p, err := serial.Open(name, &serial.Mode{BaudRate: baud})
	if err != nil {
		return nil, fmt.Errorf("open output port %s: %w", name, err)
	}
	logger.Info("Output port opened",
		logger.Field().String("device", name),
		logger.Field().Int("baud", baud))
	b := New(p, logger)
	b.serial = p
	return b, nil
}

// New writes frames to w.
func New(w io.WriteCloser, logger contracts.Logger) *Bridge {
	return &Bridge{port: w, logger: logger}
}

// Port returns the underlying serial port, or nil when the bridge was not
// created by Open. Its modem status lines can carry the playback trigger.
func (b *Bridge) Port() serial.Port { return b.serial }

// ConfigureOutput sends a configure frame for id.
func (b *Bridge) ConfigureOutput(id contracts.ActuatorID) error {
	return b.send(ConfigureFrame(id))
}

// SetOutput sends a set frame for id.
func (b *Bridge) SetOutput(id contracts.ActuatorID, on bool) error {
	return b.send(SetFrame(id, on))
}

func (b *Bridge) send(f Frame) error {
	data := f.Encode()

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, err := b.port.Write(data); err != nil {
		return fmt.Errorf("write frame cmd=0x%02X id=%d: %w", f.Cmd, f.ID, err)
	}
	b.logger.Debug("Frame sent",
		b.logger.Field().Uint8("cmd", f.Cmd),
		b.logger.Field().Int("actuator", int(f.ID)),
		b.logger.Field().Uint8("value", f.Value))
	return nil
}

// Close closes the port.
func (b *Bridge) Close() error {
	b.logger.Info("Closing output port")
	return b.port.Close()
}
