// Package trigger provides playback trigger inputs.
package trigger

import (
	"sync"

	"github.com/leandrodaf/solenoid/sdk/contracts"
	"go.bug.st/serial"
)

// Always is a trigger that is permanently held.
type Always struct{}

// Held always reports true.
func (Always) Held() bool { return true }

// Line selects which modem status input carries the switch.
type Line string

const (
	CTS Line = "cts"
	DSR Line = "dsr"
	DCD Line = "dcd"
	RI  Line = "ri"
)

// modemStatusReader is the part of serial.Port a ModemLine needs.
type modemStatusReader interface {
	GetModemStatusBits() (*serial.ModemStatusBits, error)
}

// ModemLine reads a momentary switch wired to a serial modem status input.
// With ActiveLow set the switch counts as held while the line is deasserted,
// matching a pull-up input shorted to ground by the button.
type ModemLine struct {
	port      modemStatusReader
	line      Line
	activeLow bool
	logger    contracts.Logger

	mu      sync.Mutex
	lastErr error
}

// NewModemLine creates a trigger on port's line.
func NewModemLine(port modemStatusReader, line Line, activeLow bool, logger contracts.Logger) *ModemLine {
	return &ModemLine{port: port, line: line, activeLow: activeLow, logger: logger}
}

// Held samples the line. A read failure counts as released.
func (m *ModemLine) Held() bool {
	bits, err := m.port.GetModemStatusBits()
	if err != nil {
		m.reportOnce(err)
		return false
	}
	m.reportOnce(nil)

	var level bool
	switch m.line {
	case DSR:
		level = bits.DSR
	case DCD:
		level = bits.DCD
	case RI:
		level = bits.RI
	default:
		level = bits.CTS
	}
	return level != m.activeLow
}

// reportOnce logs a read error only when it first appears.
func (m *ModemLine) reportOnce(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err != nil && m.lastErr == nil {
		m.logger.Warn("Failed to read trigger line",
			m.logger.Field().String("line", string(m.line)),
			m.logger.Field().Error("error", err))
	}
	m.lastErr = err
}
