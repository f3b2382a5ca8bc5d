// Package config loads the host configuration file.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/leandrodaf/solenoid/internal/trigger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"gopkg.in/yaml.v3"
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("invalid config")

// Transport kinds.
const (
	TransportPlatform = "platform"
	TransportSerial   = "serial"
)

// Output kinds.
const (
	OutputMemory = "memory"
	OutputSerial = "serial"
)

// Trigger kinds.
const (
	TriggerAlways = "always"
	TriggerModem  = "modem"
)

// Config is the root of the YAML file.
type Config struct {
	Log            LogConfig                   `yaml:"log"`
	TickDurationMs *float64                    `yaml:"tick_duration_ms,omitempty"`
	PollInterval   time.Duration               `yaml:"poll_interval,omitempty"`
	Transport      TransportConfig             `yaml:"transport"`
	Output         OutputConfig                `yaml:"output"`
	Trigger        TriggerConfig               `yaml:"trigger"`
	Channels       map[uint8]string            `yaml:"channels,omitempty"`
	Actuators      map[string]InstrumentConfig `yaml:"actuators"`
}

// LogConfig selects level and destination.
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file,omitempty"`
}

// TransportConfig selects the live MIDI input.
type TransportConfig struct {
	Kind       string `yaml:"kind"`
	Device     int    `yaml:"device"`         // platform device index
	Port       string `yaml:"port,omitempty"` // serial device path
	Baud       int    `yaml:"baud,omitempty"`
	BufferSize int    `yaml:"buffer_size,omitempty"`
	ClientName string `yaml:"client_name,omitempty"`
}

// OutputConfig selects the actuation backend.
type OutputConfig struct {
	Kind string `yaml:"kind"`
	Port string `yaml:"port,omitempty"`
	Baud int    `yaml:"baud,omitempty"`
}

// TriggerConfig selects the playback trigger. A modem trigger reads a status
// line of the output port.
type TriggerConfig struct {
	Kind      string `yaml:"kind"`
	Line      string `yaml:"line,omitempty"`
	ActiveLow bool   `yaml:"active_low,omitempty"`
}

// InstrumentConfig binds one instrument family. Melodic families use Notes,
// single-note families use Actuator.
type InstrumentConfig struct {
	Notes    map[uint8]contracts.ActuatorID `yaml:"notes,omitempty"`
	Actuator contracts.ActuatorID           `yaml:"actuator,omitempty"`
}

// Default returns the configuration used when no file is given: live input on
// the platform transport, outputs recorded in memory, playback always armed.
func Default() *Config {
	return &Config{
		Log:       LogConfig{Level: "info"},
		Transport: TransportConfig{Kind: TransportPlatform},
		Output:    OutputConfig{Kind: OutputMemory},
		Trigger:   TriggerConfig{Kind: TriggerAlways},
		Actuators: map[string]InstrumentConfig{},
	}
}

// Load reads path over Default and validates the result. Unknown keys are rejected.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML over Default and validates the result. An empty document
// yields the defaults.
func Parse(data []byte) (*Config, error) {
	cfg := Default()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks values that the engine would otherwise reject at startup.
func (c *Config) Validate() error {
	if _, ok := contracts.ParseLogLevel(c.Log.Level); !ok {
		return invalid("unknown log level %q", c.Log.Level)
	}
	if ms := c.TickDurationMs; ms != nil && (!(*ms > 0) || math.IsInf(*ms, 0)) {
		return invalid("tick_duration_ms must be positive, got %v", *ms)
	}
	if c.PollInterval < 0 {
		return invalid("poll_interval must not be negative")
	}

	switch c.Transport.Kind {
	case TransportPlatform:
	case TransportSerial:
		if c.Transport.Port == "" {
			return invalid("transport.port is required for a serial transport")
		}
	default:
		return invalid("unknown transport kind %q", c.Transport.Kind)
	}

	switch c.Output.Kind {
	case OutputMemory:
	case OutputSerial:
		if c.Output.Port == "" {
			return invalid("output.port is required for a serial output")
		}
	default:
		return invalid("unknown output kind %q", c.Output.Kind)
	}

	switch c.Trigger.Kind {
	case TriggerAlways:
	case TriggerModem:
		if c.Output.Kind != OutputSerial {
			return invalid("a modem trigger needs a serial output port")
		}
		switch trigger.Line(c.Trigger.Line) {
		case "", trigger.CTS, trigger.DSR, trigger.DCD, trigger.RI:
		default:
			return invalid("unknown trigger line %q", c.Trigger.Line)
		}
	default:
		return invalid("unknown trigger kind %q", c.Trigger.Kind)
	}

	for ch, name := range c.Channels {
		if !contracts.Instrument(name).Known() {
			return invalid("channel %d: unknown instrument %q", ch, name)
		}
	}
	for name, inst := range c.Actuators {
		in := contracts.Instrument(name)
		if !in.Known() {
			return invalid("unknown instrument %q", name)
		}
		if in.SingleNote() && len(inst.Notes) > 0 {
			return invalid("%s takes a single actuator, not a note table", name)
		}
		if !in.SingleNote() && inst.Actuator != contracts.NoActuator {
			return invalid("%s needs a note table, not a single actuator", name)
		}
	}
	return nil
}

// LogLevel returns the parsed log level.
func (c *Config) LogLevel() contracts.LogLevel {
	level, _ := contracts.ParseLogLevel(c.Log.Level)
	return level
}

// ActuatorTable converts the actuator section.
func (c *Config) ActuatorTable() contracts.ActuatorTable {
	table := make(contracts.ActuatorTable, len(c.Actuators))
	for name, inst := range c.Actuators {
		table[contracts.Instrument(name)] = contracts.InstrumentMapping{
			Notes:    inst.Notes,
			Actuator: inst.Actuator,
		}
	}
	return table
}

// ChannelTable converts the channel section, or returns nil to keep the default layout.
func (c *Config) ChannelTable() contracts.ChannelTable {
	if len(c.Channels) == 0 {
		return nil
	}
	table := make(contracts.ChannelTable, len(c.Channels))
	for ch, name := range c.Channels {
		table[ch] = contracts.Instrument(name)
	}
	return table
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
