package cli

import (
	"fmt"

	"github.com/leandrodaf/solenoid/internal/config"
	"github.com/leandrodaf/solenoid/internal/midi/midiserial"
	"github.com/leandrodaf/solenoid/internal/output/memout"
	"github.com/leandrodaf/solenoid/internal/output/serialout"
	"github.com/leandrodaf/solenoid/internal/trigger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/leandrodaf/solenoid/sdk/engine"
)

// hardware is the output side of a run and whatever must be closed afterwards.
type hardware struct {
	output  contracts.OutputDriver
	trigger contracts.Trigger
	close   func()
}

// openHardware builds the output driver and trigger. A dry run records outputs
// in memory and keeps playback armed.
func (o *RootOptions) openHardware(dryRun bool) (*hardware, error) {
	cfg := o.Config
	if dryRun || cfg.Output.Kind == config.OutputMemory {
		return &hardware{
			output:  memout.NewRecorder(o.Logger),
			trigger: trigger.Always{},
			close:   func() {},
		}, nil
	}

	bridge, err := serialout.Open(cfg.Output.Port, cfg.Output.Baud, o.Logger)
	if err != nil {
		return nil, err
	}
	hw := &hardware{
		output:  bridge,
		trigger: trigger.Always{},
		close: func() {
			if err := bridge.Close(); err != nil {
				o.Logger.Warn("Failed to close output port", o.Logger.Field().Error("error", err))
			}
		},
	}
	if cfg.Trigger.Kind == config.TriggerModem {
		line := trigger.Line(cfg.Trigger.Line)
		if line == "" {
			line = trigger.CTS
		}
		hw.trigger = trigger.NewModemLine(bridge.Port(), line, cfg.Trigger.ActiveLow, o.Logger)
	}
	return hw, nil
}

// openTransport opens the configured live MIDI input.
func (o *RootOptions) openTransport() (contracts.Transport, error) {
	cfg := o.Config.Transport
	topts := &contracts.TransportOptions{
		Logger:     o.Logger,
		ClientName: cfg.ClientName,
		BufferSize: cfg.BufferSize,
	}

	if cfg.Kind == config.TransportSerial {
		tr, err := midiserial.Open(cfg.Port, cfg.Baud, topts)
		if err != nil {
			return nil, err
		}
		return tr, nil
	}

	tr, err := engine.NewPlatformTransport(topts)
	if err != nil {
		return nil, err
	}
	if err := tr.SelectDevice(cfg.Device); err != nil {
		_ = tr.Close()
		return nil, fmt.Errorf("select MIDI device %d: %w", cfg.Device, err)
	}
	return tr, nil
}

// listInputs returns the devices the configured transport kind can open.
func (o *RootOptions) listInputs() ([]contracts.DeviceInfo, error) {
	if o.Config.Transport.Kind == config.TransportSerial {
		return midiserial.ListPorts()
	}
	tr, err := engine.NewPlatformTransport(&contracts.TransportOptions{Logger: o.Logger})
	if err != nil {
		return nil, err
	}
	defer tr.Close()
	return tr.ListDevices()
}
