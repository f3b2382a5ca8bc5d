package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/leandrodaf/solenoid/sdk/engine"
)

func main() {
	log := logger.NewDevelopmentLogger()

	transport, err := engine.NewPlatformTransport(&contracts.TransportOptions{Logger: log})
	if err != nil {
		log.Error("Failed to initialize MIDI transport", log.Field().Error("error", err))
		return
	}

	devices, err := transport.ListDevices()
	if err != nil || len(devices) == 0 {
		log.Error("No MIDI devices found or error listing devices", log.Field().Error("error", err))
		return
	}
	fmt.Println("Available MIDI devices:", devices)

	if err = transport.SelectDevice(devices[0].ID); err != nil {
		log.Error("Failed to select MIDI device", log.Field().Error("error", err))
		return
	}

	eng, err := engine.NewEngine(
		contracts.WithLogger(log),
		contracts.WithLogLevel(contracts.DebugLevel),
		contracts.WithLiveTransport(transport),
		contracts.WithActuatorTable(contracts.ActuatorTable{
			contracts.Piano:    {Notes: map[uint8]contracts.ActuatorID{60: 2, 62: 3, 64: 4}},
			contracts.Triangle: {Actuator: 9},
		}),
	)
	if err != nil {
		log.Error("Failed to create engine", log.Field().Error("error", err))
		return
	}
	defer eng.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	fmt.Println("Striking notes from MIDI input... Press Ctrl+C to exit.")
	if err := eng.Run(ctx); err != nil {
		log.Error("Engine stopped", log.Field().Error("error", err))
	}
}
