package cli

import (
	"context"
	"errors"

	"github.com/leandrodaf/solenoid/internal/clock"
	"github.com/leandrodaf/solenoid/internal/midi/midiserial"
	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/sdk/engine"
	"github.com/spf13/cobra"
)

// SendOptions holds flags for the send command.
type SendOptions struct {
	*RootOptions
	Port   string
	Baud   int
	TickMs float64
}

// NewSendCommand creates the send command.
func NewSendCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SendOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "send [score.bin]",
		Short: "Stream a stored score as MIDI to a serial port",
		Long: `Play a stored score in real time as MIDI note messages on a serial port,
for a board running live mode on the other end.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runSend(opts, path, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Port, "port", "", "serial device to write MIDI to")
	cmd.Flags().IntVar(&opts.Baud, "baud", midiserial.DefaultBaudRate, "baud rate")
	cmd.Flags().Float64Var(&opts.TickMs, "tick-ms", 0, "milliseconds per tick, overrides the config")
	_ = cmd.MarkFlagRequired("port")

	return cmd
}

func runSend(opts *SendOptions, path string, cmd *cobra.Command) error {
	name, events, fallback, err := loadScore(path)
	if err != nil {
		return err
	}
	tickMs, err := opts.tickDuration(cmd, opts.TickMs, fallback)
	if err != nil {
		return err
	}
	src, err := playback.NewScoreSource(events, tickMs)
	if err != nil {
		return err
	}

	sender, port, err := midiserial.OpenSender(opts.Port, opts.Baud, opts.Logger)
	if err != nil {
		return err
	}
	defer port.Close()

	interval := opts.Config.PollInterval
	if interval <= 0 {
		interval = engine.DefaultPollInterval
	}

	opts.Logger.Info("Sending score", opts.Logger.Field().String("score", name))
	sched := playback.NewScheduler(src, sender, clock.System{}, opts.Logger)
	err = playback.Play(cmd.Context(), sched, clock.System{}, interval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
