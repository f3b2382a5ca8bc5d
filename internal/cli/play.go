package cli

import (
	"context"
	"errors"

	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/leandrodaf/solenoid/sdk/engine"
	"github.com/spf13/cobra"
)

// PlayOptions holds flags for the play command.
type PlayOptions struct {
	*RootOptions
	TickMs float64
	Once   bool
	DryRun bool
}

// NewPlayCommand creates the play command.
func NewPlayCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PlayOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "play [score.bin]",
		Short: "Play a stored score on the actuators",
		Long: `Play a stored score when the trigger is held. Releasing the trigger stops
playback and releases every actuator; holding it again replays from the start.
Without a score argument the built-in demo scale is played.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var path string
			if len(args) == 1 {
				path = args[0]
			}
			return runPlay(opts, path, cmd)
		},
	}

	cmd.Flags().Float64Var(&opts.TickMs, "tick-ms", 0, "milliseconds per tick, overrides the config")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "play once immediately, ignoring the trigger")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "log output changes instead of driving hardware")

	return cmd
}

func runPlay(opts *PlayOptions, path string, cmd *cobra.Command) error {
	name, events, fallback, err := loadScore(path)
	if err != nil {
		return err
	}
	tickMs, err := opts.tickDuration(cmd, opts.TickMs, fallback)
	if err == nil {
		err = playback.CheckTickDuration(tickMs)
	}
	if err != nil {
		return err
	}
	warnIfUnmapped(opts.RootOptions)

	hw, err := opts.openHardware(opts.DryRun)
	if err != nil {
		return err
	}
	defer hw.close()

	eng, err := engine.NewEngine(append(opts.engineOptions(),
		contracts.WithOutputDriver(hw.output),
		contracts.WithTrigger(hw.trigger),
		contracts.WithScore(events, tickMs),
	)...)
	if err != nil {
		return err
	}
	defer eng.Close()

	opts.Logger.Info("Score loaded",
		opts.Logger.Field().String("score", name),
		opts.Logger.Field().Int("events", len(events)),
		opts.Logger.Field().Float64("tickMs", tickMs))

	if opts.Once {
		err = eng.RunOnce(cmd.Context())
	} else {
		err = eng.Run(cmd.Context())
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
