// Package cli implements the solenoid command line.
package cli

import (
	"fmt"

	"github.com/leandrodaf/solenoid/internal/config"
	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/sdk/contracts"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	LogLevel   string
	LogFile    string

	// Set by PersistentPreRunE.
	Config *config.Config
	Logger contracts.Logger
}

// NewRootCommand creates the root command for the solenoid CLI.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&RootOptions{})
}

func newRootCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "solenoid",
		Short: "Drive solenoid instruments from MIDI",
		Long: `solenoid strikes piano hammers, drums and percussion through solenoid
actuators, either live from a MIDI input or from a stored score.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return opts.setup()
		},
	}

	// Global flags
	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "YAML config file")
	cmd.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "log level (debug|info|warn|error), overrides the config")
	cmd.PersistentFlags().StringVar(&opts.LogFile, "log-file", "", "write logs to this file, overrides the config")

	// Add subcommands
	cmd.AddCommand(NewLiveCommand(opts))
	cmd.AddCommand(NewPlayCommand(opts))
	cmd.AddCommand(NewSendCommand(opts))
	cmd.AddCommand(NewCompileCommand(opts))
	cmd.AddCommand(NewScaleCommand(opts))
	cmd.AddCommand(NewInspectCommand(opts))

	return cmd
}

// setup loads the config file, applies flag overrides and builds the logger.
func (o *RootOptions) setup() error {
	cfg := config.Default()
	if o.ConfigPath != "" {
		loaded, err := config.Load(o.ConfigPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	if o.LogLevel != "" {
		cfg.Log.Level = o.LogLevel
	}
	if o.LogFile != "" {
		cfg.Log.File = o.LogFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	o.Config = cfg

	if o.Logger == nil {
		o.Logger = logger.NewZapLogger()
	}
	o.Logger.SetLevel(cfg.LogLevel())
	if cfg.Log.File != "" {
		o.Logger.SetDestination(contracts.FileLog, cfg.Log.File)
	}
	o.Logger.Debug("Configuration loaded",
		o.Logger.Field().String("config", o.ConfigPath),
		o.Logger.Field().String("transport", cfg.Transport.Kind),
		o.Logger.Field().String("output", cfg.Output.Kind),
		o.Logger.Field().String("trigger", cfg.Trigger.Kind))
	return nil
}

// tickDuration picks the --tick-ms flag when it was given, then the config
// value, then fallback. An explicit flag is checked even when it is zero;
// the config value was checked on load.
func (o *RootOptions) tickDuration(cmd *cobra.Command, flag, fallback float64) (float64, error) {
	switch {
	case cmd.Flags().Changed("tick-ms"):
		return flag, playback.CheckTickDuration(flag)
	case o.Config.TickDurationMs != nil:
		return *o.Config.TickDurationMs, nil
	}
	return fallback, nil
}

func (o *RootOptions) engineOptions() []contracts.Option {
	return []contracts.Option{
		contracts.WithLogger(o.Logger),
		contracts.WithLogLevel(o.Config.LogLevel()),
		contracts.WithActuatorTable(o.Config.ActuatorTable()),
		contracts.WithChannelTable(o.Config.ChannelTable()),
		contracts.WithPollInterval(o.Config.PollInterval),
	}
}

func warnIfUnmapped(o *RootOptions) {
	if len(o.Config.Actuators) == 0 {
		o.Logger.Warn("No actuators mapped; every note resolves to nothing",
			o.Logger.Field().String("config", fmt.Sprintf("%q", o.ConfigPath)))
	}
}
