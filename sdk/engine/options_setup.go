package engine

import (
	"time"

	"github.com/leandrodaf/solenoid/internal/clock"
	"github.com/leandrodaf/solenoid/internal/logger"
	"github.com/leandrodaf/solenoid/internal/output/memout"
	"github.com/leandrodaf/solenoid/internal/trigger"
	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// DefaultPollInterval keeps strike timing well inside perceptual accuracy.
const DefaultPollInterval = time.Millisecond

// applyDefaultOptions sets default values for EngineOptions if not explicitly provided.
//
// opts ...contracts.Option: A variadic list of option functions that can modify EngineOptions.
//
// Returns:
//   - contracts.EngineOptions: A structure containing the finalized options with defaults applied.
//   - error: An error if the options select no source or both sources.
func applyDefaultOptions(opts ...contracts.Option) (contracts.EngineOptions, error) {
	options := &contracts.EngineOptions{}
	for _, opt := range opts {
		opt(options)
	}

	if options.Transport != nil && options.Score != nil {
		return *options, ErrModeConflict
	}
	if options.Transport == nil && options.Score == nil {
		return *options, ErrNoSource
	}

	if options.Logger == nil {
		options.Logger = logger.NewZapLogger()
	}
	options.Logger.SetLevel(options.LogLevel)
	if options.LogFilePath != "" {
		options.Logger.SetDestination(contracts.FileLog, options.LogFilePath)
	}

	if options.Output == nil {
		options.Logger.Warn("No output driver configured; actuation is recorded in memory only")
		options.Output = memout.NewRecorder(options.Logger)
	}
	if options.Channels == nil {
		options.Channels = contracts.DefaultChannelTable()
	}
	if options.Clock == nil {
		options.Clock = clock.System{}
	}
	if options.PollInterval <= 0 {
		options.PollInterval = DefaultPollInterval
	}
	if options.Trigger == nil {
		options.Trigger = trigger.Always{}
	}
	return *options, nil
}
