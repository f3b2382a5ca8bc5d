package contracts

import "time"

// ScoreConfig carries a stored score and its tick-to-time conversion constant.
type ScoreConfig struct {
	Events         []Event // Validated, tick-ordered events.
	TickDurationMs float64 // Milliseconds per tick; must be > 0.
}

// EngineOptions defines the configuration options for the actuator engine.
type EngineOptions struct {
	Logger       Logger        // Logger for logging events and errors.
	LogLevel     LogLevel      // Level of logging to use.
	LogFilePath  string        // File path for logging if file logging is enabled.
	Output       OutputDriver  // Physical actuation backend.
	Actuators    ActuatorTable // (instrument, note) → actuator relation.
	Channels     ChannelTable  // Channel → instrument family.
	Clock        Clock         // Time source and yield.
	PollInterval time.Duration // Cooperative yield between poll iterations.
	Transport    Transport     // Live mode source; mutually exclusive with Score.
	Score        *ScoreConfig  // Stored playback source; mutually exclusive with Transport.
	Trigger      Trigger       // Playback trigger for stored mode.
}

// Option is a function that modifies EngineOptions.
type Option func(*EngineOptions)

// WithLogger sets the logger for the engine.
func WithLogger(l Logger) Option {
	return func(opts *EngineOptions) {
		opts.Logger = l
	}
}

// WithLogLevel sets the logging level for the engine.
func WithLogLevel(level LogLevel) Option {
	return func(opts *EngineOptions) {
		opts.LogLevel = level
	}
}

// WithLogFile directs the engine logger to a file.
func WithLogFile(path string) Option {
	return func(opts *EngineOptions) {
		opts.LogFilePath = path
	}
}

// WithOutputDriver sets the physical actuation backend.
func WithOutputDriver(d OutputDriver) Option {
	return func(opts *EngineOptions) {
		opts.Output = d
	}
}

// WithActuatorTable sets the instrument note → actuator relation.
func WithActuatorTable(t ActuatorTable) Option {
	return func(opts *EngineOptions) {
		opts.Actuators = t
	}
}

// WithChannelTable overrides the default channel layout.
func WithChannelTable(t ChannelTable) Option {
	return func(opts *EngineOptions) {
		opts.Channels = t
	}
}

// WithClock replaces the system clock, typically with a fake in tests.
func WithClock(c Clock) Option {
	return func(opts *EngineOptions) {
		opts.Clock = c
	}
}

// WithPollInterval sets the yield between poll iterations.
func WithPollInterval(d time.Duration) Option {
	return func(opts *EngineOptions) {
		opts.PollInterval = d
	}
}

// WithLiveTransport selects live mode on the given transport.
func WithLiveTransport(t Transport) Option {
	return func(opts *EngineOptions) {
		opts.Transport = t
	}
}

// WithScore selects stored playback of events at tickDurationMs per tick.
func WithScore(events []Event, tickDurationMs float64) Option {
	return func(opts *EngineOptions) {
		opts.Score = &ScoreConfig{Events: events, TickDurationMs: tickDurationMs}
	}
}

// WithTrigger sets the input that starts stored playback while held.
func WithTrigger(t Trigger) Option {
	return func(opts *EngineOptions) {
		opts.Trigger = t
	}
}

// TransportOptions configures an OS-level MIDI transport.
type TransportOptions struct {
	Logger     Logger // Logger for device and decode events.
	ClientName string // Name registered with the OS MIDI service.
	BufferSize int    // Raw messages held between two Read calls.
}
