// Package engine wires actuators, the dispatcher and one event source into a
// single-threaded cooperative run loop.
package engine

import (
	"context"
	"errors"

	"github.com/leandrodaf/solenoid/internal/actuator"
	"github.com/leandrodaf/solenoid/internal/playback"
	"github.com/leandrodaf/solenoid/sdk/contracts"
)

var (
	// ErrModeConflict is returned when both a live transport and a score are configured.
	ErrModeConflict = errors.New("live transport and stored score are mutually exclusive")
	// ErrNoSource is returned when neither a live transport nor a score is configured.
	ErrNoSource = errors.New("no event source configured")
)

// Mode is the event source an Engine was built for.
type Mode int

const (
	// ModeLive polls a live MIDI transport.
	ModeLive Mode = iota
	// ModeScore plays a stored score.
	ModeScore
)

func (m Mode) String() string {
	if m == ModeLive {
		return "live"
	}
	return "score"
}

// Engine owns the actuation path and exactly one event source.
type Engine struct {
	opts       contracts.EngineOptions
	logger     contracts.Logger
	mapping    *actuator.Map
	dispatcher *actuator.Dispatcher
	act        *actuator.Actuator
	mode       Mode
	live       *playback.LiveSource
	scheduler  *playback.Scheduler
}

// NewEngine creates an engine with the specified options.
// It applies default options, configures every mapped output and leaves it off.
//
// opts ...contracts.Option: A variadic list of option functions to customize the engine.
//
// Returns:
//   - *Engine: An engine ready to Run.
//   - error: An error if the source selection or the score configuration is invalid.
func NewEngine(opts ...contracts.Option) (*Engine, error) {
	options, err := applyDefaultOptions(opts...)
	if err != nil {
		return nil, err
	}

	e := &Engine{
		opts:    options,
		logger:  options.Logger,
		mapping: actuator.NewMap(options.Actuators),
		act:     actuator.New(options.Output, options.Logger),
	}
	e.dispatcher = actuator.NewDispatcher(options.Channels, e.mapping, e.act, options.Logger)

	if options.Score != nil {
		src, err := playback.NewScoreSource(options.Score.Events, options.Score.TickDurationMs)
		if err != nil {
			return nil, err
		}
		e.mode = ModeScore
		e.scheduler = playback.NewScheduler(src, e.dispatcher, options.Clock, options.Logger)
	} else {
		e.mode = ModeLive
		e.live = playback.NewLiveSource(options.Transport, e.dispatcher, options.Logger)
	}

	ids := e.mapping.IDs()
	for _, id := range ids {
		e.act.Configure(id)
	}
	e.logger.Info("Engine created",
		e.logger.Field().String("mode", e.mode.String()),
		e.logger.Field().Int("outputs", len(ids)),
		e.logger.Field().Duration("pollInterval", options.PollInterval))
	return e, nil
}

// Mode reports which source the engine drives.
func (e *Engine) Mode() Mode { return e.mode }

// Dispatcher exposes the note dispatcher, e.g. for manual strikes.
func (e *Engine) Dispatcher() *actuator.Dispatcher { return e.dispatcher }

// Run drives the configured source until ctx is cancelled.
//
// In score mode playback starts when the trigger is held, is abandoned and
// reset if the trigger is released early, and does not repeat until the
// trigger has been released and pressed again.
func (e *Engine) Run(ctx context.Context) error {
	if e.mode == ModeLive {
		return e.runLive(ctx)
	}
	return e.runScore(ctx)
}

// RunOnce plays the score from start to finish regardless of the trigger.
// Cancelling ctx abandons the run and releases every output.
func (e *Engine) RunOnce(ctx context.Context) error {
	if e.mode != ModeScore {
		return ErrNoSource
	}
	if err := playback.Play(ctx, e.scheduler, e.opts.Clock, e.opts.PollInterval); err != nil {
		e.Reset()
		return err
	}
	return nil
}

func (e *Engine) runLive(ctx context.Context) error {
	e.logger.Info("Listening for live notes")
	for ctx.Err() == nil {
		before := e.live.Delivered()
		e.live.Poll()
		if e.live.Delivered() == before {
			e.opts.Clock.Sleep(e.opts.PollInterval)
		}
	}
	return nil
}

func (e *Engine) runScore(ctx context.Context) error {
	e.logger.Info("Waiting for playback trigger")
	rearmed := true
	for ctx.Err() == nil {
		held := e.opts.Trigger.Held()
		switch {
		case e.scheduler.Running() && !held:
			e.scheduler.Abort()
			e.Reset()
		case e.scheduler.Running():
			e.scheduler.Poll()
		case held && rearmed:
			rearmed = false
			e.scheduler.Start()
			e.scheduler.Poll()
		case !held:
			rearmed = true
		}
		e.opts.Clock.Sleep(e.opts.PollInterval)
	}

	if e.scheduler.Running() {
		e.scheduler.Abort()
		e.Reset()
	}
	return nil
}

// Reset releases every mapped output.
func (e *Engine) Reset() {
	for _, id := range e.mapping.IDs() {
		e.act.Release(id)
	}
}

// Close releases every output and closes the live transport, if any.
func (e *Engine) Close() error {
	e.Reset()
	if e.live != nil {
		return e.live.Close()
	}
	return nil
}
