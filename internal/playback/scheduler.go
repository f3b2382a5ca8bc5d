package playback

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// ErrInvalidTickDuration rejects a zero, negative or non-finite tick duration.
var ErrInvalidTickDuration = errors.New("tick duration must be a positive number of milliseconds")

// lateWarnThreshold is how far past its deadline an event may fire before a warning is logged.
const lateWarnThreshold = 10 * time.Millisecond

// ScoreSource is a fixed, tick-ordered event sequence and its tick duration.
type ScoreSource struct {
	events []contracts.Event
	tickMs float64
}

// NewScoreSource validates tickMs and wraps events. events must already be
// tick-ordered, as returned by the score package.
func NewScoreSource(events []contracts.Event, tickMs float64) (*ScoreSource, error) {
	if err := CheckTickDuration(tickMs); err != nil {
		return nil, err
	}
	return &ScoreSource{events: events, tickMs: tickMs}, nil
}

// CheckTickDuration returns ErrInvalidTickDuration unless tickMs is positive and finite.
func CheckTickDuration(tickMs float64) error {
	if !(tickMs > 0) || math.IsInf(tickMs, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidTickDuration, tickMs)
	}
	return nil
}

// Len returns the number of events.
func (s *ScoreSource) Len() int { return len(s.events) }

// TickDurationMs returns the milliseconds per tick.
func (s *ScoreSource) TickDurationMs() float64 { return s.tickMs }

// TargetMillis converts an absolute tick count to milliseconds from playback
// start, rounding halves up.
func TargetMillis(ticks uint32, tickMs float64) int64 {
	return int64(math.Floor(float64(ticks)*tickMs + 0.5))
}

// PlaybackState is the position of one playback run.
type PlaybackState struct {
	RunID     uuid.UUID
	StartTime time.Time
	Cursor    int // Next event to release, in [0, Len()].
}

// EventDispatcher receives released score events.
type EventDispatcher interface {
	Dispatch(ev contracts.Event)
}

// Scheduler releases score events when playback time reaches them.
// It never blocks: Poll returns as soon as the next event is not yet due.
type Scheduler struct {
	source     *ScoreSource
	dispatcher EventDispatcher
	clock      contracts.Clock
	logger     contracts.Logger
	state      *PlaybackState
}

// NewScheduler creates an idle scheduler. Call Start to begin a run.
func NewScheduler(source *ScoreSource, dispatcher EventDispatcher, clock contracts.Clock, logger contracts.Logger) *Scheduler {
	return &Scheduler{source: source, dispatcher: dispatcher, clock: clock, logger: logger}
}

// Start begins a new run from the first event, discarding any previous state.
func (s *Scheduler) Start() PlaybackState {
	s.state = &PlaybackState{RunID: uuid.New(), StartTime: s.clock.Now()}
	s.logger.Info("Playback started",
		s.logger.Field().String("run", s.state.RunID.String()),
		s.logger.Field().Int("events", s.source.Len()),
		s.logger.Field().Float64("tickMs", s.source.tickMs))
	return *s.state
}

// Poll releases every event whose target time has passed, in stored order,
// and reports whether the run has finished. Without a run it reports true.
func (s *Scheduler) Poll() bool {
	st := s.state
	if st == nil {
		return true
	}

	for st.Cursor < len(s.source.events) {
		ev := s.source.events[st.Cursor]
		target := TargetMillis(ev.Ticks, s.source.tickMs)
		elapsed := s.clock.Now().Sub(st.StartTime).Milliseconds()
		if elapsed < target {
			return false
		}

		if late := time.Duration(elapsed-target) * time.Millisecond; late > lateWarnThreshold {
			s.logger.Warn("Event released late",
				s.logger.Field().Int("index", st.Cursor),
				s.logger.Field().Duration("late", late))
		}
		s.dispatcher.Dispatch(ev)
		st.Cursor++
		if st.Cursor == len(s.source.events) {
			s.logger.Info("Playback finished",
				s.logger.Field().String("run", st.RunID.String()),
				s.logger.Field().Int64("elapsedMs", elapsed))
		}
	}
	return true
}

// Abort abandons the current run. Actuators already switched on stay on.
func (s *Scheduler) Abort() {
	if s.state == nil {
		return
	}
	s.logger.Warn("Playback aborted",
		s.logger.Field().String("run", s.state.RunID.String()),
		s.logger.Field().Int("cursor", s.state.Cursor),
		s.logger.Field().Int("remaining", len(s.source.events)-s.state.Cursor))
	s.state = nil
}

// Running reports whether a run is in progress.
func (s *Scheduler) Running() bool {
	return s.state != nil && s.state.Cursor < len(s.source.events)
}

// State returns a copy of the current run, if any. A finished run is kept until
// the next Start or Abort.
func (s *Scheduler) State() (PlaybackState, bool) {
	if s.state == nil {
		return PlaybackState{}, false
	}
	return *s.state, true
}

// Play runs s from the start to the end of the score, yielding interval on clk
// between polls. Cancelling ctx aborts the run and returns ctx.Err().
func Play(ctx context.Context, s *Scheduler, clk contracts.Clock, interval time.Duration) error {
	s.Start()
	for !s.Poll() {
		if err := ctx.Err(); err != nil {
			s.Abort()
			return err
		}
		clk.Sleep(interval)
	}
	return nil
}
