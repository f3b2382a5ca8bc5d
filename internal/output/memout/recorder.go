// Package memout keeps actuator state in memory. It backs dry runs and tests.
package memout

import (
	"sync"

	"github.com/leandrodaf/solenoid/sdk/contracts"
)

// Change is one SetOutput call as seen by the recorder.
type Change struct {
	ID contracts.ActuatorID
	On bool
}

// Recorder implements contracts.OutputDriver without hardware.
type Recorder struct {
	mu         sync.Mutex
	state      map[contracts.ActuatorID]bool
	configured map[contracts.ActuatorID]bool
	history    []Change
	logger     contracts.Logger
}

// NewRecorder creates an empty recorder. logger may be nil.
func NewRecorder(logger contracts.Logger) *Recorder {
	return &Recorder{
		state:      make(map[contracts.ActuatorID]bool),
		configured: make(map[contracts.ActuatorID]bool),
		logger:     logger,
	}
}

// ConfigureOutput marks id as configured.
func (r *Recorder) ConfigureOutput(id contracts.ActuatorID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configured[id] = true
	return nil
}

// SetOutput records the new level of id.
func (r *Recorder) SetOutput(id contracts.ActuatorID, on bool) error {
	r.mu.Lock()
	r.state[id] = on
	r.history = append(r.history, Change{ID: id, On: on})
	r.mu.Unlock()

	if r.logger != nil {
		r.logger.Info("Output changed",
			r.logger.Field().Int("actuator", int(id)),
			r.logger.Field().Bool("on", on))
	}
	return nil
}

// IsOn reports the last level written to id.
func (r *Recorder) IsOn(id contracts.ActuatorID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state[id]
}

// IsConfigured reports whether ConfigureOutput was called for id.
func (r *Recorder) IsConfigured(id contracts.ActuatorID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.configured[id]
}

// Active returns the ids currently on.
func (r *Recorder) Active() []contracts.ActuatorID {
	r.mu.Lock()
	defer r.mu.Unlock()
	var ids []contracts.ActuatorID
	for id, on := range r.state {
		if on {
			ids = append(ids, id)
		}
	}
	return ids
}

// History returns a copy of every SetOutput call in order.
func (r *Recorder) History() []Change {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Change, len(r.history))
	copy(out, r.history)
	return out
}

// Touched reports whether id was ever written.
func (r *Recorder) Touched(id contracts.ActuatorID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.state[id]
	return ok
}

// ClearHistory drops recorded calls but keeps the current levels.
func (r *Recorder) ClearHistory() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history = nil
}
