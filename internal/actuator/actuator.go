package actuator

import "github.com/leandrodaf/solenoid/sdk/contracts"

// Actuator drives outputs through an OutputDriver. It keeps no per-output state:
// repeating Activate or Release is harmless at the physical level.
type Actuator struct {
	driver contracts.OutputDriver
	logger contracts.Logger
}

// New creates an Actuator over driver.
func New(driver contracts.OutputDriver, logger contracts.Logger) *Actuator {
	return &Actuator{driver: driver, logger: logger}
}

// Activate switches id on. The sentinel id is ignored.
func (a *Actuator) Activate(id contracts.ActuatorID) {
	a.set(id, true)
}

// Release switches id off. The sentinel id is ignored.
func (a *Actuator) Release(id contracts.ActuatorID) {
	a.set(id, false)
}

// Configure prepares id as an output and leaves it off.
func (a *Actuator) Configure(id contracts.ActuatorID) {
	if id == contracts.NoActuator {
		return
	}
	if err := a.driver.ConfigureOutput(id); err != nil {
		a.logger.Warn("Failed to configure output",
			a.logger.Field().Int("actuator", int(id)),
			a.logger.Field().Error("error", err))
	}
	a.set(id, false)
}

func (a *Actuator) set(id contracts.ActuatorID, on bool) {
	if id == contracts.NoActuator {
		return
	}
	// No feedback path exists from the hardware; failures end here.
	if err := a.driver.SetOutput(id, on); err != nil {
		a.logger.Warn("Failed to drive output",
			a.logger.Field().Int("actuator", int(id)),
			a.logger.Field().Bool("on", on),
			a.logger.Field().Error("error", err))
	}
}
