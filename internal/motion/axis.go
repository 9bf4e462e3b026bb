// Package motion implements the linear motion core: a trapezoidal-profile
// Profiler, a cooperative, time-sliced Stepper, and two homing state
// machines (stall-based and endstop-based). It is deliberately
// single-threaded and cooperative (spec section 5) — callers serialize
// access the way the teacher's components serialize access to hardware
// with their own sync.Mutex.
package motion

import (
	"github.com/pkg/errors"

	"github.com/atanisoft/fishfood/internal/clockutil"
	"github.com/atanisoft/fishfood/internal/driver"
	"github.com/atanisoft/fishfood/internal/report"
)

// Movement is a trapezoidal motion plan: accel/coast/decel step counts and
// direction, plus how much of it has been executed so far. The zero value
// is the idle plan (TotalStepCount == 0).
type Movement struct {
	Direction      int8
	AccelStepCount int32
	CoastStepCount int32
	DecelStepCount int32
	TotalStepCount int32
	StepsTaken     int32

	// CruiseVelocityMMS and AccelerationMMS2 are the kinematics this
	// specific move was planned against. Homing seeks plan moves against
	// HomingVelocityMMS/HomingAccelerationMMS2 rather than the axis's
	// normal travel speed, so the step-interval calculation reads these
	// back off the move rather than off the axis's Config.
	CruiseVelocityMMS float64
	AccelerationMMS2  float64
}

// IsZero reports whether m is the idle (no-op) plan.
func (m Movement) IsZero() bool {
	return m.TotalStepCount == 0
}

// Config holds the kinematic configuration of an Axis (spec section 3).
type Config struct {
	Name             byte
	StepsPerMM       float64
	VelocityMMS      float64
	AccelerationMMS2 float64

	HomingVelocityMMS      float64
	HomingAccelerationMMS2 float64
	HomingDirection        int8
	HomingDistanceMM       float64
	HomingBounceMM         float64
	HomingSensitivity      uint16

	// Endstop names the digital input used by endstop homing; empty means
	// "unset" (spec's 0 sentinel), valid only when endstop homing is used.
	Endstop string
}

// Validate enforces the Configuration Error class from spec section 7.
func (c Config) Validate() error {
	if c.StepsPerMM <= 0 {
		return errors.New("steps_per_mm must be positive")
	}
	if c.HomingDirection != -1 && c.HomingDirection != 1 {
		return errors.New("homing_direction must be -1 or +1")
	}
	return nil
}

// Axis is a single translational degree of freedom driven by one or two
// mechanically slaved stepper drivers.
type Axis struct {
	Config

	stepper  driver.Driver
	stepper2 driver.Driver // nil if this axis has no slaved secondary driver

	clock clockutil.Clock
	sink  report.Sink

	move         Movement
	stepInterval int64 // microseconds
	nextStepAt   int64 // microseconds since clock epoch, only meaningful while moving
}

// New builds an idle Axis. stepper2 may be nil.
func New(cfg Config, stepper, stepper2 driver.Driver, clk clockutil.Clock, sink report.Sink) *Axis {
	return &Axis{
		Config:   cfg,
		stepper:  stepper,
		stepper2: stepper2,
		clock:    clk,
		sink:     sink,
	}
}

// PositionMM derives the current position from the driver's step counter
// (spec invariant 5): position is never stored, only derived.
func (a *Axis) PositionMM() float64 {
	return float64(a.stepper.TotalSteps()) / a.StepsPerMM
}

// SetPositionMM overwrites the step counter so that the current physical
// location is reported as mm, using the same signed ceiling-then-round rule
// as CalculateMove's destination conversion (supplemented feature 1 in
// SPEC_FULL.md) — mm here is a signed position, not a travel magnitude, so
// it must go through destMMToSteps rather than mmToSteps.
func (a *Axis) SetPositionMM(mm float64) {
	steps := destMMToSteps(mm, a.StepsPerMM)
	a.stepper.SetTotalSteps(steps)
	if a.stepper2 != nil {
		a.stepper2.SetTotalSteps(steps)
	}
}

// IsMoving reports whether total_step_count > 0 for the in-flight move.
func (a *Axis) IsMoving() bool {
	return a.move.TotalStepCount > 0
}

// CurrentMove exposes the in-flight plan (read-only) for observability.
func (a *Axis) CurrentMove() Movement {
	return a.move
}
