package motion

import (
	"context"
	"math"
	"time"

	"github.com/atanisoft/fishfood/internal/driver"
)

const (
	// maxStepIntervalUs is the ceiling applied to any computed step
	// interval (spec section 4.2.1): never wait longer than this between
	// steps, even while nearly stopped.
	maxStepIntervalUs = 5000
	// bootstrapStepIntervalUs seeds the very first step of a move, before
	// any distance has been covered to derive a velocity from.
	bootstrapStepIntervalUs = 100
	// stoppedStepIntervalUs is used when the computed velocity is exactly
	// zero (coasting at v=0 should not happen, but guards divide-by-zero).
	stoppedStepIntervalUs = 1000
)

// StartMove arms the axis to execute plan. The first TimedStep call will
// fire immediately; subsequent calls self-pace against nextStepAt. The
// distance the plan actually covers, after step quantization, is reported
// at info level.
func (a *Axis) StartMove(plan Movement) {
	a.move = plan
	a.stepper.SetDirection(plan.Direction)
	if a.stepper2 != nil {
		a.stepper2.SetDirection(plan.Direction)
	}
	a.stepInterval = bootstrapStepIntervalUs
	a.nextStepAt = a.clock.Now().UnixMicro()
	a.sink.Infof("axis %c: moving %.3fmm", a.Name, float64(plan.Direction)*float64(plan.TotalStepCount)/a.StepsPerMM)
}

// Stop aborts the in-flight move immediately, leaving the step counters
// wherever they stand (spec: stopping mid-move is not an error).
func (a *Axis) Stop() {
	a.move = Movement{}
}

// TimedStep is the cooperative scheduler tick (spec section 4.2): if it is
// not yet time for the next step it returns true without doing anything; if
// a step is due it fires it, recomputes the interval for the step after,
// and reports whether the move is still in progress.
func (a *Axis) TimedStep(ctx context.Context) (bool, error) {
	if a.move.IsZero() {
		return false, nil
	}

	now := a.clock.Now().UnixMicro()
	if now < a.nextStepAt {
		return true, nil
	}

	if err := a.directStep(ctx); err != nil {
		return true, err
	}

	a.move.StepsTaken++
	if a.move.StepsTaken >= a.move.TotalStepCount {
		a.move = Movement{}
		return false, nil
	}

	a.stepInterval = a.calculateStepInterval()
	a.nextStepAt = now + a.stepInterval
	return true, nil
}

// directStep emits one physical pulse, preferring a synchronous two-driver
// pulse when the primary driver supports it (spec's "paired stepper" note).
func (a *Axis) directStep(ctx context.Context) error {
	if a.stepper2 != nil {
		if pair, ok := a.stepper.(driver.PairStepper); ok {
			return pair.StepTwo(ctx, a.stepper2)
		}
		if err := a.stepper.Step(ctx); err != nil {
			return err
		}
		return a.stepper2.Step(ctx)
	}
	return a.stepper.Step(ctx)
}

// calculateStepInterval derives the next step's interval in microseconds
// from the move's current phase (spec section 4.2.1), mirroring
// linear_axis.c's LinearAxis_calculate_step_interval: v = sqrt(2*a*d) within
// whichever phase we're in, clamped at maxStepIntervalUs and floored at
// stoppedStepIntervalUs when v rounds to zero.
func (a *Axis) calculateStepInterval() int64 {
	m := a.move
	var distMM float64

	switch {
	case m.StepsTaken < m.AccelStepCount:
		// Accelerating: distance covered so far in this phase.
		distMM = float64(m.StepsTaken) / a.StepsPerMM
	case m.StepsTaken < m.AccelStepCount+m.CoastStepCount:
		// Coasting: constant cruise velocity, no distance-based lookup.
		return mmPerSecToIntervalUs(m.CruiseVelocityMMS, a.StepsPerMM)
	default:
		// Decelerating: distance remaining until the move ends.
		remaining := m.TotalStepCount - m.StepsTaken
		distMM = float64(remaining) / a.StepsPerMM
	}

	v := math.Sqrt(2 * m.AccelerationMMS2 * distMM)
	return mmPerSecToIntervalUs(v, a.StepsPerMM)
}

// mmPerSecToIntervalUs converts a linear velocity to a step interval via the
// axis's steps_per_mm, matching linear_axis.c:297-303
// (steps_per_s = inst_velocity / (1.0f/steps_per_mm); interval = 1e6/steps_per_s):
// the step rate is steps/s, not mm/s, so stepsPerMM must factor into the
// inversion, not just the velocity.
func mmPerSecToIntervalUs(v, stepsPerMM float64) int64 {
	stepsPerSec := v * stepsPerMM
	if stepsPerSec <= 0 {
		return stoppedStepIntervalUs
	}
	us := int64(math.Round(1_000_000 / stepsPerSec))
	if us > maxStepIntervalUs {
		return maxStepIntervalUs
	}
	if us <= 0 {
		return stoppedStepIntervalUs
	}
	return us
}

// WaitForMove blocks the calling goroutine, ticking TimedStep against the
// real wall clock until the move completes, ctx is canceled, or a step
// fails, reporting progress at most once per second of the injected clock.
// It is meant for synchronous callers (the standalone daemon, GoTo
// from a motor.Motor implementation) — the viam-registered component drives
// TimedStep from its own background worker instead.
func (a *Axis) WaitForMove(ctx context.Context) error {
	lastReport := a.clock.Now()
	for a.IsMoving() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		moving, err := a.TimedStep(ctx)
		if err != nil {
			return err
		}
		if !moving {
			return nil
		}

		if now := a.clock.Now(); now.Sub(lastReport) >= time.Second {
			a.sink.Infof("axis %c: %d/%d steps, at %.3fmm", a.Name, a.move.StepsTaken, a.move.TotalStepCount, a.PositionMM())
			lastReport = now
		}

		wait := time.Duration(a.nextStepAt-a.clock.Now().UnixMicro()) * time.Microsecond
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return nil
}
