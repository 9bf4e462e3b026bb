package motion

import (
	"context"

	"github.com/pkg/errors"
)

// ErrHomingTimeout is returned when a seek phase runs its full travel
// distance without the expected trigger (stall or endstop) firing.
//
// REDESIGN: linear_axis.c treats this as a silent success (it just stops
// where it ran out of steps); spec.md section 9 flags that as a latent bug
// since the axis is then "homed" at a bogus, unverified position. We
// surface it as an error instead.
var ErrHomingTimeout = errors.New("homing: seek completed without a trigger")

// EndstopPin is the digital input collaborator for endstop homing.
type EndstopPin interface {
	Get(ctx context.Context) (bool, error)
}

// seekResult reports whether a seek phase ended on its trigger (stall or
// endstop) rather than by running out of travel.
type seekResult struct {
	triggered bool
}

// seekUntilStalled drives the axis distanceMM at velocityMM/accelMM toward
// the configured homing direction, polling the driver's stall flag after
// every step, and stops the instant a stall is observed.
func (a *Axis) seekUntilStalled(ctx context.Context, distanceMM, velocityMMS, accelMMS2 float64) (seekResult, error) {
	if err := a.stepper.EnableStallguard(ctx, a.HomingSensitivity); err != nil {
		return seekResult{}, errors.Wrap(err, "enabling stallguard")
	}
	defer a.stepper.DisableStallguard(ctx) //nolint:errcheck

	plan := a.planHomingMove(distanceMM, velocityMMS, accelMMS2)
	a.StartMove(plan)

	for a.IsMoving() {
		select {
		case <-ctx.Done():
			return seekResult{}, ctx.Err()
		default:
		}

		moving, err := a.TimedStep(ctx)
		if err != nil {
			return seekResult{}, err
		}

		stalled, err := a.stepper.Stalled(ctx)
		if err != nil {
			return seekResult{}, errors.Wrap(err, "reading stall flag")
		}
		if stalled {
			a.Stop()
			return seekResult{triggered: true}, nil
		}
		if !moving {
			break
		}
	}
	return seekResult{triggered: false}, nil
}

// seekUntilEndstop is seekUntilStalled's endstop-homing counterpart: it
// polls a GPIO pin instead of the driver's stall flag.
func (a *Axis) seekUntilEndstop(ctx context.Context, pin EndstopPin, distanceMM, velocityMMS, accelMMS2 float64) (seekResult, error) {
	plan := a.planHomingMove(distanceMM, velocityMMS, accelMMS2)
	a.StartMove(plan)

	for a.IsMoving() {
		select {
		case <-ctx.Done():
			return seekResult{}, ctx.Err()
		default:
		}

		moving, err := a.TimedStep(ctx)
		if err != nil {
			return seekResult{}, err
		}

		triggered, err := pin.Get(ctx)
		if err != nil {
			return seekResult{}, errors.Wrap(err, "reading endstop")
		}
		if triggered {
			a.Stop()
			return seekResult{triggered: true}, nil
		}
		if !moving {
			break
		}
	}
	return seekResult{triggered: false}, nil
}

// planHomingMove builds a Movement for a homing seek in HomingDirection,
// using the given kinematics rather than the axis's normal travel speed.
func (a *Axis) planHomingMove(distanceMM, velocityMMS, accelMMS2 float64) Movement {
	total := mmToSteps(distanceMM, a.StepsPerMM)
	accelDistMM := (velocityMMS * velocityMMS) / (2 * accelMMS2)
	accel := mmToSteps(accelDistMM, a.StepsPerMM)
	decel := accel
	coast := total - accel - decel
	if accel+decel >= total {
		accel = total / 2
		decel = total - accel
		coast = 0
	}
	return Movement{
		Direction:         a.HomingDirection,
		AccelStepCount:    accel,
		CoastStepCount:    coast,
		DecelStepCount:    decel,
		TotalStepCount:    total,
		CruiseVelocityMMS: velocityMMS,
		AccelerationMMS2:  accelMMS2,
	}
}

// SensorlessHome implements the three-phase stall-based homing routine
// (spec section 4.3.1 / linear_axis.c's LinearAxis_sensorless_home):
// seek the full HomingDistanceMM toward the endstop, bounce back off the
// stall by HomingBounceMM, then re-seek slowly to land precisely on the
// trigger before zeroing position.
func (a *Axis) SensorlessHome(ctx context.Context) error {
	a.sink.Infof("homing axis %c: sensorless seek", a.Name)
	seek, err := a.seekUntilStalled(ctx, a.HomingDistanceMM, a.HomingVelocityMMS, a.HomingAccelerationMMS2)
	if err != nil {
		return err
	}
	if !seek.triggered {
		return ErrHomingTimeout
	}

	a.sink.Debugf("homing axis %c: bounce %.2fmm", a.Name, a.HomingBounceMM)
	bounceDir := float64(-a.HomingDirection) * a.HomingBounceMM
	bounce := a.CalculateMove(a.PositionMM() + bounceDir)
	a.StartMove(bounce)
	if err := a.runToCompletion(ctx); err != nil {
		return err
	}

	a.sink.Debugf("homing axis %c: re-seek", a.Name)
	reseek, err := a.seekUntilStalled(ctx, a.HomingBounceMM*2, a.HomingVelocityMMS/5, a.HomingAccelerationMMS2/2)
	if err != nil {
		return err
	}
	if !reseek.triggered {
		return ErrHomingTimeout
	}

	a.SetPositionMM(0)
	a.sink.Resultf("axis %c homed (sensorless)", a.Name)
	return nil
}

// EndstopHome is SensorlessHome's endstop-driven counterpart (spec section
// 4.3.2): identical seek/bounce/re-seek structure, but triggers come from a
// digital input pin instead of the stepper driver's stall flag, and the
// re-seek phase uses the same reduced kinematics (velocity/5, accel/2).
func (a *Axis) EndstopHome(ctx context.Context, pin EndstopPin) error {
	a.sink.Infof("homing axis %c: endstop seek", a.Name)
	seek, err := a.seekUntilEndstop(ctx, pin, a.HomingDistanceMM, a.HomingVelocityMMS, a.HomingAccelerationMMS2)
	if err != nil {
		return err
	}
	if !seek.triggered {
		return ErrHomingTimeout
	}

	a.sink.Debugf("homing axis %c: bounce %.2fmm", a.Name, a.HomingBounceMM)
	bounceDir := float64(-a.HomingDirection) * a.HomingBounceMM
	bounce := a.CalculateMove(a.PositionMM() + bounceDir)
	a.StartMove(bounce)
	if err := a.runToCompletion(ctx); err != nil {
		return err
	}

	a.sink.Debugf("homing axis %c: re-seek", a.Name)
	reseek, err := a.seekUntilEndstop(ctx, pin, a.HomingBounceMM*2, a.HomingVelocityMMS/5, a.HomingAccelerationMMS2/2)
	if err != nil {
		return err
	}
	if !reseek.triggered {
		return ErrHomingTimeout
	}

	a.SetPositionMM(0)
	a.sink.Resultf("axis %c homed (endstop)", a.Name)
	return nil
}

// runToCompletion pumps TimedStep until the current move finishes, with no
// trigger polling — used for the homing bounce phase.
func (a *Axis) runToCompletion(ctx context.Context) error {
	for a.IsMoving() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if _, err := a.TimedStep(ctx); err != nil {
			return err
		}
	}
	return nil
}
