// Package driver declares the stepper-driver contract the motion core
// consumes. Concrete drivers (internal/tmcstep, internal/gpiostep) pulse
// real hardware; Fake backs unit tests.
package driver

import "context"

// Driver is the minimum surface the motion core requires from a stepper
// driver, matching the external collaborator described in spec section 6.
type Driver interface {
	// TotalSteps returns the signed, monotonic-modulo-re-zero step counter.
	TotalSteps() int32
	// SetTotalSteps re-zeros (or otherwise overwrites) the step counter.
	SetTotalSteps(steps int32)
	// Direction returns the last latched direction, +1 or -1.
	Direction() int8
	// SetDirection latches the direction for subsequent steps.
	SetDirection(dir int8)
	// Step emits one pulse on this driver alone and advances TotalSteps by
	// Direction().
	Step(ctx context.Context) error
	// EnableStallguard arms the driver's stall detector at the given
	// sensitivity threshold.
	EnableStallguard(ctx context.Context, sensitivity uint16) error
	// DisableStallguard disarms the stall detector.
	DisableStallguard(ctx context.Context) error
	// Stalled reports the driver's current stall flag.
	Stalled(ctx context.Context) (bool, error)
}

// PairStepper is implemented by a Driver that can emit a synchronous pulse
// to itself and a mechanically slaved secondary driver on the same tick.
// Not every Driver needs to support this; the motion core falls back to
// stepping the primary and secondary independently (in the same tick) when
// a driver does not implement it.
type PairStepper interface {
	StepTwo(ctx context.Context, other Driver) error
}
