package motion

import "math"

// mmToSteps converts a travel distance magnitude in mm to a step count using
// the same ceiling-then-round rule as linear_axis.c's LinearAxis_calculate_move:
// ceil first so a move never falls short of its destination by a fraction
// of a step, then round to the nearest whole step. Only valid for
// non-negative magnitudes (accel/decel distances, homing travel) — use
// destMMToSteps for a signed position or destination.
func mmToSteps(mm, stepsPerMM float64) int32 {
	raw := math.Abs(mm) * stepsPerMM
	return int32(math.Round(math.Ceil(raw)))
}

// destMMToSteps converts a signed absolute position/destination in mm to a
// signed step count, applying ceil-then-round to the signed product
// (linear_axis.c's lroundf(ceilf(mm*steps_per_mm))) rather than to its
// magnitude: ceil(-x) rounds toward zero, which is not the same operation as
// -ceil(x), so this must not be built from mmToSteps's abs'd variant.
func destMMToSteps(mm, stepsPerMM float64) int32 {
	return int32(math.Round(math.Ceil(mm * stepsPerMM)))
}

// CalculateMove turns a destination (in mm, absolute) into a trapezoidal
// Movement plan (spec section 4.1): the destination and the axis's current
// step count are each converted to steps independently and differenced,
// matching linear_axis.c rather than subtracting in mm-space first, so
// fractional-step destinations round the same way regardless of direction.
// A destination that resolves to the current step count yields the zero
// Movement.
func (a *Axis) CalculateMove(destMM float64) Movement {
	destSteps := destMMToSteps(destMM, a.StepsPerMM)
	delta := int64(destSteps) - int64(a.stepper.TotalSteps())
	if delta == 0 {
		return Movement{}
	}

	direction := int8(1)
	if delta < 0 {
		direction = -1
	}

	total := int32(delta)
	if total < 0 {
		total = -total
	}

	// accel = decel = steps needed to reach VelocityMMS from rest at
	// AccelerationMMS2, derived from v^2 = 2*a*d.
	accelDistMM := (a.VelocityMMS * a.VelocityMMS) / (2 * a.AccelerationMMS2)
	accel := mmToSteps(accelDistMM, a.StepsPerMM)
	decel := accel

	if accel+decel >= total {
		// Move too short to reach cruise velocity: split the available
		// steps asymmetrically (accel gets the floor half, decel the
		// remainder), so an odd total still adds up exactly.
		accel = total / 2
		decel = total - accel
		return Movement{
			Direction:         direction,
			AccelStepCount:    accel,
			CoastStepCount:    0,
			DecelStepCount:    decel,
			TotalStepCount:    total,
			CruiseVelocityMMS: a.VelocityMMS,
			AccelerationMMS2:  a.AccelerationMMS2,
		}
	}

	return Movement{
		Direction:         direction,
		AccelStepCount:    accel,
		CoastStepCount:    total - accel - decel,
		DecelStepCount:    decel,
		TotalStepCount:    total,
		CruiseVelocityMMS: a.VelocityMMS,
		AccelerationMMS2:  a.AccelerationMMS2,
	}
}
