package motion_test

import (
	"testing"

	"go.viam.com/test"
)

// TestCalculateMoveReachesCruise exercises a 50mm move on the test axis
// (10mm/s, 10mm/s^2, 80 steps/mm, so a 5mm = 400-step ramp): it reaches
// cruise velocity and has a non-zero coast phase.
func TestCalculateMoveReachesCruise(t *testing.T) {
	axis, _ := newTestAxis()
	m := axis.CalculateMove(50.0)

	test.That(t, m.TotalStepCount, test.ShouldEqual, int32(4000))
	test.That(t, m.AccelStepCount, test.ShouldEqual, int32(400))
	test.That(t, m.DecelStepCount, test.ShouldEqual, int32(400))
	test.That(t, m.CoastStepCount, test.ShouldEqual, int32(3200))
	test.That(t, m.Direction, test.ShouldEqual, int8(1))
}

// TestCalculateMoveShortHasNoCoast exercises a 10mm move, too short to ever
// reach cruise velocity: accel and decel consume the whole move evenly.
func TestCalculateMoveShortHasNoCoast(t *testing.T) {
	axis, _ := newTestAxis()
	m := axis.CalculateMove(10.0)

	test.That(t, m.TotalStepCount, test.ShouldEqual, int32(800))
	test.That(t, m.AccelStepCount, test.ShouldEqual, int32(400))
	test.That(t, m.DecelStepCount, test.ShouldEqual, int32(400))
	test.That(t, m.CoastStepCount, test.ShouldEqual, int32(0))
}

// TestCalculateMoveOddShortSplitsAsymmetrically checks the odd-total short
// move correction: an 11-step total too short for its own accel/decel
// splits 5/6, not 5.5/5.5.
func TestCalculateMoveOddShortSplitsAsymmetrically(t *testing.T) {
	axis, _ := newTestAxis()
	axis.StepsPerMM = 8
	axis.VelocityMMS = 1000
	axis.AccelerationMMS2 = 1

	m := axis.CalculateMove(11.0 / 8.0)

	test.That(t, m.TotalStepCount, test.ShouldEqual, int32(11))
	test.That(t, m.AccelStepCount, test.ShouldEqual, int32(5))
	test.That(t, m.DecelStepCount, test.ShouldEqual, int32(6))
	test.That(t, m.CoastStepCount, test.ShouldEqual, int32(0))
}

func TestCalculateMoveZeroLengthIsIdle(t *testing.T) {
	axis, _ := newTestAxis()
	m := axis.CalculateMove(axis.PositionMM())
	test.That(t, m.IsZero(), test.ShouldBeTrue)
}

func TestCalculateMoveNegativeDestinationSetsDirection(t *testing.T) {
	axis, _ := newTestAxis()
	axis.SetPositionMM(10)
	m := axis.CalculateMove(0)
	test.That(t, m.Direction, test.ShouldEqual, int8(-1))
}

// TestCalculateMoveNegativeFractionalStepRoundsTowardZero pins the
// ceil-on-the-signed-destination rule for a negative, non-integer-step
// target: -1.006mm at 80 steps/mm is -80.48 steps, and ceil rounds that
// toward zero (-80), not away from it (-81).
func TestCalculateMoveNegativeFractionalStepRoundsTowardZero(t *testing.T) {
	axis, _ := newTestAxis()
	m := axis.CalculateMove(-1.006)

	test.That(t, m.TotalStepCount, test.ShouldEqual, int32(80))
	test.That(t, m.Direction, test.ShouldEqual, int8(-1))
}

// TestCalculateMoveNegativeSubStepIsIdle checks that a destination whose
// signed step target still resolves to the current step count (here, 0)
// yields a true no-op rather than spuriously issuing a one-step move.
func TestCalculateMoveNegativeSubStepIsIdle(t *testing.T) {
	axis, _ := newTestAxis()
	m := axis.CalculateMove(-0.001)

	test.That(t, m.IsZero(), test.ShouldBeTrue)
}
