package motion_test

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"
)

// runToCompletion ticks TimedStep, advancing the mock clock past whatever
// interval was just computed, until the move finishes or an error occurs.
func runToCompletion(t *testing.T, ctx context.Context, axis interface {
	IsMoving() bool
	TimedStep(context.Context) (bool, error)
}, mock interface{ Add(time.Duration) }) {
	t.Helper()
	for axis.IsMoving() {
		moving, err := axis.TimedStep(ctx)
		test.That(t, err, test.ShouldBeNil)
		if !moving {
			return
		}
		mock.Add(6 * time.Millisecond)
	}
}

func TestStartMoveThenTimedStepAdvancesPosition(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	ctx := context.Background()

	plan := axis.CalculateMove(10.0)
	axis.StartMove(plan)
	test.That(t, axis.IsMoving(), test.ShouldBeTrue)

	runToCompletion(t, ctx, axis, mock)

	test.That(t, fake.TotalSteps(), test.ShouldEqual, int32(800))
	test.That(t, axis.IsMoving(), test.ShouldBeFalse)
}

func TestTimedStepNoOpWhenIdle(t *testing.T) {
	axis, _ := newTestAxis()
	ctx := context.Background()

	moving, err := axis.TimedStep(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, moving, test.ShouldBeFalse)
}

func TestStopAbortsMoveMidway(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	ctx := context.Background()

	plan := axis.CalculateMove(50.0)
	axis.StartMove(plan)
	_, err := axis.TimedStep(ctx)
	test.That(t, err, test.ShouldBeNil)
	_ = mock

	axis.Stop()
	test.That(t, axis.IsMoving(), test.ShouldBeFalse)
	test.That(t, fake.TotalSteps(), test.ShouldEqual, int32(1))
}

func TestNegativeMoveStepsBackward(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	axis.SetPositionMM(10)
	ctx := context.Background()

	plan := axis.CalculateMove(0)
	axis.StartMove(plan)
	runToCompletion(t, ctx, axis, mock)

	test.That(t, fake.TotalSteps(), test.ShouldEqual, int32(0))
}
