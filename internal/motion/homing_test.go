package motion_test

import (
	"context"
	"testing"
	"time"

	"go.viam.com/test"

	"github.com/atanisoft/fishfood/internal/motion"
)

// fakeEndstop triggers once the axis has traveled past a threshold number
// of driver steps, simulating a physical limit switch.
type fakeEndstop struct {
	fake      interface{ StepCount() int }
	threshold int
}

func (f *fakeEndstop) Get(ctx context.Context) (bool, error) {
	return f.fake.StepCount() >= f.threshold, nil
}

// pumpClock advances mock continuously (no real sleeps) until stop fires,
// so a caller's cooperative TimedStep loop always has time to advance
// into, regardless of how many mock-microseconds the scenario needs.
func pumpClock(mock interface{ Add(time.Duration) }, stop <-chan struct{}) {
	for {
		select {
		case <-stop:
			return
		default:
			mock.Add(time.Millisecond)
		}
	}
}

func TestSensorlessHomeSucceeds(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stop := make(chan struct{})
	defer close(stop)
	go func() {
		for fake.StepCount() < 50 {
			time.Sleep(time.Microsecond)
		}
		fake.SetStalled(true)
	}()
	go pumpClock(mock, stop)

	err := axis.SensorlessHome(ctx)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis.PositionMM(), test.ShouldAlmostEqual, 0.0, 0.001)
}

func TestEndstopHomeSucceeds(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pin := &fakeEndstop{fake: fake, threshold: 50}

	stop := make(chan struct{})
	defer close(stop)
	go pumpClock(mock, stop)

	err := axis.EndstopHome(ctx, pin)
	test.That(t, err, test.ShouldBeNil)
	test.That(t, axis.PositionMM(), test.ShouldAlmostEqual, 0.0, 0.001)
}

func TestHomingTimeoutWhenTriggerNeverFires(t *testing.T) {
	axis, fake, mock := newTestAxisWithClock()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	pin := &fakeEndstop{fake: fake, threshold: 1 << 30}

	stop := make(chan struct{})
	defer close(stop)
	go pumpClock(mock, stop)

	err := axis.EndstopHome(ctx, pin)
	test.That(t, err, test.ShouldEqual, motion.ErrHomingTimeout)
}
