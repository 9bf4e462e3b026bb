package uln2003step_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/atanisoft/fishfood/internal/gpioio"
	"github.com/atanisoft/fishfood/internal/uln2003step"
)

func TestStepAdvancesForward(t *testing.T) {
	p1, _ := gpioio.NewFake()
	p2, _ := gpioio.NewFake()
	p3, _ := gpioio.NewFake()
	p4, _ := gpioio.NewFake()
	d := uln2003step.New(p1, p2, p3, p4)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		test.That(t, d.Step(ctx), test.ShouldBeNil)
	}
	test.That(t, d.TotalSteps(), test.ShouldEqual, int32(8))
}

func TestStepReversesWithDirection(t *testing.T) {
	p1, _ := gpioio.NewFake()
	p2, _ := gpioio.NewFake()
	p3, _ := gpioio.NewFake()
	p4, _ := gpioio.NewFake()
	d := uln2003step.New(p1, p2, p3, p4)
	ctx := context.Background()
	d.SetDirection(-1)

	test.That(t, d.Step(ctx), test.ShouldBeNil)
	test.That(t, d.TotalSteps(), test.ShouldEqual, int32(-1))
}

func TestStalledAlwaysFalse(t *testing.T) {
	p1, _ := gpioio.NewFake()
	p2, _ := gpioio.NewFake()
	p3, _ := gpioio.NewFake()
	p4, _ := gpioio.NewFake()
	d := uln2003step.New(p1, p2, p3, p4)

	stalled, err := d.Stalled(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stalled, test.ShouldBeFalse)
}
