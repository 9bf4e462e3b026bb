package gpiostep_test

import (
	"context"
	"testing"

	"go.viam.com/test"

	"github.com/atanisoft/fishfood/internal/gpioio"
	"github.com/atanisoft/fishfood/internal/gpiostep"
)

func TestStepAdvancesCounterForward(t *testing.T) {
	step, _ := gpioio.NewFake()
	dir, _ := gpioio.NewFake()
	d := gpiostep.New(step, dir, gpioio.Pin{}, false)
	ctx := context.Background()

	test.That(t, d.Step(ctx), test.ShouldBeNil)
	test.That(t, d.Step(ctx), test.ShouldBeNil)
	test.That(t, d.TotalSteps(), test.ShouldEqual, int32(2))
}

func TestSetDirectionReversesCounter(t *testing.T) {
	step, _ := gpioio.NewFake()
	dir, _ := gpioio.NewFake()
	d := gpiostep.New(step, dir, gpioio.Pin{}, false)
	ctx := context.Background()
	d.SetDirection(-1)

	test.That(t, d.Step(ctx), test.ShouldBeNil)
	test.That(t, d.TotalSteps(), test.ShouldEqual, int32(-1))
}

func TestStalledAlwaysFalseWithoutRegisterInterface(t *testing.T) {
	step, _ := gpioio.NewFake()
	dir, _ := gpioio.NewFake()
	d := gpiostep.New(step, dir, gpioio.Pin{}, false)

	stalled, err := d.Stalled(context.Background())
	test.That(t, err, test.ShouldBeNil)
	test.That(t, stalled, test.ShouldBeFalse)
}

func TestEnableWithoutEnablePinIsNoop(t *testing.T) {
	step, _ := gpioio.NewFake()
	dir, _ := gpioio.NewFake()
	d := gpiostep.New(step, dir, gpioio.Pin{}, false)

	err := d.Enable(context.Background(), true)
	test.That(t, err, test.ShouldBeNil)
}
