// Package uln2003step implements the driver.Driver contract for a cheap
// 28BYJ-48 geared stepper driven through a ULN2003 darlington array: four
// GPIO pins advanced through an eight-phase half-step sequence. Adapted
// from viam-modules-uln2003's GPIO-pulsing pattern — that module drove the
// motor directly as a viam motor.Motor; here the same coil sequencing
// backs the driver.Driver interface instead, so a 28BYJ-48 axis can be
// homed and profiled through the same linear motion core as any other
// stepper.
package uln2003step

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/atanisoft/fishfood/internal/gpioio"
)

// stepSequence is one full electrical cycle of the ULN2003 half-step
// drive. Advancing through it forward or backward is one step.
var stepSequence = [8][4]bool{
	{false, false, false, true},
	{true, false, false, true},
	{true, false, false, false},
	{true, true, false, false},
	{false, true, false, false},
	{false, true, true, false},
	{false, false, true, false},
	{false, false, true, true},
}

// Driver drives a 28BYJ-48/ULN2003 pair. It has no StallGuard equivalent,
// so EnableStallguard/Stalled are no-ops — this driver only supports
// endstop homing.
type Driver struct {
	mu sync.Mutex

	in1, in2, in3, in4 gpioio.Pin

	totalSteps int32
	direction  int8
	phase      int
}

// New wires the four ULN2003 input pins in in1..in4 order.
func New(in1, in2, in3, in4 gpioio.Pin) *Driver {
	return &Driver{in1: in1, in2: in2, in3: in3, in4: in4, direction: 1}
}

func (d *Driver) TotalSteps() int32 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.totalSteps
}

func (d *Driver) SetTotalSteps(steps int32) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.totalSteps = steps
}

func (d *Driver) Direction() int8 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.direction
}

func (d *Driver) SetDirection(dir int8) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.direction = dir
}

// Step advances the coil sequence one phase in the latched direction and
// sets the four pins accordingly.
func (d *Driver) Step(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.direction >= 0 {
		d.phase++
	} else {
		d.phase--
	}
	d.phase = ((d.phase % 8) + 8) % 8

	seq := stepSequence[d.phase]
	if err := multierr.Combine(
		d.in1.Set(ctx, seq[0]),
		d.in2.Set(ctx, seq[1]),
		d.in3.Set(ctx, seq[2]),
		d.in4.Set(ctx, seq[3]),
	); err != nil {
		return err
	}

	d.totalSteps += int32(d.direction)
	return nil
}

// EnableStallguard is unsupported: a ULN2003/28BYJ-48 pair has no stall
// detection. Sensorless homing is not available for this driver.
func (d *Driver) EnableStallguard(ctx context.Context, sensitivity uint16) error {
	return nil
}

func (d *Driver) DisableStallguard(ctx context.Context) error {
	return nil
}

func (d *Driver) Stalled(ctx context.Context) (bool, error) {
	return false, nil
}

// Coast de-energizes all four coils, the 28BYJ-48's equivalent of an idle
// stepper (reduces heat and current draw between moves).
func (d *Driver) Coast(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return multierr.Combine(
		d.in1.Set(ctx, false),
		d.in2.Set(ctx, false),
		d.in3.Set(ctx, false),
		d.in4.Set(ctx, false),
	)
}
