// Package gpiostep implements the driver.Driver contract by bit-banging a
// STEP/DIR pin pair directly, adapted from the teacher's (viam-modules-uln2003)
// GPIO-pulsing pattern for a two-wire stepper driver instead of ULN2003's
// four-wire sequencing.
package gpiostep

import (
	"context"
	"sync"

	"go.uber.org/multierr"

	"github.com/atanisoft/fishfood/internal/gpioio"
)

// Driver steps a driver chip (A4988/DRV8825/TMC2209-in-legacy-mode style)
// over a STEP/DIR pin pair and, optionally, an active-low ENABLE pin.
type Driver struct {
	mu sync.Mutex

	stepPin   gpioio.Pin
	dirPin    gpioio.Pin
	enablePin gpioio.Pin
	hasEnable bool

	totalSteps int32
	direction  int8
	armed      bool
}

// New builds a Driver. Pass hasEnable=false if the hardware has no enable
// line (it is then assumed permanently enabled).
func New(stepPin, dirPin, enablePin gpioio.Pin, hasEnable bool) *Driver {
	return &Driver{stepPin: stepPin, dirPin: dirPin, enablePin: enablePin, hasEnable: hasEnable, direction: 1}
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

func (d *Driver) Step(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := d.dirPin.Set(ctx, d.direction > 0); err != nil {
		return err
	}
	if err := multierr.Combine(
		d.stepPin.Set(ctx, true),
		d.stepPin.Set(ctx, false),
	); err != nil {
		return err
	}
	d.totalSteps += int32(d.direction)
	return nil
}

// EnableStallguard is unsupported on a bare STEP/DIR driver: this class of
// hardware has no SPI register interface to arm StallGuard on, so only
// endstop homing is meaningful with this driver.
func (d *Driver) EnableStallguard(ctx context.Context, sensitivity uint16) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed = true
	return nil
}

func (d *Driver) DisableStallguard(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.armed = false
	return nil
}

// Stalled always reports false: without a register interface there is no
// stall signal to read.
func (d *Driver) Stalled(ctx context.Context) (bool, error) {
	return false, nil
}

// Enable drives the ENABLE line, active-low per common stepper driver
// convention (mirrors the teacher's enablePinHigh/Low handling).
func (d *Driver) Enable(ctx context.Context, on bool) error {
	if !d.hasEnable {
		return nil
	}
	return d.enablePin.Set(ctx, !on)
}
