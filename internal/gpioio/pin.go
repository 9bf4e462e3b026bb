// Package gpioio declares the digital-pin contract spec section 6 requires
// of endstop and direct-GPIO stepper hardware, plus concrete adapters over
// two independent GPIO stacks (periph.io and go-rpio) so the rest of the
// pack's hardware-access idioms both get a home.
package gpioio

import "context"

// Pin is a single digital input/output line.
type Pin struct {
	set func(ctx context.Context, high bool) error
	get func(ctx context.Context) (bool, error)
}

// New wraps arbitrary set/get functions as a Pin, for adapting a
// collaborator (e.g. a board.GPIOPin) that doesn't natively match this
// package's adapters.
func New(set func(ctx context.Context, high bool) error, get func(ctx context.Context) (bool, error)) Pin {
	return Pin{set: set, get: get}
}

// Set drives the pin high or low through the underlying adapter and returns
// that adapter's error, if any. None of this package's adapters rejects a
// Set on a pin configured as input.
func (p Pin) Set(ctx context.Context, high bool) error {
	return p.set(ctx, high)
}

// Get reads the pin's current logic level.
func (p Pin) Get(ctx context.Context) (bool, error) {
	return p.get(ctx)
}
