package gpioio

import "context"

// NewFake returns a Pin backed by an in-memory bool a test can flip with
// the returned setter, for exercising endstop-driven code paths without
// real hardware.
func NewFake() (pin Pin, setLevel func(bool)) {
	level := false
	return Pin{
		set: func(ctx context.Context, high bool) error {
			level = high
			return nil
		},
		get: func(ctx context.Context) (bool, error) {
			return level, nil
		},
	}, func(v bool) { level = v }
}
