package gpioio

import (
	"context"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/host/v3"
)

// InitPeriph loads periph.io's host drivers once at process start. Call
// this before FromPeriph.
func InitPeriph() error {
	_, err := host.Init()
	return errors.Wrap(err, "initializing periph.io host drivers")
}

// FromPeriph wraps a named periph.io/x/conn/v3/gpio pin (e.g. "GPIO17") as
// a Pin, configuring pull-up-as-input when asInput is true.
func FromPeriph(name string, asInput bool) (Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return Pin{}, errors.Errorf("gpio pin %q not found", name)
	}
	if asInput {
		if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
			return Pin{}, errors.Wrapf(err, "configuring %q as input", name)
		}
	}
	return Pin{
		set: func(ctx context.Context, high bool) error {
			lvl := gpio.Low
			if high {
				lvl = gpio.High
			}
			return p.Out(lvl)
		},
		get: func(ctx context.Context) (bool, error) {
			return p.Read() == gpio.High, nil
		},
	}, nil
}
