package gpioio

import (
	"context"

	"github.com/stianeikeland/go-rpio/v4"
)

// InitRPIO opens /dev/gpiomem for direct-register access. Call this before
// FromRPIO; CloseRPIO releases it at shutdown.
func InitRPIO() error {
	return rpio.Open()
}

// CloseRPIO releases the memory mapping opened by InitRPIO.
func CloseRPIO() error {
	return rpio.Close()
}

// FromRPIO wraps a BCM GPIO number as a Pin using go-rpio's direct register
// access, the alternate Raspberry Pi GPIO path the pack demonstrates
// alongside periph.io.
func FromRPIO(bcmPin int, asInput bool) Pin {
	p := rpio.Pin(bcmPin)
	if asInput {
		p.Input()
		p.PullUp()
	} else {
		p.Output()
	}
	return Pin{
		set: func(ctx context.Context, high bool) error {
			if high {
				p.High()
			} else {
				p.Low()
			}
			return nil
		},
		get: func(ctx context.Context) (bool, error) {
			return p.Read() == rpio.High, nil
		},
	}
}
