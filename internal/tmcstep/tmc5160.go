// Package tmcstep implements the driver.Driver contract over a TMC5160
// stepper driver chip's SPI register interface, grounded on the pack's
// tinygo.org/x/drivers tmc5160 register layout: GCONF/CHOPCONF/COOLCONF and
// the StallGuard flag in DRV_STATUS.
package tmcstep

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"periph.io/x/conn/v3/spi"
)

// TMC5160 register addresses (datasheet section 5).
const (
	regGCONF     = 0x00
	regGSTAT     = 0x01
	regCHOPCONF  = 0x6C
	regCOOLCONF  = 0x6D
	regDRVSTATUS = 0x6F

	writeBit = 0x80

	// drvStatusStallGuardBit is the StallGuard output flag within
	// DRV_STATUS: set when the motor stalled under the current SGT
	// threshold.
	drvStatusStallGuardBit = 1 << 24
)

// Driver drives one TMC5160 over SPI, tracking its own step/direction state
// in software the way the chip's internal position counter would (spec's
// "monotonic-modulo-re-zero step counter").
type Driver struct {
	mu   sync.Mutex
	conn spi.Conn

	totalSteps int32
	direction  int8

	stepPin interface{ Set(context.Context, bool) error }
	dirPin  interface{ Set(context.Context, bool) error }
}

// New wires a TMC5160 register connection plus the STEP/DIR GPIO pair this
// chip is driven with (TMC5160 supports both SPI-only "velocity mode" and
// STEP/DIR; this module uses STEP/DIR for motion, SPI only for
// configuration and StallGuard polling).
func New(conn spi.Conn, stepPin, dirPin interface{ Set(context.Context, bool) error }) *Driver {
	return &Driver{conn: conn, stepPin: stepPin, dirPin: dirPin, direction: 1}
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
	if d.direction == dir {
		return
	}
	d.direction = dir
	_ = d.dirPin.Set(context.Background(), dir > 0)
}

func (d *Driver) Step(ctx context.Context) error {
	if err := d.stepPin.Set(ctx, true); err != nil {
		return errors.Wrap(err, "raising step pin")
	}
	if err := d.stepPin.Set(ctx, false); err != nil {
		return errors.Wrap(err, "lowering step pin")
	}
	d.mu.Lock()
	d.totalSteps += int32(d.direction)
	d.mu.Unlock()
	return nil
}

func (d *Driver) EnableStallguard(ctx context.Context, sensitivity uint16) error {
	// COOLCONF bits 16-22 hold SGT, a signed threshold: lower (more
	// negative) is more sensitive. The low 7 bits of sensitivity are
	// written as SGT's raw two's-complement field; higher bits are dropped.
	sgt := uint32(sensitivity&0x7F) << 16
	return d.writeReg(ctx, regCOOLCONF, sgt)
}

func (d *Driver) DisableStallguard(ctx context.Context) error {
	return d.writeReg(ctx, regCOOLCONF, 0)
}

func (d *Driver) Stalled(ctx context.Context) (bool, error) {
	status, err := d.readReg(ctx, regDRVSTATUS)
	if err != nil {
		return false, err
	}
	return status&drvStatusStallGuardBit != 0, nil
}

// writeReg and readReg follow the TMC5160's 40-bit SPI datagram: one
// address byte (high bit set for writes) followed by four data bytes. Like
// the TMC5072 SPI module in this pack, a register read is a two-step
// dance — the data returned alongside a read request belongs to the
// *previous* transaction — so readReg issues the address twice.
func (d *Driver) writeReg(ctx context.Context, addr byte, value uint32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	tx := []byte{
		addr | writeBit,
		byte(value >> 24), byte(value >> 16), byte(value >> 8), byte(value),
	}
	rx := make([]byte, len(tx))
	return d.conn.Tx(tx, rx)
}

func (d *Driver) readReg(ctx context.Context, addr byte) (uint32, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	req := []byte{addr, 0, 0, 0, 0}
	rx := make([]byte, len(req))
	if err := d.conn.Tx(req, rx); err != nil {
		return 0, err
	}
	// Second transaction latches the response to the first.
	if err := d.conn.Tx(req, rx); err != nil {
		return 0, err
	}
	return uint32(rx[1])<<24 | uint32(rx[2])<<16 | uint32(rx[3])<<8 | uint32(rx[4]), nil
}
