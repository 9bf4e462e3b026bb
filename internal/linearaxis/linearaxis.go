// Package linearaxis registers a viam motor component backed by
// internal/motion.Axis: a trapezoidal-profile linear stage driven by either
// a bare STEP/DIR driver or a 28BYJ-48/ULN2003 geared stepper (see
// buildDriver), homed against a limit switch (endstop homing). No
// TMC5160/SPI driver is built here and neither driver reports stalls, so a
// "home" command in any other homing mode runs the full seek and fails with
// motion.ErrHomingTimeout. Structurally this
// follows viam-modules-uln2003's component (resource.RegisterComponent,
// operation.SingleOperationManager, utils.StoppableWorkers background
// loop), generalized from a fixed 4-wire ULN2003 sequence to the spec's
// trapezoidal stepper core.
package linearaxis

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.viam.com/rdk/components/board"
	"go.viam.com/rdk/components/motor"
	"go.viam.com/rdk/logging"
	"go.viam.com/rdk/operation"
	"go.viam.com/rdk/resource"
	"go.viam.com/utils"

	"github.com/atanisoft/fishfood/internal/clockutil"
	fconfig "github.com/atanisoft/fishfood/internal/config"
	"github.com/atanisoft/fishfood/internal/driver"
	"github.com/atanisoft/fishfood/internal/gpioio"
	"github.com/atanisoft/fishfood/internal/gpiostep"
	"github.com/atanisoft/fishfood/internal/motion"
	"github.com/atanisoft/fishfood/internal/report"
	"github.com/atanisoft/fishfood/internal/uln2003step"
)

// buildDriver picks the stepper driver implementation this axis is wired
// to: a 28BYJ-48/ULN2003 geared stepper when uln2003_pins is fully set,
// otherwise a bare STEP/DIR driver.
func buildDriver(b board.Board, cfg *Config) (driver.Driver, error) {
	if cfg.Uln2003.isSet() {
		pins := cfg.Uln2003
		names := [4]string{pins.In1, pins.In2, pins.In3, pins.In4}
		var wrapped [4]gpioio.Pin
		for i, name := range names {
			p, err := b.GPIOPinByName(name)
			if err != nil {
				return nil, err
			}
			wrapped[i] = wrapBoardPin(p)
		}
		return uln2003step.New(wrapped[0], wrapped[1], wrapped[2], wrapped[3]), nil
	}

	stepGPIO, err := b.GPIOPinByName(cfg.StepPin)
	if err != nil {
		return nil, err
	}
	dirGPIO, err := b.GPIOPinByName(cfg.DirPin)
	if err != nil {
		return nil, err
	}
	return gpiostep.New(wrapBoardPin(stepGPIO), wrapBoardPin(dirGPIO), gpioio.Pin{}, false), nil
}

// Model is the exported model identifier, for module registration from
// cmd/fishfood-axis.
var Model = resource.DefaultModelFamily.WithModel("linear-axis")

func init() {
	resource.RegisterComponent(motor.API, Model, resource.Registration[motor.Motor, *Config]{
		Constructor: newLinearAxis,
	})
}

// Uln2003Pins configures an axis driven by a 28BYJ-48/ULN2003 geared
// stepper instead of a STEP/DIR driver — an option for low-cost,
// low-precision feeder axes.
type Uln2003Pins struct {
	In1 string `json:"in1"`
	In2 string `json:"in2"`
	In3 string `json:"in3"`
	In4 string `json:"in4"`
}

func (p Uln2003Pins) isSet() bool {
	return p.In1 != "" && p.In2 != "" && p.In3 != "" && p.In4 != ""
}

// Config is the viam resource configuration for one linear axis.
type Config struct {
	BoardName string `json:"board"`

	StepPin string `json:"step_pin,omitempty"`
	DirPin  string `json:"dir_pin,omitempty"`

	Uln2003 Uln2003Pins `json:"uln2003_pins,omitempty"`

	HomingMode             fconfig.HomingMode `json:"homing_mode"`
	EndstopPin             string              `json:"endstop_pin,omitempty"`
	StepsPerMM              float64            `json:"steps_per_mm"`
	VelocityMMS             float64            `json:"velocity_mm_s"`
	AccelerationMMS2        float64            `json:"acceleration_mm_s2"`
	HomingVelocityMMS       float64            `json:"homing_velocity_mm_s"`
	HomingAccelerationMMS2  float64            `json:"homing_acceleration_mm_s2"`
	HomingDirection         int                `json:"homing_direction"`
	HomingDistanceMM        float64            `json:"homing_distance_mm"`
	HomingBounceMM          float64            `json:"homing_bounce_mm"`
	HomingSensitivity       int                `json:"homing_sensitivity"`
}

// Validate implements resource.Validator: it checks the config is
// self-consistent and declares the board dependency the constructor needs.
func (cfg *Config) Validate(path string) ([]string, error) {
	if cfg.BoardName == "" {
		return nil, resource.NewConfigValidationFieldRequiredError(path, "board")
	}
	if !cfg.Uln2003.isSet() && (cfg.StepPin == "" || cfg.DirPin == "") {
		return nil, errors.New("either step_pin+dir_pin or a full uln2003_pins block is required")
	}
	if cfg.StepsPerMM <= 0 {
		return nil, errors.New("steps_per_mm must be positive")
	}
	if cfg.HomingDirection != -1 && cfg.HomingDirection != 1 {
		return nil, errors.New("homing_direction must be -1 or 1")
	}
	if cfg.HomingMode == fconfig.HomingEndstop && cfg.EndstopPin == "" {
		return nil, errors.New("endstop homing requires endstop_pin")
	}
	return []string{cfg.BoardName}, nil
}

type linearAxis struct {
	resource.Named
	resource.AlwaysRebuild

	mu     sync.Mutex
	axis   *motion.Axis
	endpin *gpioio.Pin
	cfg    *Config

	opMgr   *operation.SingleOperationManager
	workers *utils.StoppableWorkers
	logger  logging.Logger
}

func newLinearAxis(
	ctx context.Context,
	deps resource.Dependencies,
	conf resource.Config,
	logger logging.Logger,
) (motor.Motor, error) {
	newConf, err := resource.NativeConfig[*Config](conf)
	if err != nil {
		return nil, err
	}

	b, err := board.FromDependencies(deps, newConf.BoardName)
	if err != nil {
		return nil, err
	}

	drv, err := buildDriver(b, newConf)
	if err != nil {
		return nil, err
	}

	var endpin *gpioio.Pin
	if newConf.EndstopPin != "" {
		ep, err := b.GPIOPinByName(newConf.EndstopPin)
		if err != nil {
			return nil, err
		}
		p := wrapBoardPin(ep)
		endpin = &p
	}

	axisName := byte('A')
	if len(conf.Name) > 0 {
		axisName = conf.Name[0]
	}
	axisCfg := motion.Config{
		Name:                   axisName,
		StepsPerMM:             newConf.StepsPerMM,
		VelocityMMS:            newConf.VelocityMMS,
		AccelerationMMS2:       newConf.AccelerationMMS2,
		HomingVelocityMMS:      newConf.HomingVelocityMMS,
		HomingAccelerationMMS2: newConf.HomingAccelerationMMS2,
		HomingDirection:        int8(newConf.HomingDirection),
		HomingDistanceMM:       newConf.HomingDistanceMM,
		HomingBounceMM:         newConf.HomingBounceMM,
		HomingSensitivity:      uint16(newConf.HomingSensitivity),
		Endstop:                newConf.EndstopPin,
	}

	la := &linearAxis{
		Named:   conf.ResourceName().AsNamed(),
		axis:    motion.New(axisCfg, drv, nil, clockutil.System(), report.FromLogger(logger)),
		endpin:  endpin,
		cfg:     newConf,
		opMgr:   operation.NewSingleOperationManager(),
		logger:  logger,
	}
	la.workers = utils.NewBackgroundStoppableWorkers(la.doRun)
	return la, nil
}

func wrapBoardPin(p board.GPIOPin) gpioio.Pin {
	return gpioio.New(
		func(ctx context.Context, high bool) error { return p.Set(ctx, high, nil) },
		func(ctx context.Context) (bool, error) { return p.Get(ctx, nil) },
	)
}

// doRun is the background worker pumping TimedStep, structurally the same
// shape as the teacher's doRun loop.
func (la *linearAxis) doRun(ctx context.Context) {
	for {
		if !utils.SelectContextOrWait(ctx, time.Millisecond) {
			return
		}
		la.mu.Lock()
		if la.axis.IsMoving() {
			if _, err := la.axis.TimedStep(ctx); err != nil {
				la.logger.Errorw("step failed", "error", err)
			}
		}
		la.mu.Unlock()
	}
}

func (la *linearAxis) GoFor(ctx context.Context, rpm, revolutions float64, extra map[string]interface{}) error {
	return errors.New("GoFor is not supported; use GoTo with an absolute mm position")
}

func (la *linearAxis) GoTo(ctx context.Context, rpm, positionMM float64, extra map[string]interface{}) error {
	ctx, done := la.opMgr.New(ctx)
	defer done()

	la.mu.Lock()
	plan := la.axis.CalculateMove(positionMM)
	la.axis.StartMove(plan)
	la.mu.Unlock()

	for {
		la.mu.Lock()
		moving := la.axis.IsMoving()
		la.mu.Unlock()
		if !moving {
			return nil
		}
		if !utils.SelectContextOrWait(ctx, 5*time.Millisecond) {
			return ctx.Err()
		}
	}
}

func (la *linearAxis) SetRPM(ctx context.Context, rpm float64, extra map[string]interface{}) error {
	return errors.New("SetRPM (velocity mode) is not supported by this axis")
}

func (la *linearAxis) SetPower(ctx context.Context, powerPct float64, extra map[string]interface{}) error {
	return errors.New("SetPower is not supported by this axis")
}

func (la *linearAxis) ResetZeroPosition(ctx context.Context, offset float64, extra map[string]interface{}) error {
	la.mu.Lock()
	defer la.mu.Unlock()
	la.axis.SetPositionMM(offset)
	return nil
}

func (la *linearAxis) Position(ctx context.Context, extra map[string]interface{}) (float64, error) {
	la.mu.Lock()
	defer la.mu.Unlock()
	return la.axis.PositionMM(), nil
}

func (la *linearAxis) Properties(ctx context.Context, extra map[string]interface{}) (motor.Properties, error) {
	return motor.Properties{PositionReporting: true}, nil
}

func (la *linearAxis) IsMoving(ctx context.Context) (bool, error) {
	la.mu.Lock()
	defer la.mu.Unlock()
	return la.axis.IsMoving(), nil
}

func (la *linearAxis) IsPowered(ctx context.Context, extra map[string]interface{}) (bool, float64, error) {
	moving, err := la.IsMoving(ctx)
	if err != nil {
		return false, 0, err
	}
	if moving {
		return true, 1, nil
	}
	return false, 0, nil
}

func (la *linearAxis) Stop(ctx context.Context, extra map[string]interface{}) error {
	la.opMgr.CancelRunning(ctx)
	la.mu.Lock()
	defer la.mu.Unlock()
	la.axis.Stop()
	return nil
}

// DoCommand dispatches the "home" command to the configured homing
// strategy, driven by the driver.Driver's StallGuard support (sensorless)
// or this component's endstop pin.
func (la *linearAxis) DoCommand(ctx context.Context, cmd map[string]interface{}) (map[string]interface{}, error) {
	if _, ok := cmd["home"]; !ok {
		return nil, errors.New("unsupported command; only \"home\" is implemented")
	}

	ctx, done := la.opMgr.New(ctx)
	defer done()

	var err error
	if la.cfg.HomingMode == fconfig.HomingEndstop {
		if la.endpin == nil {
			return nil, errors.New("endstop homing configured but no endstop_pin set")
		}
		la.mu.Lock()
		err = la.axis.EndstopHome(ctx, la.endpin)
		la.mu.Unlock()
	} else {
		la.mu.Lock()
		err = la.axis.SensorlessHome(ctx)
		la.mu.Unlock()
	}
	if err != nil {
		return nil, err
	}
	return map[string]interface{}{"homed": true}, nil
}

func (la *linearAxis) Close(ctx context.Context) error {
	la.workers.Stop()
	return nil
}

var _ driver.Driver = (*gpiostep.Driver)(nil)
