// Package config loads per-axis kinematic configuration from YAML using
// viper, the way the rest of the pack's daemons load their settings, and
// validates it against the spec's Configuration Error class (section 7).
package config

import (
	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

// HomingMode selects which homing strategy an axis uses.
type HomingMode string

const (
	HomingSensorless HomingMode = "sensorless"
	HomingEndstop    HomingMode = "endstop"
)

// AxisConfig is the on-disk shape of one axis entry (SPEC_FULL.md's YAML
// schema).
type AxisConfig struct {
	Name             string  `mapstructure:"name"`
	StepsPerMM       float64 `mapstructure:"steps_per_mm"`
	VelocityMMS      float64 `mapstructure:"velocity_mm_s"`
	AccelerationMMS2 float64 `mapstructure:"acceleration_mm_s2"`

	HomingMode             HomingMode `mapstructure:"homing_mode"`
	HomingVelocityMMS      float64    `mapstructure:"homing_velocity_mm_s"`
	HomingAccelerationMMS2 float64    `mapstructure:"homing_acceleration_mm_s2"`
	HomingDirection        int        `mapstructure:"homing_direction"`
	HomingDistanceMM       float64    `mapstructure:"homing_distance_mm"`
	HomingBounceMM         float64    `mapstructure:"homing_bounce_mm"`
	HomingSensitivity      int        `mapstructure:"homing_sensitivity"`
	EndstopPin             string     `mapstructure:"endstop_pin"`

	StepPin      string `mapstructure:"step_pin"`
	DirPin       string `mapstructure:"dir_pin"`
	UseSPIDriver bool   `mapstructure:"use_spi_driver"`
	SPIBus       string `mapstructure:"spi_bus"`
	ChipSelect   int    `mapstructure:"chip_select"`
}

// File is the top-level document: a named list of axes.
type File struct {
	Axes []AxisConfig `mapstructure:"axes"`
}

// Load reads and parses path (YAML) via viper.
func Load(path string) (File, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return File{}, errors.Wrap(err, "reading config file")
	}

	var f File
	if err := v.Unmarshal(&f); err != nil {
		return File{}, errors.Wrap(err, "unmarshaling config")
	}
	for i := range f.Axes {
		if err := f.Axes[i].Validate(); err != nil {
			return File{}, errors.Wrapf(err, "axis %q", f.Axes[i].Name)
		}
	}
	return f, nil
}

// Validate enforces the spec's Configuration Error class: bad steps-per-mm,
// bad homing direction, or a homing mode missing its required collaborator.
func (c AxisConfig) Validate() error {
	if c.Name == "" {
		return errors.New("name is required")
	}
	if c.StepsPerMM <= 0 {
		return errors.New("steps_per_mm must be positive")
	}
	if c.HomingDirection != -1 && c.HomingDirection != 1 {
		return errors.New("homing_direction must be -1 or 1")
	}
	switch c.HomingMode {
	case HomingSensorless:
		if !c.UseSPIDriver {
			return errors.New("sensorless homing requires use_spi_driver: true")
		}
	case HomingEndstop:
		if c.EndstopPin == "" {
			return errors.New("endstop homing requires endstop_pin")
		}
	default:
		return errors.Errorf("unknown homing_mode %q", c.HomingMode)
	}
	return nil
}
