package config_test

import (
	"testing"

	"go.viam.com/test"

	"github.com/atanisoft/fishfood/internal/config"
)

func TestValidateRejectsMissingName(t *testing.T) {
	c := config.AxisConfig{StepsPerMM: 80, HomingDirection: 1, HomingMode: config.HomingEndstop, EndstopPin: "GPIO5"}
	c.Name = ""
	err := c.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateRejectsZeroStepsPerMM(t *testing.T) {
	c := config.AxisConfig{Name: "X", HomingDirection: 1, HomingMode: config.HomingEndstop, EndstopPin: "GPIO5"}
	err := c.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateSensorlessRequiresSPI(t *testing.T) {
	c := config.AxisConfig{
		Name: "X", StepsPerMM: 80, HomingDirection: -1,
		HomingMode: config.HomingSensorless, UseSPIDriver: false,
	}
	err := c.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateEndstopRequiresPin(t *testing.T) {
	c := config.AxisConfig{
		Name: "X", StepsPerMM: 80, HomingDirection: -1,
		HomingMode: config.HomingEndstop, EndstopPin: "",
	}
	err := c.Validate()
	test.That(t, err, test.ShouldNotBeNil)
}

func TestValidateAcceptsWellFormedEndstopConfig(t *testing.T) {
	c := config.AxisConfig{
		Name: "X", StepsPerMM: 80, HomingDirection: -1,
		HomingMode: config.HomingEndstop, EndstopPin: "GPIO5",
	}
	err := c.Validate()
	test.That(t, err, test.ShouldBeNil)
}
