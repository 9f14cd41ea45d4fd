package configuration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func validTestConfig() Configuration {
	return Configuration{
		DevicePath:            "/dev/rpifan",
		ThermalZonePath:       "/sys/class/thermal/thermal_zone0/temp",
		DbPath:                "/etc/rpifanctl/rpifanctl.db",
		PidFilePath:           "/run/rpifanctl-adaptive.pid",
		PollInterval:          time.Second,
		TempRollingWindowSize: 10,
		HistoryLimit:          500,
		Statistics: StatisticsConfig{
			Enabled: false,
			Port:    9000,
		},
		Api: ApiConfig{
			Enabled: false,
			Port:    9001,
		},
	}
}

func TestValidateValidConfig(t *testing.T) {
	// GIVEN
	config := validTestConfig()

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.NoError(t, err)
}

func TestValidateEmptyDevicePath(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.DevicePath = ""

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "devicePath must not be empty")
}

func TestValidateEmptyThermalZonePath(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.ThermalZonePath = ""

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.EqualError(t, err, "thermalZonePath must not be empty")
}

func TestValidateTooSmallPollInterval(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.PollInterval = 5 * time.Millisecond

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pollInterval")
}

func TestValidateNonPositiveRollingWindow(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.TempRollingWindowSize = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "tempRollingWindowSize")
}

func TestValidateNonPositiveHistoryLimit(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.HistoryLimit = -1

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "historyLimit")
}

func TestValidateInvalidStatisticsPort(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Statistics.Port = 65535

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "statistics port")
}

func TestValidateInvalidApiPort(t *testing.T) {
	// GIVEN
	config := validTestConfig()
	config.Api.Port = 0

	// WHEN
	err := validateConfig(&config)

	// THEN
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "api port")
}
