package configuration

import (
	"fmt"
	"time"
)

func Validate() error {
	return validateConfig(&CurrentConfig)
}

func validateConfig(config *Configuration) error {
	if len(config.DevicePath) <= 0 {
		return fmt.Errorf("devicePath must not be empty")
	}
	if len(config.ThermalZonePath) <= 0 {
		return fmt.Errorf("thermalZonePath must not be empty")
	}
	if len(config.DbPath) <= 0 {
		return fmt.Errorf("dbPath must not be empty")
	}
	if len(config.PidFilePath) <= 0 {
		return fmt.Errorf("pidFilePath must not be empty")
	}

	if config.PollInterval < 10*time.Millisecond {
		return fmt.Errorf("pollInterval must be at least 10ms, got: %s", config.PollInterval)
	}
	if config.TempRollingWindowSize <= 0 {
		return fmt.Errorf("tempRollingWindowSize must be > 0, got: %d", config.TempRollingWindowSize)
	}
	if config.HistoryLimit <= 0 {
		return fmt.Errorf("historyLimit must be > 0, got: %d", config.HistoryLimit)
	}

	if err := validatePort("statistics", config.Statistics.Port); err != nil {
		return err
	}
	return validatePort("api", config.Api.Port)
}

func validatePort(name string, port int) error {
	if port <= 0 || port >= 65535 {
		return fmt.Errorf("%s port must be in (0, 65535), got: %d", name, port)
	}
	return nil
}
