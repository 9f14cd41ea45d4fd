package adaptive

import (
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/markusressel/rpifanctl/internal/util"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:   "adaptive",
	Short: "Adaptive PWM governor related commands",
	Long: `The adaptive governor is a background process that continuously
polls the CPU temperature and recalibrates the fan duty cycle against the
highest temperature observed during its lifetime.`,
	TraverseChildren: true,
}

// loadConfiguration loads and validates the application configuration.
func loadConfiguration() {
	configPath := configuration.DetectConfigFile()
	if len(configPath) > 0 {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}
}

func governorPidfile() util.Pidfile {
	return util.NewPidfile(configuration.CurrentConfig.PidFilePath)
}
