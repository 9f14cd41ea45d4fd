package fan

import (
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/device"
	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/spf13/cobra"
)

var Command = &cobra.Command{
	Use:              "fan",
	Short:            "Fan device related commands",
	Long:             ``,
	TraverseChildren: true,
}

// openChannel loads and validates the application configuration and
// opens the fan device channel.
func openChannel() (*device.Channel, error) {
	configPath := configuration.DetectConfigFile()
	if len(configPath) > 0 {
		ui.Debug("Using configuration file at: %s", configPath)
	}
	configuration.LoadConfig()
	if err := configuration.Validate(); err != nil {
		ui.FatalWithoutStacktrace("%v", err)
	}

	return device.Open(configuration.CurrentConfig.DevicePath)
}

// readFanConfig reads and decodes the current fan configuration.
func readFanConfig(channel *device.Channel) (fanconfig.FanConfig, error) {
	configByte, err := channel.ReadConfig()
	if err != nil {
		return fanconfig.FanConfig{}, err
	}
	return fanconfig.Decode(configByte), nil
}
