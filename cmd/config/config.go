package config

import (
	"bytes"
	"strconv"

	"github.com/markusressel/rpifanctl/cmd/global"
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/device"
	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var Command = &cobra.Command{
	Use:              "config",
	Short:            "Fan configuration related commands",
	Long:             ``,
	TraverseChildren: true,
	Args:             cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		channel, err := openChannel()
		if err != nil {
			return err
		}
		defer func() {
			_ = channel.Close()
		}()

		configByte, err := channel.ReadConfig()
		if err != nil {
			return err
		}
		fanConfig := fanconfig.Decode(configByte)

		pwmCapable := "no"
		if fanConfig.IsPwmCapable() {
			pwmCapable = "yes"
		}

		tab := table.Table{
			Headers: []string{"", ""},
			Rows: [][]string{
				{"Config byte", strconv.Itoa(int(configByte))},
				{"GPIO pin", strconv.Itoa(int(fanConfig.GpioNum))},
				{"PWM mode", strconv.Itoa(int(fanConfig.PwmMode))},
				{"PWM capable", pwmCapable},
			},
		}
		var buf bytes.Buffer
		tableErr := tab.WriteTable(&buf, &table.Config{
			ShowIndex:       false,
			Color:           !global.NoColor,
			AlternateColors: true,
			TitleColorCode:  ansi.ColorCode("white+buf"),
			AltColorCodes: []string{
				ansi.ColorCode("white"),
				ansi.ColorCode("white:236"),
			},
		})
		if tableErr != nil {
			return tableErr
		}
		ui.Printfln(buf.String())
		return nil
	},
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
