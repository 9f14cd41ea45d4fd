package fan

import (
	"fmt"
	"strconv"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var modeCmd = &cobra.Command{
	Use:   "mode",
	Short: "Get/Set the current PWM mode of the fan ([0..7])",
	Long:  ``,
	Args:  cobra.RangeArgs(0, 1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			pterm.DisableOutput()
		}

		channel, err := openChannel()
		if err != nil {
			return err
		}
		defer func() {
			_ = channel.Close()
		}()

		oldConfig, err := readFanConfig(channel)
		if err != nil {
			return err
		}

		if len(args) == 0 {
			fmt.Printf("%d", oldConfig.PwmMode)
			return nil
		}

		mode, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("provided value %q is not a valid PWM mode", args[0])
		}
		if err = fanconfig.ValidatePwmMode(mode); err != nil {
			return err
		}

		// changing the mode must not touch the GPIO pin
		newConfig := oldConfig.WithPwmMode(uint8(mode))
		if !newConfig.IsPwmCapable() {
			ui.Info("GPIO pin %d is not a PWM pin, the mode change will have no effect on the output.", newConfig.GpioNum)
		}

		if err = channel.WriteConfig(newConfig); err != nil {
			ui.Warning("Unable to write new config to the driver: %v", err)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(modeCmd)
}
