package fan

import (
	"fmt"
	"strconv"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var gpioCmd = &cobra.Command{
	Use:   "gpio",
	Short: "Get/Set the GPIO pin the fan is attached to ([2..30])",
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
			fmt.Printf("%d", oldConfig.GpioNum)
			return nil
		}

		pin, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("provided value %q is not a valid GPIO pin number", args[0])
		}
		if err = fanconfig.ValidateGpio(pin); err != nil {
			return err
		}

		// changing the pin must not touch the PWM mode
		newConfig := oldConfig.WithGpio(uint8(pin))
		if !newConfig.IsPwmCapable() {
			ui.Info("GPIO pin %d is not a PWM pin, the fan will run as a plain on/off output.", pin)
		}

		if err = channel.WriteConfig(newConfig); err != nil {
			ui.Warning("Unable to write new config to the driver: %v", err)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(gpioCmd)
}
