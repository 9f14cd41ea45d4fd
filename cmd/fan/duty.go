package fan

import (
	"fmt"
	"strconv"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

var dutyCmd = &cobra.Command{
	Use:   "duty",
	Short: "Get/Set the current PWM duty cycle of the fan in percent ([0..100])",
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

		if len(args) == 0 {
			duty, err := channel.GetDutyCycle()
			if err != nil {
				pterm.EnableOutput()
				ui.Warning("%v", err)
				return nil
			}
			fmt.Printf("%d", duty)
			return nil
		}

		percent, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("provided value %q is not a valid duty cycle percentage", args[0])
		}
		if err = fanconfig.ValidateDutyPercent(percent); err != nil {
			return err
		}

		fanConfig, err := readFanConfig(channel)
		if err != nil {
			return err
		}
		if !fanConfig.IsPwmCapable() {
			ui.Info("GPIO pin %d is not a PWM pin, the duty cycle will have no effect on the output.", fanConfig.GpioNum)
		}

		duty := fanconfig.DutyCycleFromPercent(percent)
		ui.Debug("Setting duty cycle to %d%% (%d / %d)", percent, duty, fanconfig.PwmPeriod)

		if err = channel.SetDutyCycle(duty); err != nil {
			ui.Warning("%v", err)
		}
		return nil
	},
}

func init() {
	Command.AddCommand(dutyCmd)
}
