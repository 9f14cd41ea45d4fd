package config

import (
	"fmt"
	"strconv"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/spf13/cobra"
)

var setCmd = &cobra.Command{
	Use:   "set <byte>",
	Short: "Write a raw config byte to the driver",
	Long: `Writes a literal config byte (GPIO pin in the low 5 bits, PWM mode
in the upper 3 bits) to the fan driver, replacing both fields at once.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return ApplyRawByte(args[0])
	},
}

// ApplyRawByte validates and writes a literal config byte. It is shared
// with the root command's bare-value invocation.
func ApplyRawByte(arg string) error {
	value, err := strconv.ParseUint(arg, 10, 8)
	if err != nil {
		return fmt.Errorf("provided value %q is not a valid config byte (0-255)", arg)
	}

	fanConfig := fanconfig.Decode(uint8(value))
	if err = fanconfig.ValidateGpio(int(fanConfig.GpioNum)); err != nil {
		return err
	}

	channel, err := openChannel()
	if err != nil {
		return err
	}
	defer func() {
		_ = channel.Close()
	}()

	oldByte, err := channel.ReadConfig()
	if err != nil {
		return err
	}
	ui.Debug("Current value: %d, writing value: %d", oldByte, value)

	if err = channel.WriteConfig(fanConfig); err != nil {
		// the driver gives no confirmation, a failed write may still
		// have been applied partially
		ui.Warning("Unable to write new config to the driver: %v", err)
	}
	return nil
}

func init() {
	Command.AddCommand(setCmd)
}
