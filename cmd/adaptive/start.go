package adaptive

import (
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"syscall"

	"github.com/markusressel/rpifanctl/cmd/global"
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/device"
	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/markusressel/rpifanctl/internal/util"
	"github.com/spf13/cobra"
)

var startIntervalMs int

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Spawn the adaptive PWM governor as a background process",
	Long: `Spawns a detached governor process and reports its PID. The parent
returns immediately, it does not wait for the governor to reach its loop.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfiguration()

		pidfile := governorPidfile()
		if pid, err := pidfile.Read(); err == nil && util.IsProcessAlive(pid) {
			return fmt.Errorf("an adaptive governor is already running with PID %d, use 'adaptive stop' first", pid)
		}

		intervalMs := startIntervalMs
		if intervalMs <= 0 {
			intervalMs = int(configuration.CurrentConfig.PollInterval.Milliseconds())
		}
		if intervalMs <= 0 {
			return fmt.Errorf("poll interval must be positive, got: %dms", intervalMs)
		}

		// the governor is pointless on a non-PWM pin, reject before spawning
		channel, err := device.Open(configuration.CurrentConfig.DevicePath)
		if err != nil {
			return err
		}
		configByte, err := channel.ReadConfig()
		_ = channel.Close()
		if err != nil {
			return err
		}
		fanConfig := fanconfig.Decode(configByte)
		if !fanConfig.IsPwmCapable() {
			return fmt.Errorf("current GPIO pin %d is not a PWM pin, unable to use adaptive PWM", fanConfig.GpioNum)
		}

		executable, err := os.Executable()
		if err != nil {
			return err
		}

		childArgs := []string{"adaptive", "run", "--interval", strconv.Itoa(intervalMs)}
		if len(global.CfgFile) > 0 {
			childArgs = append(childArgs, "--config", global.CfgFile)
		}
		if global.Verbose {
			childArgs = append(childArgs, "--verbose")
		}

		// detach from the controlling session so the governor survives
		// terminal closure; the child owns its own device handle
		child := exec.Command(executable, childArgs...)
		child.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

		if err = child.Start(); err != nil {
			return fmt.Errorf("failed to spawn governor process: %w", err)
		}

		ui.Info("Adaptive PWM governor started with PID: %d", child.Process.Pid)
		return child.Process.Release()
	},
}

func init() {
	startCmd.Flags().IntVarP(
		&startIntervalMs,
		"interval", "i",
		0,
		"Time in milliseconds the governor sleeps between temperature polls",
	)
	Command.AddCommand(startCmd)
}
