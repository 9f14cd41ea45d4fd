package adaptive

import (
	"fmt"

	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/markusressel/rpifanctl/internal/util"
	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"
)

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Terminate the running adaptive PWM governor",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfiguration()

		pidfile := governorPidfile()
		pid, err := pidfile.Read()
		if err != nil {
			ui.Info("No adaptive governor is currently running.")
			return nil
		}

		if !util.IsProcessAlive(pid) {
			ui.Info("No adaptive governor is currently running, removing stale pidfile.")
			return pidfile.Release()
		}

		if err = unix.Kill(pid, unix.SIGTERM); err != nil {
			return fmt.Errorf("unable to terminate governor process %d: %w", pid, err)
		}

		ui.Success("Stopped adaptive governor (PID %d)", pid)
		return nil
	},
}

func init() {
	Command.AddCommand(stopCmd)
}
