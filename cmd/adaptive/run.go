package adaptive

import (
	"fmt"
	"time"

	"github.com/markusressel/rpifanctl/internal"
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/spf13/cobra"
)

var runIntervalMs int

// runCmd is the foreground body of the governor, the target of the
// detached child spawned by 'adaptive start'. It can also be invoked
// directly to run the governor in the foreground.
var runCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the adaptive PWM governor in the foreground",
	Long:   ``,
	Args:   cobra.NoArgs,
	Hidden: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfiguration()

		intervalMs := runIntervalMs
		if intervalMs <= 0 {
			intervalMs = int(configuration.CurrentConfig.PollInterval.Milliseconds())
		}
		if intervalMs <= 0 {
			return fmt.Errorf("poll interval must be positive, got: %dms", intervalMs)
		}

		return internal.RunDaemon(time.Duration(intervalMs) * time.Millisecond)
	},
}

func init() {
	runCmd.Flags().IntVarP(
		&runIntervalMs,
		"interval", "i",
		0,
		"Time in milliseconds the governor sleeps between temperature polls",
	)
	Command.AddCommand(runCmd)
}
