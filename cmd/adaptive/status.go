package adaptive

import (
	"bytes"
	"strconv"

	"github.com/guptarohit/asciigraph"
	"github.com/markusressel/rpifanctl/cmd/global"
	"github.com/markusressel/rpifanctl/internal/configuration"
	"github.com/markusressel/rpifanctl/internal/persistence"
	"github.com/markusressel/rpifanctl/internal/ui"
	"github.com/markusressel/rpifanctl/internal/util"
	"github.com/mgutz/ansi"
	"github.com/spf13/cobra"
	"github.com/tomlazar/table"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the state and temperature history of the adaptive governor",
	Long:  ``,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		loadConfiguration()

		running := false
		pidText := "-"
		pidfile := governorPidfile()
		if pid, err := pidfile.Read(); err == nil && util.IsProcessAlive(pid) {
			running = true
			pidText = strconv.Itoa(pid)
		}

		runningText := "no"
		if running {
			runningText = "yes"
		}

		rows := [][]string{
			{"Running", runningText},
			{"PID", pidText},
		}

		pers := persistence.NewPersistence(
			configuration.CurrentConfig.DbPath,
			configuration.CurrentConfig.HistoryLimit,
		)

		if run, err := pers.LoadGovernorRun(); err == nil {
			rows = append(rows,
				[]string{"Poll interval", run.PollInterval.String()},
				[]string{"Started at", run.StartedAt.Format("2006-01-02 15:04:05")},
			)
		}

		history, err := pers.LoadHistory()
		if err == nil && len(history) > 0 {
			last := history[len(history)-1]
			rows = append(rows,
				[]string{"Last temperature", strconv.Itoa(last.Temperature) + " m°C"},
				[]string{"Max temperature", strconv.Itoa(last.MaxTemperature) + " m°C"},
				[]string{"Last duty cycle", strconv.FormatUint(last.DutyCycle, 10)},
			)
		}

		// print table
		tab := table.Table{
			Headers: []string{"", ""},
			Rows:    rows,
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

		// print graph
		if len(history) == 0 {
			ui.Printfln("No temperature history yet...")
			return nil
		}

		values := make([]float64, 0, len(history))
		for _, entry := range history {
			values = append(values, float64(entry.Temperature)/1000.0)
		}

		caption := "CPU temperature (°C)"
		graph := asciigraph.Plot(values, asciigraph.Height(15), asciigraph.Width(100), asciigraph.Caption(caption))
		ui.Printfln(graph)
		return nil
	},
}

func init() {
	Command.AddCommand(statusCmd)
}
