package governor

import (
	"context"
	"fmt"
	"time"

	"github.com/markusressel/rpifanctl/internal/fanconfig"
	"github.com/markusressel/rpifanctl/internal/ui"
	cmap "github.com/orcaman/concurrent-map/v2"
)

// DutyWriter applies duty cycle values to the fan driver.
type DutyWriter interface {
	SetDutyCycle(duty uint64) error
}

// TemperatureReader yields fresh CPU temperature samples in millidegrees.
type TemperatureReader interface {
	Read() (int, error)
}

// State is the most recent observation of a running governor loop,
// published for the API and the statistics collectors.
type State struct {
	Temperature    int       `json:"temperature"`
	MaxTemperature int       `json:"maxTemperature"`
	DutyCycle      uint64    `json:"dutyCycle"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// StateMap holds the live state of governor loops, keyed by the id of
// the thermal source driving them.
var StateMap = cmap.New[State]()

// Governor continuously recalibrates the fan duty cycle from the
// observed CPU temperature. The duty cycle is the ratio of the current
// reading to the highest reading seen during this process's lifetime,
// scaled to the full PWM period: it is 100% exactly when the current
// temperature ties the historical peak.
type Governor struct {
	channel      DutyWriter
	sampler      TemperatureReader
	sourceId     string
	pollInterval time.Duration

	// maxTemp only ever increases while the process lives. It is never
	// persisted, a restarted governor starts over from zero.
	maxTemp int

	// onObservation, if set, receives every loop observation.
	onObservation func(State)
}

func NewGovernor(channel DutyWriter, sampler TemperatureReader, sourceId string, pollInterval time.Duration) *Governor {
	return &Governor{
		channel:      channel,
		sampler:      sampler,
		sourceId:     sourceId,
		pollInterval: pollInterval,
	}
}

// SetObservationHook registers a callback invoked after each iteration.
func (g *Governor) SetObservationHook(hook func(State)) {
	g.onObservation = hook
}

// Run executes the control loop until the context is cancelled or a
// sensor read fails. There is no other exit condition.
func (g *Governor) Run(ctx context.Context) error {
	ui.Info("Starting adaptive governor loop (interval: %s)", g.pollInterval)

	tick := time.NewTicker(g.pollInterval)
	defer tick.Stop()

	for {
		if err := g.step(); err != nil {
			return err
		}

		select {
		case <-ctx.Done():
			return nil
		case <-tick.C:
		}
	}
}

// step runs a single sample-compute-apply iteration.
func (g *Governor) step() error {
	temp, err := g.sampler.Read()
	if err != nil {
		// the loop has no recovery strategy for a dead sensor
		return fmt.Errorf("reading thermal sensor: %w", err)
	}

	if temp <= 0 {
		ui.Warning("Thermal sensor yielded a non-positive reading: %d", temp)
	}

	if temp > g.maxTemp {
		g.maxTemp = temp
		ui.Debug("New maximum temperature found. Remembering: %d mC", temp)
	}

	duty := computeDutyCycle(temp, g.maxTemp)
	ui.Debug("CPU temperature: %d mC. Writing new duty cycle: %d", temp, duty)

	if err = g.channel.SetDutyCycle(duty); err != nil {
		// failure to apply is a warning, the loop keeps going
		ui.Warning("Unable to apply duty cycle: %v", err)
	}

	state := State{
		Temperature:    temp,
		MaxTemperature: g.maxTemp,
		DutyCycle:      duty,
		UpdatedAt:      time.Now(),
	}
	StateMap.Set(g.sourceId, state)
	if g.onObservation != nil {
		g.onObservation(state)
	}

	return nil
}

// computeDutyCycle scales the current temperature against the running
// maximum onto [0, PwmPeriod]. The maximum is clamped to at least 1 so
// a non-positive first sample cannot divide by zero, and a negative
// reading maps to a stopped fan instead of wrapping around.
func computeDutyCycle(temp int, maxTemp int) uint64 {
	if temp <= 0 {
		return 0
	}
	if maxTemp < 1 {
		maxTemp = 1
	}
	return uint64(temp) * fanconfig.PwmPeriod / uint64(maxTemp)
}
