package statistics

import (
	"github.com/markusressel/rpifanctl/internal/governor"
	"github.com/prometheus/client_golang/prometheus"
)

const subsystemGovernor = "governor"

type GovernorCollector struct {
	temperature    *prometheus.Desc
	maxTemperature *prometheus.Desc
	dutyCycle      *prometheus.Desc
}

func NewGovernorCollector() *GovernorCollector {
	return &GovernorCollector{
		temperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemGovernor, "temperature"),
			"Current CPU temperature in millidegrees celsius",
			[]string{"source"}, nil,
		),
		maxTemperature: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemGovernor, "max_temperature"),
			"Highest CPU temperature observed during this governor's lifetime",
			[]string{"source"}, nil,
		),
		dutyCycle: prometheus.NewDesc(prometheus.BuildFQName(namespace, subsystemGovernor, "duty_cycle"),
			"Currently applied PWM duty cycle counter value",
			[]string{"source"}, nil,
		),
	}
}

func (collector *GovernorCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- collector.temperature
	ch <- collector.maxTemperature
	ch <- collector.dutyCycle
}

// Collect implements the required collect function for all prometheus collectors
func (collector *GovernorCollector) Collect(ch chan<- prometheus.Metric) {
	for tuple := range governor.StateMap.IterBuffered() {
		source := tuple.Key
		state := tuple.Val
		ch <- prometheus.MustNewConstMetric(collector.temperature, prometheus.GaugeValue, float64(state.Temperature), source)
		ch <- prometheus.MustNewConstMetric(collector.maxTemperature, prometheus.GaugeValue, float64(state.MaxTemperature), source)
		ch <- prometheus.MustNewConstMetric(collector.dutyCycle, prometheus.GaugeValue, float64(state.DutyCycle), source)
	}
}
