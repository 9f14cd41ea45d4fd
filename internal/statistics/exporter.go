package statistics

import "github.com/prometheus/client_golang/prometheus"

const (
	namespace = "rpifanctl"
)

func Register(collector prometheus.Collector) {
	prometheus.MustRegister(collector)
}
