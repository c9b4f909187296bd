package lpn

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts oracle activity. A nil *Metrics is valid and records nothing.
type Metrics struct {
	Samples   prometheus.Counter
	Discarded prometheus.Counter
}

// NewMetrics creates the oracle counters and registers them on reg when reg
// is not nil.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lpn",
			Subsystem: "oracle",
			Name:      "samples_total",
			Help:      "Accepted samples produced by the oracle.",
		}),
		Discarded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "lpn",
			Subsystem: "oracle",
			Name:      "discarded_total",
			Help:      "Measurements rejected by the covering code decoder.",
		}),
	}
	if reg != nil {
		for _, c := range []prometheus.Collector{m.Samples, m.Discarded} {
			if err := reg.Register(c); err != nil {
				return nil, err
			}
		}
	}
	return m, nil
}

func (m *Metrics) observe(accepted int, discarded uint64) {
	if m == nil {
		return
	}
	m.Samples.Add(float64(accepted))
	m.Discarded.Add(float64(discarded))
}
