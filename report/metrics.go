package report

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
)

// PrintMetrics writes the value of every counter and gauge gathered from g.
func PrintMetrics(w io.Writer, g prometheus.Gatherer) error {
	mfs, err := g.Gather()
	if err != nil {
		return fmt.Errorf("cannot PrintMetrics: %w", err)
	}
	for _, mf := range mfs {
		for _, m := range mf.GetMetric() {
			var v float64
			switch {
			case m.GetCounter() != nil:
				v = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				v = m.GetGauge().GetValue()
			default:
				continue
			}
			if _, err := fmt.Fprintf(w, "%-30s: %.0f\n", mf.GetName(), v); err != nil {
				return err
			}
		}
	}
	return nil
}
